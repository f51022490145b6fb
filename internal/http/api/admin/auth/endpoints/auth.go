package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/http/api"
	"github.com/campusfm/songday/internal/http/api/admin/auth/packets"
	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/intake"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

// AuthPublicModule mounts the public login endpoint.
func AuthPublicModule(jwtSecret string, st *store.Store) api.Module {
	ctl := newAccountManager(jwtSecret, st)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

// AuthSessionModule mounts private profile endpoints (JWT required).
func AuthSessionModule(jwtSecret string, st *store.Store) api.Module {
	ctl := newAccountManager(jwtSecret, st)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret string
	store     *store.Store
}

func newAccountManager(secret string, st *store.Store) *AccountManager {
	return &AccountManager{jwtSecret: secret, store: st}
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	username := intake.Sanitize(request.Username, 50)
	account, ok := a.store.FindAdmin(username)
	if !ok || !middleware.CheckPassword(account.HashedPassword, request.Password) {
		log.Warn().Str("username", username).Msg("[auth] failed login attempt")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	token, err := middleware.GenerateJWT(account.Username, account.Role, a.jwtSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.LoginResponse{Token: token, Role: account.Role}, nil
}

// GET /api/admin/auth/current_profile
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	return packets.ProfileResponse{
		Username:  admin.Username,
		Role:      admin.Role,
		CreatedAt: admin.CreatedAt.Format(time.RFC3339),
	}, nil
}
