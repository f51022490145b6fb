package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/http/api"
	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

const testSecret = "auth-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st, err := store.New(t.TempDir(), clock.Real{})
	assert.NoError(t, err)

	hash, err := middleware.HashPassword("correct-horse")
	assert.NoError(t, err)
	assert.NoError(t, st.SaveAdminAccounts([]model.AdminAccount{
		{Username: "admin", HashedPassword: hash, Role: model.RoleAdmin, CreatedAt: time.Now()},
	}))

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"}, AuthPublicModule(testSecret, st))
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin", Auth: true, SecretKey: testSecret, Store: st,
	}, AuthSessionModule(testSecret, st))
	return r
}

func login(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	r := newAuthRouter(t)

	w := login(r, "admin", "correct-horse")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleAdmin, resp.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newAuthRouter(t)
	assert.Equal(t, http.StatusUnauthorized, login(r, "admin", "nope").Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	r := newAuthRouter(t)
	assert.Equal(t, http.StatusUnauthorized, login(r, "ghost", "correct-horse").Code)
}

func TestLogin_SanitizesUsername(t *testing.T) {
	r := newAuthRouter(t)
	// Markup is stripped before lookup, so the decorated name still matches.
	assert.Equal(t, http.StatusOK, login(r, "<b>admin</b>", "correct-horse").Code)
}

func TestCurrentProfile(t *testing.T) {
	r := newAuthRouter(t)

	w := login(r, "admin", "correct-horse")
	var resp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/current_profile", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)

	// No token, no profile.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/auth/current_profile", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
