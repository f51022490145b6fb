package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/catalog"
	"github.com/campusfm/songday/internal/http/api"
	"github.com/campusfm/songday/internal/http/api/admin/packets"
	studentendpoints "github.com/campusfm/songday/internal/http/api/student/endpoints"
	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/storage"
	"github.com/campusfm/songday/internal/store"
)

type RequestAdminController struct {
	store   *store.Store
	catalog *catalog.Client
	cache   storage.Storage
}

func newRequestAdminController(st *store.Store, cat *catalog.Client, cache storage.Storage) *RequestAdminController {
	return &RequestAdminController{store: st, catalog: cat, cache: cache}
}

// PlaybackModule mounts the listing surface shared by the admin and control
// roles: the day's requests with playback URLs, and the stored-day index.
func PlaybackModule(st *store.Store, cat *catalog.Client, cache storage.Storage) api.Module {
	ctl := newRequestAdminController(st, cat, cache)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/requests", ctl.listRequests)
		c.GET("/dates", ctl.listDates)
	})
}

// RequestAdminModule mounts the destructive request operations, admin role
// only.
func RequestAdminModule(st *store.Store, cat *catalog.Client, cache storage.Storage) api.Module {
	ctl := newRequestAdminController(st, cat, cache)
	return api.ModuleFunc(func(c *api.Controller) {
		c.DELETE("/requests/:id", ctl.deleteRequest)
		c.POST("/requests/batch_delete", ctl.batchDelete)
		c.POST("/requests/clear", ctl.clearList)
	})
}

// GET /requests?date=YYYY-MM-DD
func (r *RequestAdminController) listRequests(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	day := ctx.Query("date")
	if day != "" && !store.ValidDay(day) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date, want YYYY-MM-DD"}
	}
	list := r.store.ReadDay(day)
	return studentendpoints.MapSongs(ctx.Request.Context(), list, r.cache, r.catalog), nil
}

// GET /dates
func (r *RequestAdminController) listDates(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	dates := r.store.AvailableDates()
	if dates == nil {
		dates = []string{}
	}
	return packets.DatesResponse{Dates: dates}, nil
}

// DELETE /requests/:id
func (r *RequestAdminController) deleteRequest(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid song id"}
	}
	return r.removeIDs(admin, []int{id})
}

// POST /requests/batch_delete
func (r *RequestAdminController) batchDelete(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	var request packets.BatchDeleteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || len(request.IDs) == 0 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "no songs selected"}
	}
	return r.removeIDs(admin, request.IDs)
}

func (r *RequestAdminController) removeIDs(admin *model.AdminAccount, ids []int) (any, *api.APIError) {
	selected := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	today := r.store.ReadDay("")
	filtered := make([]model.SongRequest, 0, len(today))
	for _, req := range today {
		if _, ok := selected[req.ID]; !ok {
			filtered = append(filtered, req)
		}
	}
	if err := r.store.WriteDay("", filtered); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save the list"}
	}

	deleted := len(today) - len(filtered)
	log.Info().Str("admin", admin.Username).Ints("ids", ids).Int("deleted", deleted).
		Msg("[admin] requests deleted")
	return packets.DeleteResponse{Deleted: deleted}, nil
}

// POST /requests/clear
func (r *RequestAdminController) clearList(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	var request packets.ClearListRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "password is required"}
	}
	if !middleware.CheckPassword(admin.HashedPassword, request.Password) {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "wrong password, list not cleared"}
	}

	today := r.store.ReadDay("")
	if err := r.store.WriteDay("", []model.SongRequest{}); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not clear the list"}
	}
	log.Info().Str("admin", admin.Username).Int("deleted", len(today)).Msg("[admin] today's list cleared")
	return packets.DeleteResponse{Deleted: len(today)}, nil
}
