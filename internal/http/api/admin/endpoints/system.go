package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/http/api"
	"github.com/campusfm/songday/internal/http/api/admin/packets"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

type SystemController struct {
	store *store.Store
}

// SystemModule mounts the intake pause toggle and announcement management,
// admin role only.
func SystemModule(st *store.Store) api.Module {
	ctl := &SystemController{store: st}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/system/status", ctl.getStatus)
		c.POST("/system/toggle_pause", ctl.togglePause)
		c.GET("/announcement", ctl.getAnnouncement)
		c.PUT("/announcement", ctl.updateAnnouncement)
	})
}

// GET /system/status
func (s *SystemController) getStatus(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	return s.store.SystemStatus(), nil
}

// POST /system/toggle_pause
func (s *SystemController) togglePause(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	var request packets.TogglePauseRequest
	// Body is optional when resuming.
	_ = ctx.ShouldBindJSON(&request)

	status := s.store.SystemStatus()
	status.RequestsPaused = !status.RequestsPaused
	if status.RequestsPaused {
		status.PauseReason = request.Reason
		if status.PauseReason == "" {
			status.PauseReason = "song requests are paused"
		}
	} else {
		status.PauseReason = ""
	}

	if err := s.store.SaveSystemStatus(status); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save system status"}
	}
	log.Info().Str("admin", admin.Username).Bool("paused", status.RequestsPaused).
		Msg("[admin] intake pause toggled")
	return status, nil
}

// GET /announcement
func (s *SystemController) getAnnouncement(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	return s.store.Announcement(), nil
}

// PUT /announcement
func (s *SystemController) updateAnnouncement(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	var request packets.AnnouncementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	a := model.Announcement{Content: request.Content, Enabled: request.Enabled}
	if err := s.store.SaveAnnouncement(a); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save announcement"}
	}
	log.Info().Str("admin", admin.Username).Bool("enabled", a.Enabled).Msg("[admin] announcement updated")
	return a, nil
}
