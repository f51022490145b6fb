package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/http/api"
	"github.com/campusfm/songday/internal/http/api/admin/packets"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/moderation"
)

type ModerationController struct {
	reviewer *moderation.Reviewer
}

// ModerationModule mounts the two-step AI review: request verdicts, then
// explicitly apply a selection of them. The verdicts travel through the
// client between the two calls, so nothing is lost on a restart in between.
func ModerationModule(reviewer *moderation.Reviewer) api.Module {
	ctl := &ModerationController{reviewer: reviewer}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/moderation/review", ctl.review)
		c.POST("/moderation/apply", ctl.apply)
	})
}

// POST /moderation/review
func (m *ModerationController) review(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	verdicts, err := m.reviewer.Review(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, moderation.ErrEmptyDay) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "no requests to review today"}
		}
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "review failed, try again later"}
	}
	log.Info().Str("admin", admin.Username).Int("verdicts", len(verdicts)).Msg("[admin] review completed")
	return packets.ReviewResponse{Results: verdicts}, nil
}

// POST /moderation/apply
func (m *ModerationController) apply(ctx *gin.Context, admin *model.AdminAccount) (any, *api.APIError) {
	var request packets.ApplyReviewRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if len(request.Indices) == 0 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "no verdicts selected"}
	}

	kept, deleted, err := m.reviewer.Apply(request.Indices, request.Verdicts)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not apply review results"}
	}
	return packets.ApplyReviewResponse{
		Kept:    kept,
		Deleted: deleted,
		Message: fmt.Sprintf("applied %d verdicts, removed %d songs", len(request.Indices), deleted),
	}, nil
}
