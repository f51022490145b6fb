package packets

import "github.com/campusfm/songday/internal/model"

type BatchDeleteRequest struct {
	IDs []int `json:"ids" binding:"required"`
}

type ClearListRequest struct {
	// The operator re-enters their password before an irreversible clear.
	Password string `json:"password" binding:"required"`
}

type TogglePauseRequest struct {
	Reason string `json:"reason"`
}

type ApplyReviewRequest struct {
	// Indices selects which verdicts from the review response to apply.
	Indices  []int           `json:"indices" binding:"required"`
	Verdicts []model.Verdict `json:"verdicts" binding:"required"`
}

type AnnouncementRequest struct {
	Content string `json:"content"`
	Enabled bool   `json:"enabled"`
}
