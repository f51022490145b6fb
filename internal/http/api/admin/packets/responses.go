package packets

import "github.com/campusfm/songday/internal/model"

type ReviewResponse struct {
	Results []model.Verdict `json:"results"`
}

type ApplyReviewResponse struct {
	Kept    int    `json:"kept"`
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

type DatesResponse struct {
	Dates []string `json:"dates"`
}
