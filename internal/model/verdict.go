package model

// Verdict is one moderation decision for a submitted title.
type Verdict struct {
	Title  string `json:"title"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}
