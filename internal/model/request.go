package model

import "time"

// SongRequest is one student's submission for one logical day. Catalog
// metadata fields are always serialized, empty string when absent, so every
// consumer sees a uniform shape.
type SongRequest struct {
	ID          int       `json:"id"`
	SongName    string    `json:"song_name"`
	ClassName   string    `json:"class_name"`
	StudentName string    `json:"student_name"`
	RequestDate time.Time `json:"request_date"`
	Votes       int       `json:"votes"`

	SongID   string `json:"song_id"`
	CoverURL string `json:"cover_url"`
	Artists  string `json:"artists"`
	Album    string `json:"album"`
	Lyric    string `json:"lyric"`
}

// NextID returns the id for a new request appended to list: max existing + 1,
// starting at 1 for an empty day. Ids are never reused after deletions.
func NextID(list []SongRequest) int {
	max := 0
	for _, r := range list {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}
