package packets

import "time"

type SongResponse struct {
	ID          int       `json:"id"`
	SongName    string    `json:"song_name"`
	ClassName   string    `json:"class_name"`
	StudentName string    `json:"student_name"`
	RequestDate time.Time `json:"request_date"`
	Votes       int       `json:"votes"`
	SongID      string    `json:"song_id"`
	CoverURL    string    `json:"cover_url"`
	Artists     string    `json:"artists"`
	Album       string    `json:"album"`
	Lyric       string    `json:"lyric"`
	URL         string    `json:"url"`
}

type SubmitResponse struct {
	Message string       `json:"message"`
	Song    SongResponse `json:"song"`
}

type VoteResponse struct {
	Votes int `json:"votes"`
}

type StatsResponse struct {
	Count     int `json:"count"`
	Remaining int `json:"remaining"`
	Max       int `json:"max"`
}
