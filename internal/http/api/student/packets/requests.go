package packets

type SubmitSongRequest struct {
	SongName    string `json:"song_name" binding:"required"`
	ClassName   string `json:"class_name" binding:"required"`
	StudentName string `json:"student_name" binding:"required"`

	// Optional catalog metadata carried over from a search pick.
	SongID   string `json:"song_id"`
	CoverURL string `json:"cover_url"`
	Artists  string `json:"artists"`
	Album    string `json:"album"`
}

type SearchRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}
