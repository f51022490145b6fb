package model

// SystemStatus is the process-wide intake switch, persisted as a singleton
// JSON file and read on every submission attempt.
type SystemStatus struct {
	RequestsPaused bool   `json:"requests_paused"`
	PauseReason    string `json:"pause_reason"`
}

// Announcement is the banner shown on every page render.
type Announcement struct {
	Content string `json:"content"`
	Enabled bool   `json:"enabled"`
}

// ChangelogEntry is one release note block from the changelog file.
type ChangelogEntry struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Changes []string `json:"changes"`
}
