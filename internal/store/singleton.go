package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/model"
)

const (
	adminAccountsFile = "admin_accounts.json"
	systemStatusFile  = "system_status.json"
	announcementFile  = "announcement.json"
	changelogFile     = "changelog.json"
)

func (s *Store) readSingleton(name string, v any) bool {
	raw, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("[store] corrupt singleton file")
		return false
	}
	return true
}

func (s *Store) writeSingleton(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, name), raw, 0o644); err != nil {
		log.Error().Err(err).Str("file", name).Msg("[store] write singleton failed")
		return err
	}
	return nil
}

// SystemStatus returns the intake switch, defaulting to not paused when the
// file is missing or unreadable.
func (s *Store) SystemStatus() model.SystemStatus {
	var status model.SystemStatus
	s.readSingleton(systemStatusFile, &status)
	return status
}

func (s *Store) SaveSystemStatus(status model.SystemStatus) error {
	return s.writeSingleton(systemStatusFile, status)
}

// Announcement returns the current banner, disabled when none is stored.
func (s *Store) Announcement() model.Announcement {
	var a model.Announcement
	s.readSingleton(announcementFile, &a)
	return a
}

func (s *Store) SaveAnnouncement(a model.Announcement) error {
	return s.writeSingleton(announcementFile, a)
}

// AdminAccounts returns all operator accounts, empty when none are seeded.
func (s *Store) AdminAccounts() []model.AdminAccount {
	var accounts []model.AdminAccount
	s.readSingleton(adminAccountsFile, &accounts)
	return accounts
}

func (s *Store) SaveAdminAccounts(accounts []model.AdminAccount) error {
	return s.writeSingleton(adminAccountsFile, accounts)
}

// FindAdmin looks an account up by username.
func (s *Store) FindAdmin(username string) (*model.AdminAccount, bool) {
	for _, a := range s.AdminAccounts() {
		if a.Username == username {
			return &a, true
		}
	}
	return nil, false
}

// Changelog returns the release notes shown on the public changelog page.
func (s *Store) Changelog() []model.ChangelogEntry {
	var entries []model.ChangelogEntry
	s.readSingleton(changelogFile, &entries)
	return entries
}
