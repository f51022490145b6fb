// Package store persists all application state as JSON files under a single
// data directory: one file per logical day holding the day's song requests,
// plus singleton files for admin accounts, system status, the announcement
// and the changelog.
//
// Day files are replaced wholesale on write (last write wins). The only
// path-safety mechanism is the strict YYYY-MM-DD filename check: a day string
// that does not parse as a calendar date never reaches the filesystem.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/model"
)

const (
	// DayLayout is the date format used for day files.
	DayLayout = "2006-01-02"

	// RolloverHour shifts submissions after 18:00 into the next day's file.
	RolloverHour = 18

	// MaxAvailableDates caps how many stored days are listed to admins.
	MaxAvailableDates = 100
)

var ErrInvalidDay = errors.New("store: invalid day, want YYYY-MM-DD")

// Store owns the data directory. It has no in-process locking: concurrent
// writers on the same day race with last-write-wins semantics, acceptable at
// classroom volume (the daily quota caps list size at 50).
type Store struct {
	dataDir string
	clk     clock.Clock
}

func New(dataDir string, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.Real{}
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dataDir: dataDir, clk: clk}, nil
}

func (s *Store) DataDir() string { return s.dataDir }

// LogicalDay returns the date bucket the current instant belongs to: from
// 18:00 local time onward, tomorrow's calendar date.
func (s *Store) LogicalDay() string {
	now := s.clk.Now()
	day := now
	if now.Hour() >= RolloverHour {
		day = now.AddDate(0, 0, 1)
	}
	return day.Format(DayLayout)
}

// ValidDay reports whether day is a strict YYYY-MM-DD calendar date.
func ValidDay(day string) bool {
	t, err := time.Parse(DayLayout, day)
	return err == nil && t.Format(DayLayout) == day
}

func (s *Store) dayPath(day string) (string, error) {
	if !ValidDay(day) {
		return "", ErrInvalidDay
	}
	return filepath.Join(s.dataDir, day+".json"), nil
}

// ReadDay returns the ordered request list for day, or for the logical
// current day when day is empty. A missing, unreadable or malformed file
// yields an empty list; an invalid day string never touches storage.
func (s *Store) ReadDay(day string) []model.SongRequest {
	if day == "" {
		day = s.LogicalDay()
	}
	path, err := s.dayPath(day)
	if err != nil {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var list []model.SongRequest
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Warn().Err(err).Str("day", day).Msg("[store] corrupt day file, treating as empty")
		return nil
	}
	return list
}

// WriteDay replaces day's list. An empty day selects the logical current day.
func (s *Store) WriteDay(day string, list []model.SongRequest) error {
	if day == "" {
		day = s.LogicalDay()
	}
	path, err := s.dayPath(day)
	if err != nil {
		return err
	}
	if list == nil {
		list = []model.SongRequest{}
	}
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Error().Err(err).Str("day", day).Msg("[store] write day file failed")
		return err
	}
	return nil
}

// EnsureDayFile creates an empty list file for the logical current day if
// none exists yet. Used by the rollover job so the new day starts visible.
func (s *Store) EnsureDayFile() error {
	day := s.LogicalDay()
	path, err := s.dayPath(day)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return s.WriteDay(day, []model.SongRequest{})
}

// AvailableDates lists stored day files, newest first, capped at
// MaxAvailableDates. Filenames that are not calendar dates are skipped.
func (s *Store) AvailableDates() []string {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		day := strings.TrimSuffix(name, ".json")
		if ValidDay(day) {
			dates = append(dates, day)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > MaxAvailableDates {
		dates = dates[:MaxAvailableDates]
	}
	return dates
}

// DeleteBefore removes day files strictly older than cutoff and returns the
// removed dates. Files named outside the date pattern are never touched.
func (s *Store) DeleteBefore(cutoff time.Time) []string {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		log.Error().Err(err).Msg("[store] retention scan failed")
		return nil
	}
	cutoffDay := cutoff.Format(DayLayout)
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		day := strings.TrimSuffix(name, ".json")
		if !ValidDay(day) || day >= cutoffDay {
			continue
		}
		if err := os.Remove(filepath.Join(s.dataDir, name)); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("[store] retention remove failed")
			continue
		}
		removed = append(removed, day)
	}
	return removed
}
