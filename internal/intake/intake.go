// Package intake validates and records song submissions: the daily quota
// gate, input sanitization, duplicate rejection and id assignment.
//
// Duplicate matching is by catalog song id when one is supplied, otherwise by
// case-insensitive title. The upstream system never populated an artist at
// comparison time, so title-only matching is the contract here (see
// DESIGN.md).
package intake

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

// DailyCeiling is the fixed maximum number of accepted requests per logical day.
const DailyCeiling = 50

const (
	maxSongNameRunes    = 100
	maxClassNameRunes   = 50
	maxStudentNameRunes = 50
)

// RejectError is a validation rejection carrying the message shown to the
// student. It is never fatal and never indicates a storage fault.
type RejectError struct {
	Message string
}

func (e *RejectError) Error() string { return e.Message }

func reject(msg string) error { return &RejectError{Message: msg} }

// Downloader receives a best-effort fetch request after a submission is
// accepted. Implementations must not block the caller.
type Downloader interface {
	Fetch(songID, title string)
}

// Notifier is told when the day's list changes so external displays can
// refresh. A nil Notifier is allowed.
type Notifier interface {
	ListChanged(day string)
}

// Submission is the normalized form payload plus optional catalog metadata.
type Submission struct {
	SongName    string
	ClassName   string
	StudentName string

	SongID   string
	CoverURL string
	Artists  string
	Album    string
	Lyric    string
}

// Service performs quota accounting and request admission against the store.
type Service struct {
	store      *store.Store
	clk        clock.Clock
	downloader Downloader
	notifier   Notifier
}

func NewService(st *store.Store, clk clock.Clock, dl Downloader, n Notifier) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{store: st, clk: clk, downloader: dl, notifier: n}
}

// Count returns today's accepted request count.
func (s *Service) Count() int {
	return len(s.store.ReadDay(""))
}

// Remaining returns today's unused quota, never negative. It is recomputed
// from storage on every call.
func (s *Service) Remaining() int {
	remaining := DailyCeiling - s.Count()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Submit validates sub in order (pause flag, quota, duplicates, one per
// student) and appends it to today's list on success. The returned error is a
// *RejectError for validation failures; any other error is a storage fault.
//
// A catalog song id triggers an asynchronous best-effort audio download after
// the request is persisted; a failed download never rolls the request back.
func (s *Service) Submit(sub Submission) (*model.SongRequest, error) {
	if status := s.store.SystemStatus(); status.RequestsPaused {
		reason := status.PauseReason
		if reason == "" {
			reason = "song requests are paused, please try again later"
		}
		return nil, reject(reason)
	}

	if s.Remaining() == 0 {
		return nil, reject("today's request quota is used up, come back tomorrow")
	}

	title := Sanitize(sub.SongName, maxSongNameRunes)
	className := Sanitize(sub.ClassName, maxClassNameRunes)
	studentName := Sanitize(sub.StudentName, maxStudentNameRunes)
	if strings.TrimSpace(title) == "" || strings.TrimSpace(className) == "" || strings.TrimSpace(studentName) == "" {
		return nil, reject("song, class and name are all required")
	}

	today := s.store.ReadDay("")
	for _, existing := range today {
		if sub.SongID != "" && existing.SongID == sub.SongID {
			return nil, reject("this song has already been requested, pick another one")
		}
		if strings.EqualFold(existing.SongName, title) {
			return nil, reject("this song has already been requested, pick another one")
		}
	}
	for _, existing := range today {
		if existing.StudentName == studentName {
			return nil, reject("you already requested a song today, one per student")
		}
	}

	request := model.SongRequest{
		ID:          model.NextID(today),
		SongName:    title,
		ClassName:   className,
		StudentName: studentName,
		RequestDate: s.clk.Now(),
		Votes:       0,
		SongID:      sub.SongID,
		CoverURL:    sub.CoverURL,
		Artists:     sub.Artists,
		Album:       sub.Album,
		Lyric:       sub.Lyric,
	}

	today = append(today, request)
	if err := s.store.WriteDay("", today); err != nil {
		return nil, err
	}

	log.Info().Int("id", request.ID).Str("song", request.SongName).
		Str("class", request.ClassName).Msg("[intake] request accepted")

	if s.downloader != nil && request.SongID != "" {
		s.downloader.Fetch(request.SongID, request.SongName)
	}
	if s.notifier != nil {
		s.notifier.ListChanged(s.store.LogicalDay())
	}
	return &request, nil
}
