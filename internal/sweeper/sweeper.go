// Package sweeper runs the calendar-triggered maintenance jobs: day-file
// rollover at 18:00, a 100-day retention purge and a nightly audio-cache
// wipe. Each job is idempotent and independent; one failing run waits for the
// next tick.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/storage"
	"github.com/campusfm/songday/internal/store"
)

// RetentionDays is the horizon for day files: anything strictly older than
// today minus this many days is deleted; a file exactly at the horizon stays.
const RetentionDays = 100

const (
	rolloverHour   = store.RolloverHour
	cacheClearHour = 2
)

type Sweeper struct {
	store *store.Store
	cache storage.Storage
	clk   clock.Clock
}

func New(st *store.Store, cache storage.Storage, clk clock.Clock) *Sweeper {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Sweeper{store: st, cache: cache, clk: clk}
}

// EnsureRolloverFile makes the new logical day's empty list file exist.
func (s *Sweeper) EnsureRolloverFile() {
	if err := s.store.EnsureDayFile(); err != nil {
		log.Error().Err(err).Msg("[sweeper] could not create rollover day file")
		return
	}
	log.Info().Str("day", s.store.LogicalDay()).Msg("[sweeper] day file ready")
}

// PurgeExpired deletes day files past the retention horizon.
func (s *Sweeper) PurgeExpired() {
	cutoff := s.clk.Now().AddDate(0, 0, -RetentionDays)
	removed := s.store.DeleteBefore(cutoff)
	if len(removed) > 0 {
		log.Info().Strs("days", removed).Msg("[sweeper] expired day files removed")
	}
}

// ClearAudioCache wipes the downloaded-audio cache to bound disk usage.
func (s *Sweeper) ClearAudioCache() {
	if err := s.cache.Clear(); err != nil {
		log.Error().Err(err).Msg("[sweeper] audio cache clear failed")
		return
	}
	log.Info().Msg("[sweeper] audio cache cleared")
}

// Start launches the three daily jobs until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	go s.daily(ctx, rolloverHour, 0, s.EnsureRolloverFile)
	go s.daily(ctx, rolloverHour, 0, s.PurgeExpired)
	go s.daily(ctx, cacheClearHour, 0, s.ClearAudioCache)
}

// daily runs job every day at hour:min local time.
func (s *Sweeper) daily(ctx context.Context, hour, min int, job func()) {
	for {
		wait := time.Until(nextRun(s.clk.Now(), hour, min))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			job()
		}
	}
}

// nextRun returns the next instant at hour:min strictly after now.
func nextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
