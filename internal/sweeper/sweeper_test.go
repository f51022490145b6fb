package sweeper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/storage"
	"github.com/campusfm/songday/internal/store"
)

func newTestSweeper(t *testing.T, at time.Time) (*Sweeper, *store.Store, *storage.LocalStorage) {
	t.Helper()
	clk := clock.Fixed{T: at}
	st, err := store.New(t.TempDir(), clk)
	assert.NoError(t, err)
	cache := storage.NewLocalStorage(t.TempDir(), "/media")
	return New(st, cache, clk), st, cache
}

func TestEnsureRolloverFile(t *testing.T) {
	at := time.Date(2026, 3, 10, 18, 0, 1, 0, time.Local)
	sw, st, _ := newTestSweeper(t, at)

	sw.EnsureRolloverFile()
	assert.Contains(t, st.AvailableDates(), "2026-03-11")
}

func TestPurgeExpired_HorizonBoundary(t *testing.T) {
	today := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	sw, st, _ := newTestSweeper(t, today)

	atHorizon := today.AddDate(0, 0, -RetentionDays).Format(store.DayLayout)
	pastHorizon := today.AddDate(0, 0, -(RetentionDays + 1)).Format(store.DayLayout)
	assert.NoError(t, st.WriteDay(atHorizon, []model.SongRequest{}))
	assert.NoError(t, st.WriteDay(pastHorizon, []model.SongRequest{}))

	sw.PurgeExpired()

	dates := st.AvailableDates()
	assert.Contains(t, dates, atHorizon)
	assert.NotContains(t, dates, pastHorizon)
}

func TestClearAudioCache(t *testing.T) {
	sw, _, cache := newTestSweeper(t, time.Now())

	_, err := cache.Save("song.mp3", strings.NewReader("bytes"))
	assert.NoError(t, err)
	assert.True(t, cache.Exists("song.mp3"))

	sw.ClearAudioCache()
	assert.False(t, cache.Exists("song.mp3"))
}

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

	next := nextRun(now, 18, 0)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local), next)

	// Already past today's slot: schedule tomorrow.
	next = nextRun(now, 2, 0)
	assert.Equal(t, time.Date(2026, 3, 11, 2, 0, 0, 0, time.Local), next)

	// Exactly at the slot: strictly after now.
	atSlot := time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)
	next = nextRun(atSlot, 18, 0)
	assert.Equal(t, atSlot.AddDate(0, 0, 1), next)
}
