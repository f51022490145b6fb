package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/model"
)

func newTestStore(t *testing.T, at time.Time) *Store {
	t.Helper()
	st, err := New(t.TempDir(), clock.Fixed{T: at})
	assert.NoError(t, err)
	return st
}

func TestLogicalDay_BeforeRollover(t *testing.T) {
	at := time.Date(2026, 3, 10, 17, 59, 0, 0, time.Local)
	st := newTestStore(t, at)
	assert.Equal(t, "2026-03-10", st.LogicalDay())
}

func TestLogicalDay_AfterRollover(t *testing.T) {
	at := time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)
	st := newTestStore(t, at)
	assert.Equal(t, "2026-03-11", st.LogicalDay())
}

func TestReadWriteDay_RoundTrip(t *testing.T) {
	st := newTestStore(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	list := []model.SongRequest{
		{ID: 1, SongName: "A", ClassName: "初一1班", StudentName: "甲乙"},
		{ID: 2, SongName: "B", ClassName: "初一2班", StudentName: "丙丁"},
	}
	assert.NoError(t, st.WriteDay("", list))

	got := st.ReadDay("")
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].SongName)
	assert.Equal(t, "甲乙", got[0].StudentName)
}

func TestReadDay_MissingFileIsEmpty(t *testing.T) {
	st := newTestStore(t, time.Now())
	assert.Empty(t, st.ReadDay("2020-01-01"))
}

func TestReadDay_CorruptFileIsEmpty(t *testing.T) {
	st := newTestStore(t, time.Now())
	path := filepath.Join(st.DataDir(), "2026-01-01.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	assert.Empty(t, st.ReadDay("2026-01-01"))
}

func TestInvalidDayNeverTouchesStorage(t *testing.T) {
	st := newTestStore(t, time.Now())

	for _, day := range []string{
		"../etc/passwd",
		"2026-13-40",
		"2026-1-1",
		"not-a-date",
		"2026-03-10.json",
	} {
		assert.Empty(t, st.ReadDay(day), day)
		assert.ErrorIs(t, st.WriteDay(day, nil), ErrInvalidDay, day)
	}

	entries, err := os.ReadDir(st.DataDir())
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnsureDayFile(t *testing.T) {
	st := newTestStore(t, time.Date(2026, 3, 10, 19, 0, 0, 0, time.Local))

	assert.NoError(t, st.EnsureDayFile())
	_, err := os.Stat(filepath.Join(st.DataDir(), "2026-03-11.json"))
	assert.NoError(t, err)

	// Does not clobber an existing file.
	assert.NoError(t, st.WriteDay("2026-03-11", []model.SongRequest{{ID: 1, SongName: "A"}}))
	assert.NoError(t, st.EnsureDayFile())
	assert.Len(t, st.ReadDay("2026-03-11"), 1)
}

func TestAvailableDates_SortedAndFiltered(t *testing.T) {
	st := newTestStore(t, time.Now())
	for _, day := range []string{"2026-01-02", "2026-01-01", "2026-01-03"} {
		assert.NoError(t, st.WriteDay(day, nil))
	}
	// Non-date files are ignored.
	assert.NoError(t, st.SaveSystemStatus(model.SystemStatus{}))

	assert.Equal(t, []string{"2026-01-03", "2026-01-02", "2026-01-01"}, st.AvailableDates())
}

func TestDeleteBefore_RetentionBoundary(t *testing.T) {
	today := time.Date(2026, 6, 1, 10, 0, 0, 0, time.Local)
	st := newTestStore(t, today)

	atHorizon := today.AddDate(0, 0, -100).Format(DayLayout)
	pastHorizon := today.AddDate(0, 0, -101).Format(DayLayout)
	assert.NoError(t, st.WriteDay(atHorizon, nil))
	assert.NoError(t, st.WriteDay(pastHorizon, nil))
	assert.NoError(t, st.SaveAdminAccounts([]model.AdminAccount{{Username: "admin"}}))

	removed := st.DeleteBefore(today.AddDate(0, 0, -100))
	assert.Equal(t, []string{pastHorizon}, removed)

	assert.Equal(t, []string{atHorizon}, st.AvailableDates())
	// The accounts singleton survives the sweep.
	assert.Len(t, st.AdminAccounts(), 1)
}

func TestSingletons_DefaultsAndRoundTrip(t *testing.T) {
	st := newTestStore(t, time.Now())

	assert.False(t, st.SystemStatus().RequestsPaused)
	assert.NoError(t, st.SaveSystemStatus(model.SystemStatus{RequestsPaused: true, PauseReason: "exams"}))
	status := st.SystemStatus()
	assert.True(t, status.RequestsPaused)
	assert.Equal(t, "exams", status.PauseReason)

	assert.False(t, st.Announcement().Enabled)
	assert.NoError(t, st.SaveAnnouncement(model.Announcement{Content: "field day", Enabled: true}))
	assert.Equal(t, "field day", st.Announcement().Content)

	_, ok := st.FindAdmin("admin")
	assert.False(t, ok)
	assert.NoError(t, st.SaveAdminAccounts([]model.AdminAccount{
		{Username: "admin", Role: model.RoleAdmin},
	}))
	found, ok := st.FindAdmin("admin")
	assert.True(t, ok)
	assert.Equal(t, model.RoleAdmin, found.Role)
}
