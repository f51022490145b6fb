package intake

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	st, err := store.New(t.TempDir(), clock.Fixed{T: at})
	assert.NoError(t, err)
	return NewService(st, clock.Fixed{T: at}, nil, nil), st
}

func submission(n int) Submission {
	return Submission{
		SongName:    fmt.Sprintf("Song %d", n),
		ClassName:   "初一1班",
		StudentName: fmt.Sprintf("Student %d", n),
	}
}

func TestSubmit_AcceptsAndAssignsID(t *testing.T) {
	svc, _ := newTestService(t)

	req, err := svc.Submit(Submission{SongName: "A", ClassName: "初一1班", StudentName: "甲乙"})
	assert.NoError(t, err)
	assert.Equal(t, 1, req.ID)
	assert.Equal(t, 0, req.Votes)
	assert.Equal(t, "A", req.SongName)
	assert.Equal(t, 1, svc.Count())
}

func TestSubmit_MetadataFieldsAlwaysPresent(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Submit(submission(1))
	assert.NoError(t, err)

	stored := st.ReadDay("")[0]
	assert.Equal(t, "", stored.SongID)
	assert.Equal(t, "", stored.CoverURL)
	assert.Equal(t, "", stored.Artists)
	assert.Equal(t, "", stored.Album)
	assert.Equal(t, "", stored.Lyric)
}

func TestRemaining_TracksQuota(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, DailyCeiling, svc.Remaining())

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(submission(i))
		assert.NoError(t, err)
	}
	assert.Equal(t, DailyCeiling-3, svc.Remaining())
}

func TestSubmit_RejectsWhenQuotaExhausted(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < DailyCeiling; i++ {
		_, err := svc.Submit(submission(i))
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, svc.Remaining())

	_, err := svc.Submit(submission(DailyCeiling))
	var rejected *RejectError
	assert.ErrorAs(t, err, &rejected)
	assert.Equal(t, DailyCeiling, svc.Count())
}

func TestSubmit_RejectsWhenPaused(t *testing.T) {
	svc, st := newTestService(t)
	assert.NoError(t, st.SaveSystemStatus(model.SystemStatus{
		RequestsPaused: true,
		PauseReason:    "exam week",
	}))

	_, err := svc.Submit(submission(1))
	var rejected *RejectError
	assert.ErrorAs(t, err, &rejected)
	assert.Equal(t, "exam week", rejected.Message)
}

func TestSubmit_RejectsDuplicateSongID(t *testing.T) {
	svc, _ := newTestService(t)

	first := submission(1)
	first.SongID = "12345"
	_, err := svc.Submit(first)
	assert.NoError(t, err)

	second := submission(2)
	second.SongID = "12345"
	_, err = svc.Submit(second)
	var rejected *RejectError
	assert.ErrorAs(t, err, &rejected)
	assert.Equal(t, 1, svc.Count())
}

func TestSubmit_RejectsDuplicateTitleCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(Submission{SongName: "Yellow", ClassName: "初一1班", StudentName: "甲"})
	assert.NoError(t, err)

	_, err = svc.Submit(Submission{SongName: "yellow", ClassName: "初一2班", StudentName: "乙"})
	var rejected *RejectError
	assert.ErrorAs(t, err, &rejected)
}

func TestSubmit_OneRequestPerStudent(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Submit(Submission{SongName: "A", ClassName: "初一1班", StudentName: "甲乙"})
	assert.NoError(t, err)

	_, err = svc.Submit(Submission{SongName: "B", ClassName: "初一1班", StudentName: "甲乙"})
	var rejected *RejectError
	assert.ErrorAs(t, err, &rejected)
	assert.Len(t, st.ReadDay(""), 1)
}

func TestSubmit_RejectsEmptyFieldsAfterSanitize(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(Submission{SongName: "<b></b>", ClassName: "初一1班", StudentName: "甲乙"})
	var rejected *RejectError
	assert.ErrorAs(t, err, &rejected)
}

func TestSubmit_IDsNeverReused(t *testing.T) {
	svc, st := newTestService(t)

	for i := 1; i <= 3; i++ {
		req, err := svc.Submit(submission(i))
		assert.NoError(t, err)
		assert.Equal(t, i, req.ID)
	}

	// Delete id 2; the next id continues from the max, not the gap.
	list := st.ReadDay("")
	kept := make([]model.SongRequest, 0, len(list))
	for _, r := range list {
		if r.ID != 2 {
			kept = append(kept, r)
		}
	}
	assert.NoError(t, st.WriteDay("", kept))

	req, err := svc.Submit(submission(4))
	assert.NoError(t, err)
	assert.Equal(t, 4, req.ID)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("<b>hello</b>", 0))
	assert.Equal(t, "click ", Sanitize(`click onclick="steal()"`, 0))
	assert.Equal(t, "abc", Sanitize("abcdef", 3))
	assert.Equal(t, "安全输入", Sanitize("安全输入", 10))
}
