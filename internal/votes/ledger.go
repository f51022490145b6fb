// Package votes increments per-request vote counters with per-session
// repeat-vote protection.
package votes

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/store"
)

var (
	// ErrAlreadyVoted is returned when a session repeats a vote; the stored
	// count is untouched.
	ErrAlreadyVoted = errors.New("votes: session already voted for this song")

	// ErrNotFound is returned when the record id is not in today's list.
	ErrNotFound = errors.New("votes: song not found in today's list")
)

// Notifier mirrors intake.Notifier; a nil value disables notifications.
type Notifier interface {
	ListChanged(day string)
}

// Ledger applies votes to the day's list.
type Ledger struct {
	store    *store.Store
	sessions SessionStore
	notifier Notifier
}

func NewLedger(st *store.Store, sessions SessionStore, n Notifier) *Ledger {
	return &Ledger{store: st, sessions: sessions, notifier: n}
}

// Vote increments the counter of recordID once per session and returns the
// new count. The whole day list is persisted before the session is marked, so
// a failed write leaves both the file and the voted-set unchanged.
func (l *Ledger) Vote(ctx context.Context, sessionID string, recordID int) (int, error) {
	voted, err := l.sessions.HasVoted(ctx, sessionID, recordID)
	if err != nil {
		return 0, err
	}
	if voted {
		return 0, ErrAlreadyVoted
	}

	today := l.store.ReadDay("")
	found := -1
	for i := range today {
		if today[i].ID == recordID {
			today[i].Votes++
			found = i
			break
		}
	}
	if found < 0 {
		return 0, ErrNotFound
	}

	if err := l.store.WriteDay("", today); err != nil {
		return 0, err
	}
	if err := l.sessions.MarkVoted(ctx, sessionID, recordID); err != nil {
		// The vote is already durable; only the dedup marker failed.
		log.Warn().Err(err).Str("session", sessionID).Int("id", recordID).
			Msg("[votes] could not mark session as voted")
	}
	if l.notifier != nil {
		l.notifier.ListChanged(l.store.LogicalDay())
	}
	return today[found].Votes, nil
}
