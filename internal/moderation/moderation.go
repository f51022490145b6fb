// Package moderation batches the day's requests into a content-policy
// prompt, asks a chat-completion service for per-title verdicts and, in a
// separate explicit step, filters the day down to approved titles.
//
// Review and Apply are split so an operator can inspect the verdicts before
// committing an irreversible bulk delete. The verdict slice is returned to
// the caller and passed back into Apply; no result is held as ambient state.
package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

// reviewTemperature keeps verdicts stable across runs.
const reviewTemperature = 0.3

const systemPrompt = "You are a strict reviewer for a campus song-request " +
	"station, deciding whether student-requested songs are suitable to play " +
	"at school."

const rulesPrompt = `Review the following song requests for a campus song-request station.

Rules:
1. Reject songs containing violent, sexual or vulgar content.
2. Reject songs with an unhealthy or negative message.
3. Reject songs too loud or aggressive for a school environment.
4. Prefer uplifting songs with a pleasant melody.

Song list:
%s

Answer with a JSON array in exactly this shape, one element per song, and
nothing else:
[
  {"title": "song title", "passed": true, "reason": "why it passed or failed"}
]`

var ErrEmptyDay = errors.New("moderation: no requests to review")

// Completer is the text-in/text-out service behind the reviewer.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

type Reviewer struct {
	completer Completer
	store     *store.Store
}

func NewReviewer(c Completer, st *store.Store) *Reviewer {
	return &Reviewer{completer: c, store: st}
}

// Review sends today's list for moderation and returns one verdict per
// record. A service failure or an unparsable response is an error; the raw
// response text is logged for diagnosis.
func (r *Reviewer) Review(ctx context.Context) ([]model.Verdict, error) {
	today := r.store.ReadDay("")
	if len(today) == 0 {
		return nil, ErrEmptyDay
	}

	listJSON, err := json.MarshalIndent(today, "", "  ")
	if err != nil {
		return nil, err
	}

	raw, err := r.completer.Complete(ctx, systemPrompt,
		fmt.Sprintf(rulesPrompt, listJSON), reviewTemperature)
	if err != nil {
		log.Error().Err(err).Msg("[moderation] completion call failed")
		return nil, err
	}

	verdicts, err := ParseVerdicts(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("[moderation] unparsable review response")
		return nil, err
	}
	return verdicts, nil
}

// ParseVerdicts decodes a verdict array from the raw model response,
// tolerating a surrounding markdown code fence.
func ParseVerdicts(raw string) ([]model.Verdict, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdicts []model.Verdict
	if err := json.Unmarshal([]byte(cleaned), &verdicts); err != nil {
		return nil, fmt.Errorf("moderation: parse verdicts: %w", err)
	}
	return verdicts, nil
}

// Apply keeps only records whose title is approved among the selected verdict
// indices and rewrites today's list. Matching is by song name: duplicate
// titles share one fate. Out-of-range indices are skipped.
func (r *Reviewer) Apply(selected []int, verdicts []model.Verdict) (kept, deleted int, err error) {
	if len(selected) == 0 {
		return 0, 0, errors.New("moderation: no verdicts selected")
	}

	approved := make(map[string]struct{})
	for _, idx := range selected {
		if idx < 0 || idx >= len(verdicts) {
			continue
		}
		v := verdicts[idx]
		log.Info().Str("title", v.Title).Bool("passed", v.Passed).
			Str("reason", v.Reason).Msg("[moderation] applying verdict")
		if v.Passed && v.Title != "" {
			approved[v.Title] = struct{}{}
		}
	}

	today := r.store.ReadDay("")
	filtered := make([]model.SongRequest, 0, len(today))
	for _, req := range today {
		if _, ok := approved[req.SongName]; ok {
			filtered = append(filtered, req)
		}
	}
	if err := r.store.WriteDay("", filtered); err != nil {
		return 0, 0, err
	}

	deleted = len(today) - len(filtered)
	log.Info().Int("kept", len(filtered)).Int("deleted", deleted).
		Msg("[moderation] review results applied")
	return len(filtered), deleted, nil
}
