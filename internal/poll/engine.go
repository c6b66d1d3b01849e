// Package poll owns the lifecycle of the single classroom poll slot:
// create, collect answers, close, archive.
//
// The engine is not safe for concurrent use; the session coordinator
// serializes all access.
package poll

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/live-polling/backend/internal/models"
)

// State is the poll slot state.
type State int

const (
	// NoPoll means no poll has been created since startup.
	NoPoll State = iota
	// Active means a poll is open for answers.
	Active
	// Closed means the current poll ended (timer expiry or all answered).
	Closed
)

// Engine is the poll slot state machine with its live tally and the archive
// of closed polls.
type Engine struct {
	state   State
	current *models.Poll
	tally   map[int]int
	history []models.PollRecord
}

// NewEngine creates an engine with no poll.
func NewEngine() *Engine {
	return &Engine{}
}

// State returns the current slot state.
func (e *Engine) State() State { return e.state }

// CanCreate reports whether a new poll may be created: no poll yet, the
// current poll is closed, or every connected student has answered it.
func (e *Engine) CanCreate(allAnswered bool) bool {
	switch e.state {
	case NoPoll, Closed:
		return true
	default:
		return allAnswered
	}
}

// Create validates and opens a new poll, replacing the slot wholesale.
// Question and options are trimmed and empty options dropped; at least two
// options must survive. The tally is zero-initialized for every option.
func (e *Engine) Create(question string, options []string, allAnswered bool, now time.Time) (*models.Poll, error) {
	if !e.CanCreate(allAnswered) {
		return nil, ErrNotEligible
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidPoll
	}
	trimmed := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			trimmed = append(trimmed, opt)
		}
	}
	if len(trimmed) < 2 {
		return nil, ErrInvalidPoll
	}

	e.current = &models.Poll{
		ID:        uuid.New(),
		Question:  question,
		Options:   trimmed,
		CreatedAt: now,
	}
	e.tally = make(map[int]int, len(trimmed))
	for i := range trimmed {
		e.tally[i] = 0
	}
	e.state = Active
	return e.current, nil
}

// Submit records one vote for the given option index.
func (e *Engine) Submit(index int) error {
	if e.state != Active {
		return ErrNoActivePoll
	}
	if index < 0 || index >= len(e.current.Options) {
		return ErrInvalidAnswer
	}
	e.tally[index]++
	return nil
}

// Close transitions Active -> Closed and archives a PollRecord snapshot.
// Idempotent: closing a slot that is not active reports false and appends
// nothing.
func (e *Engine) Close(endedAt time.Time) (models.PollRecord, bool) {
	if e.state != Active {
		return models.PollRecord{}, false
	}
	rec := models.PollRecord{
		Poll:       *e.current,
		Results:    copyTally(e.tally),
		EndedAt:    endedAt,
		TotalVotes: e.TotalVotes(),
	}
	e.history = append(e.history, rec)
	e.state = Closed
	return rec, true
}

// Current returns the poll occupying the slot, nil when none was created yet.
func (e *Engine) Current() *models.Poll { return e.current }

// Tally returns a copy of the live tally, nil when no poll was created yet.
func (e *Engine) Tally() map[int]int {
	if e.tally == nil {
		return nil
	}
	return copyTally(e.tally)
}

// TotalVotes returns the number of votes recorded for the current poll.
func (e *Engine) TotalVotes() int {
	total := 0
	for _, n := range e.tally {
		total += n
	}
	return total
}

// History returns a copy of the closed poll archive, oldest first.
func (e *Engine) History() []models.PollRecord {
	out := make([]models.PollRecord, len(e.history))
	copy(out, e.history)
	return out
}

func copyTally(t map[int]int) map[int]int {
	out := make(map[int]int, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
