// Package roster tracks the participants of the classroom session: the
// privileged teacher set and the student map with per-poll answered flags.
//
// A Roster is not safe for concurrent use; the session coordinator serializes
// all access.
package roster

import (
	"strings"
	"time"

	"github.com/live-polling/backend/internal/models"
)

// Roster holds connected participants keyed by session ticket.
type Roster struct {
	teachers map[string]struct{}
	students map[string]*models.Participant
	order    []string // student ids in join order
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{
		teachers: make(map[string]struct{}),
		students: make(map[string]*models.Participant),
	}
}

// AddTeacher grants the id teacher privilege. Idempotent for teachers; a
// connection already registered as a student keeps its student role.
func (r *Roster) AddTeacher(id string) error {
	if _, ok := r.students[id]; ok {
		return ErrRoleAssigned
	}
	r.teachers[id] = struct{}{}
	return nil
}

// AddStudent registers a student with the given display name. The name is
// trimmed; an empty result is rejected. A connection already registered as a
// teacher keeps its teacher role.
func (r *Roster) AddStudent(id, name string, joinedAt time.Time) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, ok := r.teachers[id]; ok {
		return nil, ErrRoleAssigned
	}
	if existing, ok := r.students[id]; ok {
		// Re-join with the same ticket updates the name only.
		existing.Name = name
		return existing, nil
	}
	p := &models.Participant{
		ID:       id,
		Name:     name,
		JoinedAt: joinedAt,
	}
	r.students[id] = p
	r.order = append(r.order, id)
	return p, nil
}

// Remove drops the id from whichever set holds it and reports whether any
// role was held.
func (r *Roster) Remove(id string) bool {
	if _, ok := r.teachers[id]; ok {
		delete(r.teachers, id)
		return true
	}
	if _, ok := r.students[id]; ok {
		delete(r.students, id)
		for i, sid := range r.order {
			if sid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		return true
	}
	return false
}

// IsTeacher reports whether the id holds teacher privilege.
func (r *Roster) IsTeacher(id string) bool {
	_, ok := r.teachers[id]
	return ok
}

// Student returns the participant registered under id.
func (r *Roster) Student(id string) (*models.Participant, bool) {
	p, ok := r.students[id]
	return p, ok
}

// MarkAnswered sets the answered flag for the student.
func (r *Roster) MarkAnswered(id string) error {
	p, ok := r.students[id]
	if !ok {
		return ErrUnknownStudent
	}
	p.HasAnswered = true
	return nil
}

// ResetAnswered clears every student's answered flag. Called when a new poll
// is created.
func (r *Roster) ResetAnswered() {
	for _, p := range r.students {
		p.HasAnswered = false
	}
}

// AllAnswered reports whether every student has answered the current poll.
// An empty roster does not satisfy this: early close requires at least one
// answer.
func (r *Roster) AllAnswered() bool {
	if len(r.students) == 0 {
		return false
	}
	for _, p := range r.students {
		if !p.HasAnswered {
			return false
		}
	}
	return true
}

// AllAnsweredOrEmpty is the poll-creation eligibility predicate: an empty
// classroom never blocks a new poll. Unlike AllAnswered it treats zero
// students as satisfied.
func (r *Roster) AllAnsweredOrEmpty() bool {
	return len(r.students) == 0 || r.AllAnswered()
}

// Students returns a snapshot of current students in join order.
func (r *Roster) Students() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.students[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// StudentCount returns the number of connected students.
func (r *Roster) StudentCount() int { return len(r.students) }

// TeacherCount returns the number of connected teachers.
func (r *Roster) TeacherCount() int { return len(r.teachers) }
