package models

import (
	"time"

	"github.com/google/uuid"
)

// Poll is a multiple-choice question broadcast to the classroom.
// Immutable once created; at most one poll is current at a time.
type Poll struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	CreatedAt time.Time `json:"createdAt"`
}

// PollRecord is a closed poll snapshot kept in session history.
type PollRecord struct {
	Poll
	Results    map[int]int `json:"results"`
	EndedAt    time.Time   `json:"endedAt"`
	TotalVotes int         `json:"totalVotes"`
}
