package models

import "time"

// Participant is a student connected to the session.
// ID is the session ticket issued at connection time, so a participant
// cannot outlive its connection.
type Participant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	HasAnswered bool      `json:"hasAnswered"`
	JoinedAt    time.Time `json:"joinedAt"`
}
