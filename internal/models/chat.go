package models

import (
	"time"

	"github.com/google/uuid"
)

// SenderType identifies who authored a chat message.
type SenderType string

const (
	SenderTeacher SenderType = "teacher"
	SenderStudent SenderType = "student"
	SenderAI      SenderType = "ai"
	SenderSystem  SenderType = "system"
)

// ChatMessage is one entry in the session chat log.
type ChatMessage struct {
	ID         uuid.UUID  `json:"id"`
	Message    string     `json:"message"`
	Sender     string     `json:"sender"`
	SenderType SenderType `json:"senderType"`
	Timestamp  time.Time  `json:"timestamp"`
}
