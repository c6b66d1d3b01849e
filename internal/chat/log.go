// Package chat holds the session chat log: an append-only ordered list of
// participant, system, and assistant messages. The log grows without bound
// for the process lifetime.
//
// A Log is not safe for concurrent use; the session coordinator serializes
// all access.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/live-polling/backend/internal/models"
)

// SystemSender is the display name attached to system messages.
const SystemSender = "System"

// Log is the append-only chat message list.
type Log struct {
	messages []models.ChatMessage
}

// NewLog creates an empty chat log.
func NewLog() *Log {
	return &Log{}
}

// Post appends a message from the given sender. The text is trimmed; empty
// text is silently dropped and ok reports false.
func (l *Log) Post(sender string, kind models.SenderType, text string, now time.Time) (models.ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, false
	}
	msg := models.ChatMessage{
		ID:         uuid.New(),
		Message:    text,
		Sender:     sender,
		SenderType: kind,
		Timestamp:  now,
	}
	l.messages = append(l.messages, msg)
	return msg, true
}

// PostSystem appends a synthetic system message.
func (l *Log) PostSystem(text string, now time.Time) (models.ChatMessage, bool) {
	return l.Post(SystemSender, models.SenderSystem, text, now)
}

// Messages returns a snapshot copy of the log in receipt order.
func (l *Log) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int { return len(l.messages) }
