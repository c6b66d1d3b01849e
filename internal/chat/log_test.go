package chat

import (
	"testing"
	"time"

	"github.com/live-polling/backend/internal/models"
)

func TestPostTrimsText(t *testing.T) {
	l := NewLog()
	msg, ok := l.Post("Alice", models.SenderStudent, "  hello  ", time.Now())
	if !ok {
		t.Fatal("Post should accept non-empty text")
	}
	if msg.Message != "hello" {
		t.Errorf("expected trimmed text %q, got %q", "hello", msg.Message)
	}
	if msg.Sender != "Alice" || msg.SenderType != models.SenderStudent {
		t.Errorf("unexpected sender fields: %+v", msg)
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 message, got %d", l.Len())
	}
}

func TestPostDropsEmptyText(t *testing.T) {
	l := NewLog()
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := l.Post("Alice", models.SenderStudent, text, time.Now()); ok {
			t.Errorf("text %q should be dropped", text)
		}
	}
	if l.Len() != 0 {
		t.Errorf("expected empty log, got %d messages", l.Len())
	}
}

func TestPostSystem(t *testing.T) {
	l := NewLog()
	msg, ok := l.PostSystem("poll started", time.Now())
	if !ok {
		t.Fatal("PostSystem failed")
	}
	if msg.Sender != SystemSender || msg.SenderType != models.SenderSystem {
		t.Errorf("unexpected system message: %+v", msg)
	}
}

func TestMessagesSnapshotOrder(t *testing.T) {
	l := NewLog()
	_, _ = l.Post("Alice", models.SenderStudent, "first", time.Now())
	_, _ = l.Post("Bob", models.SenderTeacher, "second", time.Now())

	snap := l.Messages()
	if len(snap) != 2 || snap[0].Message != "first" || snap[1].Message != "second" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	snap[0].Message = "mutated"
	if l.Messages()[0].Message != "first" {
		t.Error("snapshot mutation leaked into log")
	}
}
