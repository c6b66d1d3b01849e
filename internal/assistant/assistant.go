// Package assistant generates the canned chat-assistant replies. The
// coordinator treats the responder as a pluggable function, so the rule set
// here can be swapped for a real model without touching session logic.
package assistant

import "strings"

// Name is the display name the assistant posts under.
const Name = "AI Assistant"

// ResponderFunc produces a reply to a chat message.
type ResponderFunc func(message, senderName string) string

// Respond is the default rule-based responder.
func Respond(message, senderName string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "help") || strings.Contains(lower, "how"):
		return "I'm here to help! Teachers can create polls and view results. Students can join by entering their name and answering questions within 60 seconds."
	case strings.Contains(lower, "poll") || strings.Contains(lower, "question"):
		return "Polls are great for getting instant feedback! Teachers can create multiple choice questions, and everyone can see live results."
	case strings.Contains(lower, "time") || strings.Contains(lower, "timer"):
		return "Each poll has a 60-second timer. Make sure to answer quickly! Results are shown after time runs out or everyone answers."
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hello " + senderName + "! Welcome to the Live Polling System. How can I assist you today?"
	case strings.Contains(lower, "thank"):
		return "You're welcome! I'm always here to help make your polling experience better."
	default:
		return "That's an interesting point! Feel free to ask me about polls, timers, or how to use the system effectively."
	}
}
