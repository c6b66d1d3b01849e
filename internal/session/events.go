package session

// Server -> client event names. The payload shapes mirror the original wire
// contract: the full chat log and full poll history are resent wholesale on
// each change.
const (
	EventPollCreated      = "poll-created"        // models.Poll
	EventPollResults      = "poll-results"        // map[int]int
	EventStudentsUpdated  = "students-updated"    // []models.Participant
	EventTimerUpdate      = "timer-update"        // int seconds remaining
	EventPollEnded        = "poll-ended"          // no payload
	EventCanCreateNewPoll = "can-create-new-poll" // bool
	EventAnswerSubmitted  = "answer-submitted"    // no payload
	EventChatMessages     = "chat-messages"       // []models.ChatMessage
	EventPollHistory      = "poll-history"        // []models.PollRecord
	EventRemovedByTeacher = "removed-by-teacher"  // no payload
	EventError            = "error"               // string
)
