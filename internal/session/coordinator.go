// Package session owns the single classroom session: current poll, tally,
// roster, countdown, chat log, and history. All mutation goes through the
// Coordinator, which serializes client events and timer callbacks behind one
// mutex and fans resulting state out to every registered sink.
package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/live-polling/backend/internal/assistant"
	"github.com/live-polling/backend/internal/chat"
	"github.com/live-polling/backend/internal/models"
	"github.com/live-polling/backend/internal/poll"
	"github.com/live-polling/backend/internal/roster"
	"github.com/live-polling/backend/internal/timer"
)

// Sink is one registered output channel, normally a websocket client.
// Send must not block and must swallow delivery failures: one dead
// connection never aborts a broadcast.
type Sink interface {
	ID() string
	Send(event string, payload interface{})
	Close() error
}

// Status is the read-only snapshot served by the health endpoint.
type Status struct {
	StartedAt      time.Time
	ActiveStudents int
	ActiveTeachers int
	CurrentPoll    string // current question, empty when none
}

// Coordinator wires roster, poll engine, countdown, and chat log together
// behind a single mutex.
type Coordinator struct {
	logger       *zap.Logger
	clock        clockwork.Clock
	respond      assistant.ResponderFunc
	pollDuration int
	replyDelay   func() time.Duration

	mu        sync.Mutex
	roster    *roster.Roster
	engine    *poll.Engine
	chatLog   *chat.Log
	countdown *timer.Countdown
	timerGen  uint64 // generation of the countdown driving the current poll
	timeLeft  int
	sinks     map[string]Sink
	startedAt time.Time
}

// NewCoordinator creates a coordinator for a fresh session. The assistant
// reply is scheduled after a random delay in [minReplyDelay, maxReplyDelay].
func NewCoordinator(logger *zap.Logger, clock clockwork.Clock, pollDuration int, minReplyDelay, maxReplyDelay time.Duration, respond assistant.ResponderFunc) *Coordinator {
	c := &Coordinator{
		logger:       logger,
		clock:        clock,
		respond:      respond,
		pollDuration: pollDuration,
		roster:       roster.New(),
		engine:       poll.NewEngine(),
		chatLog:      chat.NewLog(),
		sinks:        make(map[string]Sink),
		startedAt:    clock.Now(),
	}
	c.replyDelay = func() time.Duration {
		if maxReplyDelay <= minReplyDelay {
			return minReplyDelay
		}
		return minReplyDelay + time.Duration(rand.Int63n(int64(maxReplyDelay-minReplyDelay)))
	}
	c.countdown = timer.NewCountdown(clock, time.Second, c.handleTick, c.handleExpiry)
	return c
}

// Attach registers a sink and pushes the current chat log and poll history to
// the new connection.
func (c *Coordinator) Attach(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks[s.ID()] = s
	s.Send(EventChatMessages, c.chatLog.Messages())
	s.Send(EventPollHistory, c.engine.History())
	c.logger.Debug("sink attached", zap.String("id", s.ID()))
}

// Detach unregisters the sink and drops whichever role the connection held.
func (c *Coordinator) Detach(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sinks, id)
	if c.roster.Remove(id) {
		c.broadcast(EventStudentsUpdated, c.roster.Students())
		c.broadcastEligibility()
		c.logger.Info("participant disconnected", zap.String("id", id))
	}
}

// JoinTeacher grants the connection teacher privilege and sends it the
// current session state.
func (c *Coordinator) JoinTeacher(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.roster.AddTeacher(id); err != nil {
		return err
	}
	c.sendCurrentPoll(id)
	c.sendTo(id, EventPollHistory, c.engine.History())
	c.broadcast(EventStudentsUpdated, c.roster.Students())
	c.broadcastEligibility()
	c.logger.Info("teacher joined", zap.String("id", id))
	return nil
}

// JoinStudent registers the connection as a student and sends it the current
// session state.
func (c *Coordinator) JoinStudent(id, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.roster.AddStudent(id, name, c.clock.Now())
	if err != nil {
		return err
	}
	c.sendCurrentPoll(id)
	c.broadcast(EventStudentsUpdated, c.roster.Students())
	c.broadcastEligibility()
	c.logger.Info("student joined",
		zap.String("id", id),
		zap.String("name", p.Name),
		zap.Int("students", c.roster.StudentCount()),
	)
	return nil
}

// CreatePoll opens a new poll. Teacher-only; fails while a poll is active
// and a connected student has not answered it. An empty classroom never
// blocks creation.
func (c *Coordinator) CreatePoll(id, question string, options []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.roster.IsTeacher(id) {
		return ErrNotTeacher
	}
	p, err := c.engine.Create(question, options, c.roster.AllAnsweredOrEmpty(), c.clock.Now())
	if err != nil {
		return err
	}
	c.roster.ResetAnswered()
	c.timeLeft = c.pollDuration
	c.timerGen = c.countdown.Start(c.pollDuration)

	c.broadcast(EventTimerUpdate, c.timeLeft)
	c.broadcast(EventPollCreated, p)
	c.broadcast(EventPollResults, c.engine.Tally())
	c.broadcast(EventStudentsUpdated, c.roster.Students())
	c.broadcast(EventCanCreateNewPoll, false)

	if _, ok := c.chatLog.PostSystem(fmt.Sprintf("New poll created: %q", p.Question), c.clock.Now()); ok {
		c.broadcast(EventChatMessages, c.chatLog.Messages())
	}
	c.logger.Info("poll created",
		zap.String("poll_id", p.ID.String()),
		zap.String("question", p.Question),
		zap.Int("options", len(p.Options)),
	)
	return nil
}

// SubmitAnswer records a student's vote and closes the poll early when every
// student has answered.
func (c *Coordinator) SubmitAnswer(id string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	student, ok := c.roster.Student(id)
	if !ok {
		return roster.ErrUnknownStudent
	}
	if student.HasAnswered {
		return poll.ErrAlreadyAnswered
	}
	if c.engine.Current() != nil && c.timeLeft <= 0 {
		return poll.ErrPollExpired
	}
	if err := c.engine.Submit(index); err != nil {
		return err
	}
	_ = c.roster.MarkAnswered(id)

	c.sendTo(id, EventAnswerSubmitted, nil)
	c.broadcast(EventPollResults, c.engine.Tally())
	c.broadcast(EventStudentsUpdated, c.roster.Students())

	if c.roster.AllAnswered() {
		c.closeEarly()
	}
	c.broadcastEligibility()
	c.logger.Info("answer submitted",
		zap.String("id", id),
		zap.String("student", student.Name),
		zap.Int("answer_index", index),
	)
	return nil
}

// SendChat appends a participant message to the chat log and schedules the
// assistant reply. Empty text is silently dropped.
func (c *Coordinator) SendChat(message, senderName string, senderType models.SenderType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if senderName == "" {
		senderName = "Anonymous"
	}
	if senderType != models.SenderTeacher {
		senderType = models.SenderStudent
	}
	msg, ok := c.chatLog.Post(senderName, senderType, message, c.clock.Now())
	if !ok {
		return
	}
	c.broadcast(EventChatMessages, c.chatLog.Messages())

	// Fire-and-forget: the reply callback reacquires the session mutex
	// before appending, so it interleaves cleanly with other writers.
	trigger := msg.Message
	c.clock.AfterFunc(c.replyDelay(), func() {
		c.postAssistantReply(trigger, senderName)
	})
}

// RemoveStudent drops the target student and force-disconnects them.
// Teacher-only.
func (c *Coordinator) RemoveStudent(id, studentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.roster.IsTeacher(id) {
		return ErrNotTeacher
	}
	student, ok := c.roster.Student(studentID)
	if !ok {
		return roster.ErrUnknownStudent
	}
	c.roster.Remove(studentID)
	if s, ok := c.sinks[studentID]; ok {
		s.Send(EventRemovedByTeacher, nil)
		_ = s.Close()
	}
	c.broadcast(EventStudentsUpdated, c.roster.Students())
	c.broadcastEligibility()
	c.logger.Info("student removed", zap.String("id", studentID), zap.String("name", student.Name))
	return nil
}

// PollHistory sends the closed-poll archive to the requesting teacher only.
func (c *Coordinator) PollHistory(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.roster.IsTeacher(id) {
		return ErrNotTeacher
	}
	c.sendTo(id, EventPollHistory, c.engine.History())
	return nil
}

// Shutdown stops the countdown so no timer callback fires during process
// teardown.
func (c *Coordinator) Shutdown() {
	c.countdown.Cancel()
}

// Status returns the read-only snapshot for the health endpoint.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		StartedAt:      c.startedAt,
		ActiveStudents: c.roster.StudentCount(),
		ActiveTeachers: c.roster.TeacherCount(),
	}
	if p := c.engine.Current(); p != nil {
		st.CurrentPoll = p.Question
	}
	return st
}

// handleTick receives countdown ticks. Ticks from a replaced countdown are
// dropped by the generation check.
func (c *Coordinator) handleTick(gen uint64, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.timerGen {
		return
	}
	c.timeLeft = remaining
	c.broadcast(EventTimerUpdate, remaining)
}

// handleExpiry closes the poll when the answer window runs out. No system
// chat message is posted on expiry; only the early close announces itself.
func (c *Coordinator) handleExpiry(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.timerGen {
		return
	}
	c.timeLeft = 0
	rec, closed := c.engine.Close(c.clock.Now())
	if !closed {
		return
	}
	c.broadcast(EventPollEnded, nil)
	c.broadcastEligibility()
	c.logger.Info("poll expired",
		zap.String("poll_id", rec.ID.String()),
		zap.Int("total_votes", rec.TotalVotes),
	)
}

// closeEarly ends the active poll because every student answered. Caller
// holds the mutex.
func (c *Coordinator) closeEarly() {
	c.countdown.Cancel()
	c.timerGen++ // invalidate any tick already in flight from the cancelled run
	c.timeLeft = 0
	c.broadcast(EventTimerUpdate, 0)
	c.broadcast(EventPollEnded, nil)
	rec, closed := c.engine.Close(c.clock.Now())
	if !closed {
		return
	}
	if _, ok := c.chatLog.PostSystem(
		fmt.Sprintf("Poll ended: %q - %d total responses", rec.Question, rec.TotalVotes),
		c.clock.Now(),
	); ok {
		c.broadcast(EventChatMessages, c.chatLog.Messages())
	}
	c.logger.Info("poll closed early",
		zap.String("poll_id", rec.ID.String()),
		zap.Int("total_votes", rec.TotalVotes),
	)
}

func (c *Coordinator) postAssistantReply(trigger, senderName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reply := c.respond(trigger, senderName)
	if _, ok := c.chatLog.Post(assistant.Name, models.SenderAI, reply, c.clock.Now()); ok {
		c.broadcast(EventChatMessages, c.chatLog.Messages())
	}
}

// sendCurrentPoll pushes the current poll, tally, and remaining time to one
// connection. Caller holds the mutex.
func (c *Coordinator) sendCurrentPoll(id string) {
	p := c.engine.Current()
	if p == nil {
		return
	}
	c.sendTo(id, EventPollCreated, p)
	c.sendTo(id, EventPollResults, c.engine.Tally())
	c.sendTo(id, EventTimerUpdate, c.timeLeft)
}

// broadcastEligibility recomputes whether a new poll may be created and
// announces it to everyone. Eligibility depends on live roster composition,
// so it is rebroadcast after every roster mutation and poll transition.
func (c *Coordinator) broadcastEligibility() {
	c.broadcast(EventCanCreateNewPoll, c.engine.CanCreate(c.roster.AllAnsweredOrEmpty()))
}

// broadcast fans an event out to every sink. Sinks never block and swallow
// their own failures, so one vanished connection cannot abort delivery to
// the rest.
func (c *Coordinator) broadcast(event string, payload interface{}) {
	for _, s := range c.sinks {
		s.Send(event, payload)
	}
}

func (c *Coordinator) sendTo(id, event string, payload interface{}) {
	if s, ok := c.sinks[id]; ok {
		s.Send(event, payload)
	}
}
