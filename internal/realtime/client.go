// Package realtime carries the session wire protocol over websockets:
// JSON event envelopes in both directions, one client per connection.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/live-polling/backend/internal/models"
	"github.com/live-polling/backend/internal/session"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is a single WebSocket connection. Its ID is the session ticket the
// coordinator uses as the participant identity.
type Client struct {
	id          string
	coordinator *session.Coordinator
	conn        *websocket.Conn
	send        chan WSMessage
	mu          sync.Mutex
	closed      bool
	logger      *zap.Logger
}

// ServeWs handles the WebSocket upgrade and runs the client loop.
func ServeWs(coordinator *session.Coordinator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			id:          uuid.New().String(),
			coordinator: coordinator,
			conn:        conn,
			send:        make(chan WSMessage, 256),
			logger:      logger,
		}
		coordinator.Attach(client)
		go client.writePump()
		client.readPump()
	}
}

// ID returns the session ticket for this connection.
func (c *Client) ID() string { return c.id }

// Send queues an event for delivery. Never blocks: when the buffer is full
// the event is dropped for this client only.
func (c *Client) Send(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("marshal event", zap.String("event", event), zap.Error(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- WSMessage{Event: event, Data: data}:
	default:
		// buffer full, skip
	}
}

// Close flushes queued messages and shuts the connection down. Used by the
// coordinator to force-disconnect a removed student. Safe to call more than
// once; Send after Close is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.coordinator.Detach(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		c.dispatch(msg)
	}
}

// dispatch resolves one inbound event. Domain errors go back to this
// connection only as an "error" event; nothing else is affected.
func (c *Client) dispatch(msg WSMessage) {
	switch msg.Event {
	case "join-as-teacher":
		c.reportErr(c.coordinator.JoinTeacher(c.id))

	case "join-as-student":
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid join payload")
			return
		}
		c.reportErr(c.coordinator.JoinStudent(c.id, payload.Name))

	case "create-poll":
		var payload struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid poll payload")
			return
		}
		c.reportErr(c.coordinator.CreatePoll(c.id, payload.Question, payload.Options))

	case "submit-answer":
		var payload struct {
			AnswerIndex int `json:"answerIndex"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid answer payload")
			return
		}
		c.reportErr(c.coordinator.SubmitAnswer(c.id, payload.AnswerIndex))

	case "send-chat-message":
		var payload struct {
			Message    string `json:"message"`
			SenderName string `json:"senderName"`
			SenderType string `json:"senderType"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid chat payload")
			return
		}
		c.coordinator.SendChat(payload.Message, payload.SenderName, models.SenderType(payload.SenderType))

	case "remove-student":
		var payload struct {
			StudentID string `json:"studentId"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid remove payload")
			return
		}
		c.reportErr(c.coordinator.RemoveStudent(c.id, payload.StudentID))

	case "get-poll-history":
		c.reportErr(c.coordinator.PollHistory(c.id))

	default:
		// ignore
	}
}

func (c *Client) reportErr(err error) {
	if err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) sendError(msg string) {
	c.Send(session.EventError, msg)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
