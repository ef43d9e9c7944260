package noticews

import (
	"context"
	"encoding/json"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"go.uber.org/zap"
)

// Hub fans notices out to the websocket clients watching a wizard session.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	logger     *zap.Logger
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

type Message struct {
	Type      string             `json:"type"`
	SessionID string             `json:"session_id"`
	Level     intake.NoticeLevel `json:"level"`
	Message   string             `json:"message"`
	Timestamp string             `json:"timestamp"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, 32),
	}
}

// Run owns the client registry until ctx is cancelled. On exit every
// client's send channel is closed so its write pump returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for sessionID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, sessionID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.sessionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.sessionID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues a notice for every client of sessionID. It never blocks
// once the hub has stopped.
func (h *Hub) Publish(sessionID string, notice intake.Notice) {
	if sessionID == "" {
		return
	}
	message := &Message{
		Type:      "notice",
		SessionID: sessionID,
		Level:     notice.Level,
		Message:   notice.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.sessionID)
	}
}

func (h *Hub) deliver(message *Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		h.logger.Warn("notice hub encode message", zap.Error(err))
		return
	}

	set, ok := h.clients[message.SessionID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- encoded:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, message.SessionID)
	}
}

// ReadPump drains the connection until the peer goes away. Clients only
// listen; anything they send is discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
