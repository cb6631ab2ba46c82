package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"taskquest/internal/metrics"
	"taskquest/internal/scoring"
	"taskquest/pkg/logger"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

const (
	// clientBuffer is how many events a client may fall behind before it
	// is dropped.
	clientBuffer = 16
	writeTimeout = 10 * time.Second
)

// Client is one connected feed subscriber. Only its writer goroutine
// touches Conn.
type Client struct {
	UserID int
	Conn   Conn
	send   chan []byte
}

type message struct {
	userID  int
	payload []byte
}

// Hub fans progress events out to the subscribers of each account. All
// registry changes happen on the Run goroutine, which never writes to a
// socket itself.
type Hub struct {
	clients    map[int]map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for client := range set {
					h.drop(client)
				}
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.UserID] = set
			}
			client.send = make(chan []byte, clientBuffer)
			set[client] = true
			metrics.FeedClients.Inc()
			go h.writeLoop(client)
		case client := <-h.unregister:
			h.drop(client)
		case msg := <-h.broadcast:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					logger.SystemLogger.Warn("Feed client too slow, dropped", zap.Int("user_id", client.UserID))
					h.drop(client)
				}
			}
		}
	}
}

// writeLoop delivers queued events until the hub closes client.send or a
// write fails, then closes the connection.
func (h *Hub) writeLoop(client *Client) {
	defer func() { _ = client.Conn.Close() }()
	for payload := range client.send {
		_ = client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.ErrorLogger.Error("Feed write failed", zap.Int("user_id", client.UserID), zap.Error(err))
			h.Unregister(client)
			return
		}
	}
}

// drop removes client and ends its writer. It is idempotent.
func (h *Hub) drop(client *Client) {
	set, ok := h.clients[client.UserID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.send)
	metrics.FeedClients.Dec()
}

// Register adds client; it returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues v for every subscriber of userID. It never blocks the
// caller: when the queue is full or the hub stopped the event is dropped.
func (h *Hub) Publish(userID int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.ErrorLogger.Error("Feed encode failed", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{userID: userID, payload: payload}:
	case <-h.done:
	default:
		logger.SystemLogger.Warn("Feed queue full, event dropped", zap.Int("user_id", userID))
	}
}

// CompletionEvent is sent to an account's subscribers after a task completes.
type CompletionEvent struct {
	Type           string `json:"type"`
	TaskID         string `json:"taskId"`
	PointsEarned   int    `json:"pointsEarned"`
	NewTotalPoints int    `json:"newTotalPoints"`
	NewLevel       int    `json:"newLevel"`
	LevelChanged   bool   `json:"levelChanged"`
}

// NotifyCompletion publishes out to the account's feed.
func (h *Hub) NotifyCompletion(userID int, out *scoring.Outcome) {
	h.Publish(userID, CompletionEvent{
		Type:           "task.completed",
		TaskID:         out.TaskID,
		PointsEarned:   out.PointsEarned,
		NewTotalPoints: out.NewTotalPoints,
		NewLevel:       out.NewLevel,
		LevelChanged:   out.LevelChanged,
	})
}

// Upgrade rejects requests that are not websocket upgrades.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler serves the feed for the account in the "userID" local, which the
// token middleware sets before the upgrade.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, ok := c.Locals("userID").(int)
		if !ok {
			_ = c.Close()
			return
		}
		client := &Client{UserID: userID, Conn: c}
		if !h.Register(client) {
			_ = c.Close()
			return
		}
		defer h.Unregister(client)

		// The feed is server-to-client; reads only detect the disconnect.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
