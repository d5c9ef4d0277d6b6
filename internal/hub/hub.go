package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the frame pushed to subscribers: a topic plus the full
// refreshed snapshot for that topic.
type Envelope struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
	At    int64  `json:"at"`
}

// Hub tracks websocket subscribers per topic and pushes snapshots to
// every subscriber of a topic on publish.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[string]*Client // topic -> socketID -> client
	log    *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Hub {
	return &Hub{topics: make(map[string]map[string]*Client), log: log}
}

func (h *Hub) Subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[string]*Client)
	}
	h.topics[topic][c.SocketID] = c
}

func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, members := range h.topics {
		delete(members, c.SocketID)
	}
}

// Publish fans the snapshot out to every subscriber of the topic. Slow
// subscribers drop frames rather than block the publisher; the next
// publish carries a complete snapshot anyway.
func (h *Hub) Publish(topic string, data any) {
	env := Envelope{Topic: topic, Data: data, At: time.Now().Unix()}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.topics[topic] {
		c.Send(env)
	}
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Client is one websocket connection.
type Client struct {
	SocketID string
	conn     *websocket.Conn
	send     chan Envelope
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		SocketID: uuid.NewString(),
		conn:     conn,
		send:     make(chan Envelope, 64),
	}
}

func (c *Client) Send(env Envelope) {
	select {
	case c.send <- env:
	default:
		// drop if blocked
	}
}

// Frames drains the outbound queue; exposed for tests.
func (c *Client) Frames() <-chan Envelope { return c.send }

func (c *Client) Close() { close(c.send) }

// WritePump serializes frames to the socket and keeps the connection
// alive with pings. Returns when the send queue closes or a write fails.
func (c *Client) WritePump(pingInterval, writeDeadline time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			b, err := json.Marshal(env)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}

// ReadPump discards inbound frames (subscriptions are read-only) and
// refreshes the read deadline on pongs. Returns on disconnect.
func (c *Client) ReadPump(readDeadline time.Duration) {
	c.conn.SetReadLimit(64 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
