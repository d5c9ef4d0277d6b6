package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"weddingshare/internal/hub"
)

const (
	wsPingInterval  = 30 * time.Second
	wsWriteDeadline = 10 * time.Second
	wsReadDeadline  = 75 * time.Second
)

var wsTopics = map[string]bool{
	"gallery":    true,
	"siteStatus": true,
	"profiles":   true,
	"stories":    true,
}

// validTopic also admits per-recipient notification topics of the form
// notifications:<user>:<device>.
func validTopic(t string) bool {
	if wsTopics[t] {
		return true
	}
	rest, ok := strings.CutPrefix(t, "notifications:")
	return ok && strings.Contains(rest, ":")
}

// WSUpgrade rejects non-websocket requests before the upgrade handler runs.
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Subscribe is the websocket endpoint. Clients pass a comma separated
// topics query; unknown topics are ignored. Each subscribed topic gets
// an immediate snapshot frame followed by a frame per change.
func (h *Handler) Subscribe() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := hub.NewClient(conn)
		topics := parseTopics(conn.Query("topics"))
		if len(topics) == 0 {
			topics = []string{"gallery"}
		}
		for _, t := range topics {
			h.hub.Subscribe(client, t)
			h.seed(client, t)
		}
		defer func() {
			h.hub.Remove(client)
			client.Close()
		}()

		go client.WritePump(wsPingInterval, wsWriteDeadline)
		client.ReadPump(wsReadDeadline)
	})
}

// seed pushes the current state so subscribers never start blank.
func (h *Handler) seed(c *hub.Client, topic string) {
	switch topic {
	case "gallery":
		c.Send(hub.Envelope{Topic: topic, Data: h.gallery.Snapshot(), At: time.Now().Unix()})
	case "siteStatus":
		if st, err := h.status.Current(context.Background()); err == nil {
			c.Send(hub.Envelope{Topic: topic, Data: st, At: time.Now().Unix()})
		}
	}
}

func parseTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if validTopic(t) {
			out = append(out, t)
		}
	}
	return out
}
