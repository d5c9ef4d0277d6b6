package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Activity event types carried on the bus.
const (
	TypeTagged  = "tagged"
	TypeComment = "comment"
	TypeLike    = "like"
)

// ActivityEvent is published whenever one guest acts on another guest's
// content. The notification consumer turns these into inbox documents.
type ActivityEvent struct {
	Type           string    `json:"type"`
	FromUser       string    `json:"fromUser"`
	FromDeviceID   string    `json:"fromDeviceId"`
	TargetUser     string    `json:"targetUser"`
	TargetDeviceID string    `json:"targetDeviceId"`
	MediaID        string    `json:"mediaId,omitempty"`
	Message        string    `json:"message,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// SelfDirected reports whether the event would notify its own actor.
// Self-notifications are never fanned out.
func (e ActivityEvent) SelfDirected() bool {
	return e.FromUser == e.TargetUser && e.FromDeviceID == e.TargetDeviceID
}

type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, ev ActivityEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(ev.TargetUser + ":" + ev.TargetDeviceID),
		Value: b,
		Time:  ev.OccurredAt,
	})
}

func (p *Producer) Close() error { return p.writer.Close() }

// Consumer reads activity events and hands them to a handler.
type Consumer struct {
	reader *kafkago.Reader
	handle func(context.Context, ActivityEvent) error
}

func NewConsumer(brokers []string, topic, groupID string, handle func(context.Context, ActivityEvent) error) *Consumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: r, handle: handle}
}

func (c *Consumer) Start(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			time.Sleep(time.Second)
			continue
		}
		var ev ActivityEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			continue
		}
		_ = c.handle(ctx, ev)
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }
