package notifications

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"weddingshare/internal/events"
	"weddingshare/internal/metrics"
	"weddingshare/internal/models"
)

// Inbox is the notification write/read surface the fan-out needs.
type Inbox interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListForTarget(ctx context.Context, userName, deviceID string, cap int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userName, deviceID string) (int64, error)
	CountUnread(ctx context.Context, userName, deviceID string) (int64, error)
}

// Publisher puts activity events on the bus. Nil means no bus is
// configured and fan-out degrades to a direct inbox write.
type Publisher interface {
	Publish(ctx context.Context, ev events.ActivityEvent) error
}

type Fanout struct {
	inbox Inbox
	pub   Publisher
	cap   int64
	log   *zap.SugaredLogger

	onDeliver  func(*models.Notification)
	warnDirect sync.Once
}

// OnDeliver registers a hook fired after each inbox write, used to push
// the notification to the recipient's live topic.
func (f *Fanout) OnDeliver(fn func(*models.Notification)) { f.onDeliver = fn }

func NewFanout(inbox Inbox, pub Publisher, cap int64, log *zap.SugaredLogger) *Fanout {
	return &Fanout{inbox: inbox, pub: pub, cap: cap, log: log}
}

// Notify fans one activity event out to its target. An actor never
// notifies themselves. Delivery is at-least-once: bus publish failure
// falls back to a direct write.
func (f *Fanout) Notify(ctx context.Context, ev events.ActivityEvent) error {
	if ev.SelfDirected() {
		return nil
	}
	if f.pub == nil {
		f.warnDirect.Do(func() {
			f.log.Infow("no event bus configured, notifications delivered synchronously")
		})
		return f.Deliver(ctx, ev)
	}
	if err := f.pub.Publish(ctx, ev); err != nil {
		f.log.Errorw("activity publish failed, delivering directly", "type", ev.Type, "err", err)
		return f.Deliver(ctx, ev)
	}
	return nil
}

// Deliver turns an activity event into an inbox document. Called by the
// bus consumer, or directly when no bus is configured.
func (f *Fanout) Deliver(ctx context.Context, ev events.ActivityEvent) error {
	if ev.SelfDirected() {
		return nil
	}
	n := &models.Notification{
		Type:           ev.Type,
		Title:          titleFor(ev),
		Message:        ev.Message,
		TargetUser:     ev.TargetUser,
		TargetDeviceID: ev.TargetDeviceID,
		FromUser:       ev.FromUser,
		FromDeviceID:   ev.FromDeviceID,
		MediaID:        ev.MediaID,
		CreatedAt:      ev.OccurredAt,
	}
	if err := f.inbox.Insert(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsFanned.Inc()
	if f.onDeliver != nil {
		f.onDeliver(n)
	}
	return nil
}

func (f *Fanout) List(ctx context.Context, userName, deviceID string) ([]*models.Notification, error) {
	return f.inbox.ListForTarget(ctx, userName, deviceID, f.cap)
}

func (f *Fanout) MarkRead(ctx context.Context, id string) error {
	return f.inbox.MarkRead(ctx, id)
}

func (f *Fanout) MarkAllRead(ctx context.Context, userName, deviceID string) (int64, error) {
	return f.inbox.MarkAllRead(ctx, userName, deviceID)
}

func (f *Fanout) UnreadCount(ctx context.Context, userName, deviceID string) (int64, error) {
	return f.inbox.CountUnread(ctx, userName, deviceID)
}

func titleFor(ev events.ActivityEvent) string {
	switch ev.Type {
	case events.TypeTagged:
		return fmt.Sprintf("%s tagged you in a photo", ev.FromUser)
	case events.TypeComment:
		return fmt.Sprintf("%s commented on your upload", ev.FromUser)
	case events.TypeLike:
		return fmt.Sprintf("%s liked your upload", ev.FromUser)
	default:
		return "New activity"
	}
}
