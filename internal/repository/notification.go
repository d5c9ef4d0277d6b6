package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingshare/internal/models"
)

type NotificationRepo struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database, name string) *NotificationRepo {
	return &NotificationRepo{col: db.Collection(name)}
}

func (r *NotificationRepo) Collection() *mongo.Collection { return r.col }

func (r *NotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, n)
	return err
}

// ListForTarget returns the recipient's inbox newest-first, capped.
func (r *NotificationRepo) ListForTarget(ctx context.Context, userName, deviceID string, cap int64) ([]*models.Notification, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"target_user": userName, "target_device_id": deviceID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(cap))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead is idempotent per document.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// MarkAllRead flips the currently-unread set for one recipient. A
// notification arriving mid-batch stays unread; that race is accepted.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userName, deviceID string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"target_user": userName, "target_device_id": deviceID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userName, deviceID string) (int64, error) {
	return r.col.CountDocuments(ctx,
		bson.M{"target_user": userName, "target_device_id": deviceID, "read": false})
}
