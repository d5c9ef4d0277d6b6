package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/models"
)

// NewID mints the string document ids used across all collections.
func NewID() string { return uuid.NewString() }

func wrapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNotFound
	}
	return err
}

type MediaRepo struct {
	col *mongo.Collection
}

func NewMediaRepo(db *mongo.Database, name string) *MediaRepo {
	return &MediaRepo{col: db.Collection(name)}
}

func (r *MediaRepo) Collection() *mongo.Collection { return r.col }

func (r *MediaRepo) Insert(ctx context.Context, m *models.MediaItem) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.UploadedAt.IsZero() {
		m.UploadedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MediaRepo) GetByID(ctx context.Context, id string) (*models.MediaItem, error) {
	var m models.MediaItem
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, wrapFindErr(err)
	}
	return &m, nil
}

// ListDesc returns every media document newest-first.
func (r *MediaRepo) ListDesc(ctx context.Context) ([]*models.MediaItem, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.MediaItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MediaRepo) UpdateNote(ctx context.Context, id, noteText string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"note_text": noteText}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
