package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"weddingshare/internal/models"
)

type MediaTagRepo struct {
	col *mongo.Collection
}

func NewMediaTagRepo(db *mongo.Database, name string) *MediaTagRepo {
	return &MediaTagRepo{col: db.Collection(name)}
}

func (r *MediaTagRepo) Insert(ctx context.Context, t *models.MediaTag) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *MediaTagRepo) GetByID(ctx context.Context, id string) (*models.MediaTag, error) {
	var t models.MediaTag
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, wrapFindErr(err)
	}
	return &t, nil
}

func (r *MediaTagRepo) ListByMedia(ctx context.Context, mediaID string) ([]*models.MediaTag, error) {
	cur, err := r.col.Find(ctx, bson.M{"media_id": mediaID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.MediaTag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MediaTagRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MediaTagRepo) DeleteByMedia(ctx context.Context, mediaID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"media_id": mediaID})
	return err
}

type LocationTagRepo struct {
	col *mongo.Collection
}

func NewLocationTagRepo(db *mongo.Database, name string) *LocationTagRepo {
	return &LocationTagRepo{col: db.Collection(name)}
}

func (r *LocationTagRepo) Insert(ctx context.Context, t *models.LocationTag) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *LocationTagRepo) GetByID(ctx context.Context, id string) (*models.LocationTag, error) {
	var t models.LocationTag
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, wrapFindErr(err)
	}
	return &t, nil
}

func (r *LocationTagRepo) ListByMedia(ctx context.Context, mediaID string) ([]*models.LocationTag, error) {
	cur, err := r.col.Find(ctx, bson.M{"media_id": mediaID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.LocationTag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LocationTagRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *LocationTagRepo) DeleteByMedia(ctx context.Context, mediaID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"media_id": mediaID})
	return err
}
