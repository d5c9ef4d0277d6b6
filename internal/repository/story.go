package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingshare/internal/models"
)

type StoryRepo struct {
	col *mongo.Collection
}

func NewStoryRepo(db *mongo.Database, name string) *StoryRepo {
	return &StoryRepo{col: db.Collection(name)}
}

func (r *StoryRepo) Collection() *mongo.Collection { return r.col }

func (r *StoryRepo) Insert(ctx context.Context, s *models.Story) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.UploadedAt.IsZero() {
		s.UploadedAt = time.Now().UTC()
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = s.UploadedAt.Add(models.StoryTTL)
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *StoryRepo) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var s models.Story
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, wrapFindErr(err)
	}
	return &s, nil
}

// ListActive returns unexpired stories newest-first.
func (r *StoryRepo) ListActive(ctx context.Context, now time.Time) ([]*models.Story, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"expires_at": bson.M{"$gt": now}},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Story
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StoryRepo) ListExpired(ctx context.Context, now time.Time) ([]*models.Story, error) {
	cur, err := r.col.Find(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Story
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type StoryViewRepo struct {
	col *mongo.Collection
}

func NewStoryViewRepo(db *mongo.Database, name string) *StoryViewRepo {
	return &StoryViewRepo{col: db.Collection(name)}
}

// MarkSeen records the once-only (story_id, device_id) marker. Upsert
// keeps repeat views idempotent without preserving a first-seen race.
func (r *StoryViewRepo) MarkSeen(ctx context.Context, storyID, deviceID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"story_id": storyID, "device_id": deviceID},
		bson.M{
			"$setOnInsert": bson.M{
				"_id":       NewID(),
				"viewed_at": time.Now().UTC(),
			},
		},
		options.Update().SetUpsert(true))
	return err
}

func (r *StoryViewRepo) SeenByDevice(ctx context.Context, deviceID string) (map[string]bool, error) {
	cur, err := r.col.Find(ctx, bson.M{"device_id": deviceID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	seen := make(map[string]bool)
	for cur.Next(ctx) {
		var v models.StoryView
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		seen[v.StoryID] = true
	}
	return seen, cur.Err()
}

func (r *StoryViewRepo) DeleteByStory(ctx context.Context, storyID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"story_id": storyID})
	return err
}
