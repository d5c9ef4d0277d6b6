package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingshare/internal/models"
)

type CommentRepo struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database, name string) *CommentRepo {
	return &CommentRepo{col: db.Collection(name)}
}

func (r *CommentRepo) Collection() *mongo.Collection { return r.col }

func (r *CommentRepo) Insert(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, wrapFindErr(err)
	}
	return &c, nil
}

// ListAll returns every comment oldest-first; the gallery store joins
// them to media client-side by media id.
func (r *CommentRepo) ListAll(ctx context.Context) ([]*models.Comment, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Comment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *CommentRepo) DeleteByMedia(ctx context.Context, mediaID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"media_id": mediaID})
	return err
}

type LikeRepo struct {
	col *mongo.Collection
}

func NewLikeRepo(db *mongo.Database, name string) *LikeRepo {
	return &LikeRepo{col: db.Collection(name)}
}

func (r *LikeRepo) Collection() *mongo.Collection { return r.col }

// EnsureIndexes declares the unique (media_id, user_name, device_id)
// compound index that closes the toggle's read-then-write race.
func (r *LikeRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "media_id", Value: 1},
			{Key: "user_name", Value: 1},
			{Key: "device_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *LikeRepo) Insert(ctx context.Context, l *models.Like) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, l)
	return err
}

func (r *LikeRepo) Find(ctx context.Context, mediaID, userName, deviceID string) (*models.Like, error) {
	var l models.Like
	err := r.col.FindOne(ctx, bson.M{
		"media_id":  mediaID,
		"user_name": userName,
		"device_id": deviceID,
	}).Decode(&l)
	if err != nil {
		return nil, wrapFindErr(err)
	}
	return &l, nil
}

func (r *LikeRepo) GetByID(ctx context.Context, id string) (*models.Like, error) {
	var l models.Like
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, wrapFindErr(err)
	}
	return &l, nil
}

func (r *LikeRepo) ListAll(ctx context.Context) ([]*models.Like, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Like
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LikeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *LikeRepo) DeleteByMedia(ctx context.Context, mediaID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"media_id": mediaID})
	return err
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
