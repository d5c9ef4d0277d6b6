package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"weddingshare/internal/models"
)

type SongOwnershipRepo struct {
	col *mongo.Collection
}

func NewSongOwnershipRepo(db *mongo.Database, name string) *SongOwnershipRepo {
	return &SongOwnershipRepo{col: db.Collection(name)}
}

func (r *SongOwnershipRepo) Insert(ctx context.Context, o *models.SongOwnership) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	if o.AddedAt.IsZero() {
		o.AddedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, o)
	return err
}

// FindByTrack returns the ownership record for a playlist entry, or
// ErrNotFound for tracks that predate the bridge.
func (r *SongOwnershipRepo) FindByTrack(ctx context.Context, playlistID, trackID string) (*models.SongOwnership, error) {
	var o models.SongOwnership
	err := r.col.FindOne(ctx,
		bson.M{"playlist_id": playlistID, "track_id": trackID}).Decode(&o)
	if err != nil {
		return nil, wrapFindErr(err)
	}
	return &o, nil
}

func (r *SongOwnershipRepo) ListByPlaylist(ctx context.Context, playlistID string) ([]*models.SongOwnership, error) {
	cur, err := r.col.Find(ctx, bson.M{"playlist_id": playlistID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.SongOwnership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SongOwnershipRepo) DeleteByTrack(ctx context.Context, playlistID, trackID string) error {
	_, err := r.col.DeleteMany(ctx,
		bson.M{"playlist_id": playlistID, "track_id": trackID})
	return err
}
