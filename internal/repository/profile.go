package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingshare/internal/models"
)

type ProfileRepo struct {
	col *mongo.Collection
}

func NewProfileRepo(db *mongo.Database, name string) *ProfileRepo {
	return &ProfileRepo{col: db.Collection(name)}
}

func (r *ProfileRepo) Collection() *mongo.Collection { return r.col }

// Upsert saves a profile keyed by the (user_name, device_id) composite.
func (r *ProfileRepo) Upsert(ctx context.Context, p *models.UserProfile) error {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if p.DisplayName != "" {
		set["display_name"] = p.DisplayName
	}
	if p.ProfilePicture != "" {
		set["profile_picture"] = p.ProfilePicture
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_name": p.UserName, "device_id": p.DeviceID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"_id": NewID(), "created_at": now},
		},
		options.Update().SetUpsert(true))
	return err
}

func (r *ProfileRepo) Get(ctx context.Context, userName, deviceID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.col.FindOne(ctx,
		bson.M{"user_name": userName, "device_id": deviceID}).Decode(&p)
	if err != nil {
		return nil, wrapFindErr(err)
	}
	return &p, nil
}

func (r *ProfileRepo) ListAll(ctx context.Context) ([]*models.UserProfile, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.UserProfile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProfileRepo) Delete(ctx context.Context, userName, deviceID string) error {
	_, err := r.col.DeleteOne(ctx,
		bson.M{"user_name": userName, "device_id": deviceID})
	return err
}
