package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingshare/internal/models"
)

type SiteStatusRepo struct {
	col *mongo.Collection
}

func NewSiteStatusRepo(db *mongo.Database, name string) *SiteStatusRepo {
	return &SiteStatusRepo{col: db.Collection(name)}
}

func (r *SiteStatusRepo) Collection() *mongo.Collection { return r.col }

// Ensure lazily creates the singleton with defaults. Concurrent first
// reads can race the upsert's insert path; the loser's duplicate-key
// error means the winner already wrote the document, so both resolve
// to the same singleton.
func (r *SiteStatusRepo) Ensure(ctx context.Context) (*models.SiteStatus, error) {
	def := models.DefaultSiteStatus(time.Now().UTC())
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": models.SiteStatusKey},
		bson.M{"$setOnInsert": def},
		options.Update().SetUpsert(true))
	if err := ensureUpsertErr(err); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

// ensureUpsertErr maps the losing upsert's duplicate-key error to
// success; the winner's document is already in place.
func ensureUpsertErr(err error) error {
	if err == nil || IsDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *SiteStatusRepo) Get(ctx context.Context) (*models.SiteStatus, error) {
	var s models.SiteStatus
	if err := r.col.FindOne(ctx, bson.M{"_id": models.SiteStatusKey}).Decode(&s); err != nil {
		return nil, wrapFindErr(err)
	}
	return &s, nil
}

func (r *SiteStatusRepo) Update(ctx context.Context, s *models.SiteStatus, updatedBy string) error {
	s.ID = models.SiteStatusKey
	s.LastUpdated = time.Now().UTC()
	s.UpdatedBy = updatedBy
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": models.SiteStatusKey}, s,
		options.Replace().SetUpsert(true))
	return err
}
