// Package sitestatus streams the settings singleton that gates which
// features render on every client.
package sitestatus

import (
	"context"

	"go.uber.org/zap"

	"weddingshare/internal/models"
	"weddingshare/internal/repository"
	"weddingshare/internal/store"
)

type Broadcaster struct {
	repo  *repository.SiteStatusRepo
	watch *store.Watcher[*models.SiteStatus]
}

// New ensures the singleton exists (lazy, idempotent first-read
// migration) and wires a live watcher that pushes every change through
// emit.
func New(ctx context.Context, repo *repository.SiteStatusRepo, emit func(*models.SiteStatus), log *zap.SugaredLogger) (*Broadcaster, error) {
	if _, err := repo.Ensure(ctx); err != nil {
		return nil, err
	}
	b := &Broadcaster{repo: repo}
	b.watch = store.NewWatcher(repo.Collection(), repo.Get, emit, log)
	return b, nil
}

func (b *Broadcaster) Start(ctx context.Context) error { return b.watch.Start(ctx) }
func (b *Broadcaster) Close()                          { b.watch.Close() }

func (b *Broadcaster) Current(ctx context.Context) (*models.SiteStatus, error) {
	return b.repo.Ensure(ctx)
}

// Update replaces the mutable flags; audit fields are stamped by the
// repo. Admin gating happens at the handler with a verified token.
func (b *Broadcaster) Update(ctx context.Context, s *models.SiteStatus, updatedBy string) error {
	return b.repo.Update(ctx, s, updatedBy)
}
