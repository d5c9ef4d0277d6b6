// Package profiles keeps (userName, deviceId)-keyed display profiles
// fresh on every client: a live watcher is the primary path, with a
// configurable poll as the fallback when the store's push guarantees
// prove weaker than assumed.
package profiles

import (
	"context"
	"time"

	"go.uber.org/zap"

	"weddingshare/internal/models"
	"weddingshare/internal/repository"
	"weddingshare/internal/store"
)

type Service struct {
	repo  *repository.ProfileRepo
	watch *store.Watcher[[]*models.UserProfile]
	emit  func([]*models.UserProfile)
	log   *zap.SugaredLogger
}

func New(repo *repository.ProfileRepo, emit func([]*models.UserProfile), log *zap.SugaredLogger) *Service {
	s := &Service{repo: repo, emit: emit, log: log}
	s.watch = store.NewWatcher(repo.Collection(), repo.ListAll, emit, log)
	return s
}

func (s *Service) Start(ctx context.Context) error { return s.watch.Start(ctx) }
func (s *Service) Close()                          { s.watch.Close() }

// RunFreshnessPoll re-emits the profile snapshot at a fixed interval.
func (s *Service) RunFreshnessPoll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			list, err := s.repo.ListAll(ctx)
			if err != nil {
				s.log.Warnw("profile freshness poll failed", "err", err)
				continue
			}
			s.emit(list)
		}
	}
}

func (s *Service) Save(ctx context.Context, p *models.UserProfile) error {
	return s.repo.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, userName, deviceID string) (*models.UserProfile, error) {
	return s.repo.Get(ctx, userName, deviceID)
}

func (s *Service) List(ctx context.Context) ([]*models.UserProfile, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes a profile after self- or admin-deletion; the client
// halts further writes and forces a reload.
func (s *Service) Delete(ctx context.Context, userName, deviceID string) error {
	return s.repo.Delete(ctx, userName, deviceID)
}
