// Package stories manages the 24-hour story lifecycle: creation,
// per-device seen markers, and the periodic expiry sweep.
package stories

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/authz"
	"weddingshare/internal/identity"
	"weddingshare/internal/metrics"
	"weddingshare/internal/models"
	"weddingshare/internal/repository"
	"weddingshare/internal/storage"
)

type Repo interface {
	Insert(ctx context.Context, s *models.Story) error
	GetByID(ctx context.Context, id string) (*models.Story, error)
	ListActive(ctx context.Context, now time.Time) ([]*models.Story, error)
	ListExpired(ctx context.Context, now time.Time) ([]*models.Story, error)
	Delete(ctx context.Context, id string) error
}

type ViewRepo interface {
	MarkSeen(ctx context.Context, storyID, deviceID string) error
	SeenByDevice(ctx context.Context, deviceID string) (map[string]bool, error)
	DeleteByStory(ctx context.Context, storyID string) error
}

type Blob interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	DeleteAnyPath(ctx context.Context, name string) error
}

type Service struct {
	repo  Repo
	views ViewRepo
	blob  Blob
	now   func() time.Time
	log   *zap.SugaredLogger
}

func NewService(repo Repo, views ViewRepo, blob Blob, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, views: views, blob: blob, now: time.Now, log: log}
}

// Add uploads the story blob under stories/ and records it with the
// fixed 24h expiry.
func (s *Service) Add(ctx context.Context, actor identity.Actor, filename, contentType string, data []byte) (*models.Story, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file: %w", apperrors.ErrValidation)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	var storyType string
	switch {
	case strings.HasPrefix(contentType, "image/"):
		storyType = models.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		storyType = models.MediaTypeVideo
	default:
		return nil, fmt.Errorf("unsupported content type %q: %w", contentType, apperrors.ErrValidation)
	}

	name := repository.NewID() + "_" + storage.SafeName(filename)
	url, err := s.blob.Upload(ctx, "stories/"+name, contentType, data)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	story := &models.Story{
		Name:        name,
		URL:         url,
		Type:        storyType,
		UploadedBy:  actor.UserName,
		DeviceID:    actor.DeviceID,
		UploadedAt:  now,
		ExpiresAt:   now.Add(models.StoryTTL),
		ContentType: contentType,
	}
	if err := s.repo.Insert(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// StoryView is one active story with the caller's seen state attached.
type StoryView struct {
	models.Story
	Seen bool `json:"seen"`
}

// ActiveFor lists unexpired stories newest-first with the requesting
// device's seen markers joined in.
func (s *Service) ActiveFor(ctx context.Context, deviceID string) ([]*StoryView, error) {
	active, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	if deviceID != "" {
		if seen, err = s.views.SeenByDevice(ctx, deviceID); err != nil {
			return nil, err
		}
	}
	out := make([]*StoryView, 0, len(active))
	for _, st := range active {
		out = append(out, &StoryView{Story: *st, Seen: seen[st.ID]})
	}
	return out, nil
}

func (s *Service) MarkSeen(ctx context.Context, storyID, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("missing device id: %w", apperrors.ErrValidation)
	}
	if _, err := s.repo.GetByID(ctx, storyID); err != nil {
		return err
	}
	return s.views.MarkSeen(ctx, storyID, deviceID)
}

// Delete purges a story at any state: owner or admin, any time.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDeleteStory(actor, story) {
		return apperrors.ErrPermissionDenied
	}
	return s.purge(ctx, story)
}

func (s *Service) purge(ctx context.Context, story *models.Story) error {
	if err := s.repo.Delete(ctx, story.ID); err != nil {
		return err
	}
	if err := s.blob.DeleteAnyPath(ctx, story.Name); err != nil {
		s.log.Warnw("story blob cleanup failed", "name", story.Name, "err", err)
	}
	if err := s.views.DeleteByStory(ctx, story.ID); err != nil {
		s.log.Warnw("story view cleanup failed", "storyId", story.ID, "err", err)
	}
	return nil
}

// SweepOnce purges every story past its expiry, returning how many went.
func (s *Service) SweepOnce(ctx context.Context) (int, error) {
	expired, err := s.repo.ListExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, st := range expired {
		if err := s.purge(ctx, st); err != nil {
			s.log.Errorw("story purge failed", "storyId", st.ID, "err", err)
			continue
		}
		purged++
		metrics.StoriesPurged.Inc()
	}
	return purged, nil
}

// RunSweeper purges expired stories at the given interval until ctx ends.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err == nil && n > 0 {
				s.log.Infow("expired stories purged", "count", n)
			}
		}
	}
}
