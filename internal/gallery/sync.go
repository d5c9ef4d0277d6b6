package gallery

import (
	"context"

	"go.uber.org/zap"

	"weddingshare/internal/models"
	"weddingshare/internal/repository"
	"weddingshare/internal/store"
)

// Sync owns the three live subscriptions feeding the gallery store.
type Sync struct {
	store *Store

	mediaWatch   *store.Watcher[[]*models.MediaItem]
	commentWatch *store.Watcher[[]*models.Comment]
	likeWatch    *store.Watcher[[]*models.Like]
}

func NewSync(ctx context.Context, st *Store,
	media *repository.MediaRepo, comments *repository.CommentRepo, likes *repository.LikeRepo,
	log *zap.SugaredLogger) *Sync {

	s := &Sync{store: st}
	s.mediaWatch = store.NewWatcher(media.Collection(), media.ListDesc,
		func(items []*models.MediaItem) { st.SetMedia(ctx, items) }, log)
	s.commentWatch = store.NewWatcher(comments.Collection(), comments.ListAll,
		st.SetComments, log)
	s.likeWatch = store.NewWatcher(likes.Collection(), likes.ListAll,
		st.SetLikes, log)
	return s
}

func (s *Sync) Start(ctx context.Context) error {
	if err := s.mediaWatch.Start(ctx); err != nil {
		return err
	}
	if err := s.commentWatch.Start(ctx); err != nil {
		s.mediaWatch.Close()
		return err
	}
	if err := s.likeWatch.Start(ctx); err != nil {
		s.mediaWatch.Close()
		s.commentWatch.Close()
		return err
	}
	return nil
}

func (s *Sync) Close() {
	s.mediaWatch.Close()
	s.commentWatch.Close()
	s.likeWatch.Close()
}

func (s *Sync) Store() *Store { return s.store }
