// Package gallery composes media, comments and likes into one reactive
// snapshot keyed by media id. Three live subscriptions feed it
// independently; every feed update re-derives the joined view and pushes
// it out, which removes the ad-hoc join the UI would otherwise do.
package gallery

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/models"
)

// Resolver turns a stored file name into a fetchable URL, walking the
// historical path candidates.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// URLCache is an optional presigned-URL cache.
type URLCache interface {
	Get(ctx context.Context, name string) (string, bool)
	Set(ctx context.Context, name, url string)
}

// Item is one gallery entry with its joined social state.
type Item struct {
	models.MediaItem
	Comments     []*models.Comment `json:"comments"`
	Likes        []*models.Like    `json:"likes"`
	CommentCount int               `json:"commentCount"`
	LikeCount    int               `json:"likeCount"`
}

// Snapshot is the full, freshly-ordered gallery view (newest first).
type Snapshot []*Item

// Store holds the latest state of each feed and derives the joined
// snapshot. Emit fires with the complete view on every change.
type Store struct {
	mu       sync.Mutex
	media    []*models.MediaItem
	comments map[string][]*models.Comment
	likes    map[string][]*models.Like

	resolver Resolver
	cache    URLCache
	emit     func(Snapshot)
	log      *zap.SugaredLogger
}

func NewStore(resolver Resolver, cache URLCache, emit func(Snapshot), log *zap.SugaredLogger) *Store {
	return &Store{
		comments: make(map[string][]*models.Comment),
		likes:    make(map[string][]*models.Like),
		resolver: resolver,
		cache:    cache,
		emit:     emit,
		log:      log,
	}
}

// SetMedia replaces the media feed. Every non-note item gets a URL via
// the fallback resolver; items whose blob cannot be located anywhere are
// kept and marked unavailable, never dropped, so the emitted count always
// matches the collection.
func (s *Store) SetMedia(ctx context.Context, items []*models.MediaItem) {
	for _, m := range items {
		if m.IsNote() {
			m.URL = ""
			continue
		}
		m.URL, m.IsUnavailable = s.resolveURL(ctx, m.Name)
	}
	s.mu.Lock()
	s.media = items
	s.mu.Unlock()
	s.publish()
}

func (s *Store) resolveURL(ctx context.Context, name string) (url string, unavailable bool) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, name); ok {
			return cached, false
		}
	}
	url, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			s.log.Warnw("blob access denied", "name", name)
		} else if !apperrors.IsNotFound(err) {
			s.log.Errorw("blob resolution failed", "name", name, "err", err)
		}
		return "", true
	}
	if s.cache != nil {
		s.cache.Set(ctx, name, url)
	}
	return url, false
}

// SetComments replaces the comment feed, keyed by media id.
func (s *Store) SetComments(list []*models.Comment) {
	byMedia := make(map[string][]*models.Comment, len(list))
	for _, c := range list {
		byMedia[c.MediaID] = append(byMedia[c.MediaID], c)
	}
	s.mu.Lock()
	s.comments = byMedia
	s.mu.Unlock()
	s.publish()
}

// SetLikes replaces the like feed, keyed by media id.
func (s *Store) SetLikes(list []*models.Like) {
	byMedia := make(map[string][]*models.Like, len(list))
	for _, l := range list {
		byMedia[l.MediaID] = append(byMedia[l.MediaID], l)
	}
	s.mu.Lock()
	s.likes = byMedia
	s.mu.Unlock()
	s.publish()
}

// Snapshot derives the joined view from current feed state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Snapshot, 0, len(s.media))
	for _, m := range s.media {
		item := &Item{MediaItem: *m}
		item.Comments = s.comments[m.ID]
		item.Likes = s.likes[m.ID]
		if item.Comments == nil {
			item.Comments = []*models.Comment{}
		}
		if item.Likes == nil {
			item.Likes = []*models.Like{}
		}
		item.CommentCount = len(item.Comments)
		item.LikeCount = len(item.Likes)
		out = append(out, item)
	}
	return out
}

func (s *Store) publish() {
	if s.emit != nil {
		s.emit(s.Snapshot())
	}
}
