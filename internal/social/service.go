// Package social covers comments, likes and tags: the per-media social
// graph joined onto the gallery.
package social

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/authz"
	"weddingshare/internal/events"
	"weddingshare/internal/identity"
	"weddingshare/internal/models"
	"weddingshare/internal/repository"
)

type MediaGetter interface {
	GetByID(ctx context.Context, id string) (*models.MediaItem, error)
}

type CommentStore interface {
	Insert(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

type LikeStore interface {
	Insert(ctx context.Context, l *models.Like) error
	Find(ctx context.Context, mediaID, userName, deviceID string) (*models.Like, error)
	GetByID(ctx context.Context, id string) (*models.Like, error)
	Delete(ctx context.Context, id string) error
}

type MediaTagStore interface {
	Insert(ctx context.Context, t *models.MediaTag) error
	GetByID(ctx context.Context, id string) (*models.MediaTag, error)
	Delete(ctx context.Context, id string) error
	ListByMedia(ctx context.Context, mediaID string) ([]*models.MediaTag, error)
}

type LocationTagStore interface {
	Insert(ctx context.Context, t *models.LocationTag) error
	GetByID(ctx context.Context, id string) (*models.LocationTag, error)
	Delete(ctx context.Context, id string) error
	ListByMedia(ctx context.Context, mediaID string) ([]*models.LocationTag, error)
}

type Notifier interface {
	Notify(ctx context.Context, ev events.ActivityEvent) error
}

type Service struct {
	media        MediaGetter
	comments     CommentStore
	likes        LikeStore
	mediaTags    MediaTagStore
	locationTags LocationTagStore
	notifier     Notifier
	log          *zap.SugaredLogger
}

func NewService(media MediaGetter, comments CommentStore, likes LikeStore,
	mediaTags MediaTagStore, locationTags LocationTagStore,
	notifier Notifier, log *zap.SugaredLogger) *Service {
	return &Service{
		media: media, comments: comments, likes: likes,
		mediaTags: mediaTags, locationTags: locationTags,
		notifier: notifier, log: log,
	}
}

func (s *Service) AddComment(ctx context.Context, actor identity.Actor, mediaID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty comment: %w", apperrors.ErrValidation)
	}
	m, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{
		MediaID:  mediaID,
		Text:     text,
		UserName: actor.UserName,
		DeviceID: actor.DeviceID,
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, events.ActivityEvent{
		Type:           events.TypeComment,
		FromUser:       actor.UserName,
		FromDeviceID:   actor.DeviceID,
		TargetUser:     m.UploadedBy,
		TargetDeviceID: m.DeviceID,
		MediaID:        mediaID,
		Message:        text,
	})
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, actor identity.Actor, commentID string) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteComment(actor, c) {
		return apperrors.ErrPermissionDenied
	}
	return s.comments.Delete(ctx, commentID)
}

// ToggleLike flips the actor's like on a media item and reports the
// resulting state. The unique (media, user, device) index backs the
// read-then-write: a concurrent double insert surfaces as a duplicate
// key, which is treated as already-liked and toggled off.
func (s *Service) ToggleLike(ctx context.Context, actor identity.Actor, mediaID string) (liked bool, err error) {
	m, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return false, err
	}
	if existing, err := s.likes.Find(ctx, mediaID, actor.UserName, actor.DeviceID); err == nil {
		return false, s.likes.Delete(ctx, existing.ID)
	} else if !apperrors.IsNotFound(err) {
		return false, err
	}
	l := &models.Like{
		MediaID:  mediaID,
		UserName: actor.UserName,
		DeviceID: actor.DeviceID,
	}
	if err := s.likes.Insert(ctx, l); err != nil {
		if repository.IsDuplicateKey(err) {
			if existing, ferr := s.likes.Find(ctx, mediaID, actor.UserName, actor.DeviceID); ferr == nil {
				return false, s.likes.Delete(ctx, existing.ID)
			}
			return false, nil
		}
		return false, err
	}
	s.notify(ctx, events.ActivityEvent{
		Type:           events.TypeLike,
		FromUser:       actor.UserName,
		FromDeviceID:   actor.DeviceID,
		TargetUser:     m.UploadedBy,
		TargetDeviceID: m.DeviceID,
		MediaID:        mediaID,
	})
	return true, nil
}

func (s *Service) DeleteLike(ctx context.Context, actor identity.Actor, likeID string) error {
	l, err := s.likes.GetByID(ctx, likeID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteLike(actor, l) {
		return apperrors.ErrPermissionDenied
	}
	return s.likes.Delete(ctx, likeID)
}

func (s *Service) TagUser(ctx context.Context, actor identity.Actor, mediaID, userName, deviceID string) (*models.MediaTag, error) {
	if userName == "" {
		return nil, fmt.Errorf("empty tag target: %w", apperrors.ErrValidation)
	}
	if _, err := s.media.GetByID(ctx, mediaID); err != nil {
		return nil, err
	}
	t := &models.MediaTag{
		MediaID:  mediaID,
		UserName: userName,
		DeviceID: deviceID,
		TaggedBy: actor.UserName,
	}
	if err := s.mediaTags.Insert(ctx, t); err != nil {
		return nil, err
	}
	s.notify(ctx, events.ActivityEvent{
		Type:           events.TypeTagged,
		FromUser:       actor.UserName,
		FromDeviceID:   actor.DeviceID,
		TargetUser:     userName,
		TargetDeviceID: deviceID,
		MediaID:        mediaID,
	})
	return t, nil
}

func (s *Service) RemoveTag(ctx context.Context, actor identity.Actor, tagID string) error {
	t, err := s.mediaTags.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	m, err := s.media.GetByID(ctx, t.MediaID)
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if !authz.CanRemoveMediaTag(actor, t, m) {
		return apperrors.ErrPermissionDenied
	}
	return s.mediaTags.Delete(ctx, tagID)
}

func (s *Service) AddLocationTag(ctx context.Context, actor identity.Actor, tag *models.LocationTag) (*models.LocationTag, error) {
	if tag.Name == "" {
		return nil, fmt.Errorf("empty location name: %w", apperrors.ErrValidation)
	}
	if _, err := s.media.GetByID(ctx, tag.MediaID); err != nil {
		return nil, err
	}
	tag.AddedBy = actor.UserName
	tag.DeviceID = actor.DeviceID
	if err := s.locationTags.Insert(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *Service) RemoveLocationTag(ctx context.Context, actor identity.Actor, tagID string) error {
	t, err := s.locationTags.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	m, err := s.media.GetByID(ctx, t.MediaID)
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if !authz.CanRemoveLocationTag(actor, t, m) {
		return apperrors.ErrPermissionDenied
	}
	return s.locationTags.Delete(ctx, tagID)
}

func (s *Service) TagsForMedia(ctx context.Context, mediaID string) ([]*models.MediaTag, []*models.LocationTag, error) {
	tags, err := s.mediaTags.ListByMedia(ctx, mediaID)
	if err != nil {
		return nil, nil, err
	}
	locs, err := s.locationTags.ListByMedia(ctx, mediaID)
	if err != nil {
		return nil, nil, err
	}
	return tags, locs, nil
}

func (s *Service) notify(ctx context.Context, ev events.ActivityEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Errorw("notification fan-out failed", "type", ev.Type, "err", err)
	}
}
