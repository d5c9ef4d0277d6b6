// Package media handles uploads, notes and media deletion.
package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/authz"
	"weddingshare/internal/identity"
	"weddingshare/internal/models"
	"weddingshare/internal/repository"
	"weddingshare/internal/storage"
)

type Blob interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	UploadThumbnail(ctx context.Context, key string, data []byte) string
	DeleteAnyPath(ctx context.Context, name string) error
}

type Repo interface {
	Insert(ctx context.Context, m *models.MediaItem) error
	GetByID(ctx context.Context, id string) (*models.MediaItem, error)
	UpdateNote(ctx context.Context, id, noteText string) error
	Delete(ctx context.Context, id string) error
}

// Cascade removes a media item's dependent documents. Referential
// integrity is not enforced by the store, so cleanup is best-effort.
type Cascade interface {
	DeleteByMedia(ctx context.Context, mediaID string) error
}

type Service struct {
	repo      Repo
	blob      Blob
	cascades  []Cascade
	maxUpload int64
	log       *zap.SugaredLogger
}

func NewService(repo Repo, blob Blob, maxUploadBytes int64, log *zap.SugaredLogger, cascades ...Cascade) *Service {
	return &Service{repo: repo, blob: blob, cascades: cascades, maxUpload: maxUploadBytes, log: log}
}

// Upload stores the blob under uploads/ and records the media document.
// The stored name keeps the generated id prefix so historical lookups by
// bare name stay unambiguous.
func (s *Service) Upload(ctx context.Context, actor identity.Actor, filename, contentType string, data []byte) (*models.MediaItem, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file: %w", apperrors.ErrValidation)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.maxUpload, apperrors.ErrValidation)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	mediaType, err := typeFor(contentType)
	if err != nil {
		return nil, err
	}

	name := repository.NewID() + "_" + storage.SafeName(filename)
	key := "uploads/" + name
	url, err := s.blob.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}

	item := &models.MediaItem{
		Name:        name,
		URL:         url,
		Type:        mediaType,
		UploadedBy:  actor.UserName,
		DeviceID:    actor.DeviceID,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
	if mediaType == models.MediaTypeImage {
		item.ThumbnailKey = s.blob.UploadThumbnail(ctx, key, data)
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AddNote records a text-only media item; notes have no blob.
func (s *Service) AddNote(ctx context.Context, actor identity.Actor, text string) (*models.MediaItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty note: %w", apperrors.ErrValidation)
	}
	item := &models.MediaItem{
		Name:       "note",
		Type:       models.MediaTypeNote,
		NoteText:   text,
		UploadedBy: actor.UserName,
		DeviceID:   actor.DeviceID,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// EditNote updates a note's text. Only notes are editable, only by
// their creator or the admin.
func (s *Service) EditNote(ctx context.Context, actor identity.Actor, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty note: %w", apperrors.ErrValidation)
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsNote() {
		return fmt.Errorf("only notes can be edited: %w", apperrors.ErrValidation)
	}
	if !authz.CanMutateMedia(actor, item, authz.VerbEdit) {
		return apperrors.ErrPermissionDenied
	}
	return s.repo.UpdateNote(ctx, id, text)
}

// Delete removes the document, then cleans up the blob and dependents
// best-effort. Blob or cascade failure never blocks record deletion.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanMutateMedia(actor, item, authz.VerbDelete) {
		return apperrors.ErrPermissionDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if !item.IsNote() {
		if err := s.blob.DeleteAnyPath(ctx, item.Name); err != nil {
			s.log.Warnw("blob cleanup failed", "name", item.Name, "err", err)
		}
	}
	for _, c := range s.cascades {
		if err := c.DeleteByMedia(ctx, id); err != nil {
			s.log.Warnw("cascade cleanup failed", "mediaId", id, "err", err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	return s.repo.GetByID(ctx, id)
}

func typeFor(contentType string) (string, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, nil
	default:
		return "", fmt.Errorf("unsupported content type %q: %w", contentType, apperrors.ErrValidation)
	}
}

