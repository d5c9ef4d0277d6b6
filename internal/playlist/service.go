// Package playlist bridges guest song requests to an external music
// service, shadowing each add with a local ownership record so guests
// can remove their own requests.
package playlist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/authz"
	"weddingshare/internal/identity"
	"weddingshare/internal/models"
)

type OwnershipStore interface {
	Insert(ctx context.Context, o *models.SongOwnership) error
	FindByTrack(ctx context.Context, playlistID, trackID string) (*models.SongOwnership, error)
	ListByPlaylist(ctx context.Context, playlistID string) ([]*models.SongOwnership, error)
	DeleteByTrack(ctx context.Context, playlistID, trackID string) error
}

type Service struct {
	api        MusicAPI
	ownership  OwnershipStore
	playlistID string
	log        *zap.SugaredLogger
}

func NewService(api MusicAPI, ownership OwnershipStore, playlistID string, log *zap.SugaredLogger) *Service {
	return &Service{api: api, ownership: ownership, playlistID: playlistID, log: log}
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	if query == "" {
		return []Track{}, nil
	}
	return s.api.Search(ctx, query, limit)
}

// PlaylistEntry is a playlist track with its local requester, when known.
type PlaylistEntry struct {
	Track
	AddedByUser     string `json:"addedByUser,omitempty"`
	AddedByDeviceID string `json:"addedByDeviceId,omitempty"`
}

// Tracks joins the external playlist against the ownership shadow
// records. Tracks added outside the bridge simply have no requester.
func (s *Service) Tracks(ctx context.Context) ([]PlaylistEntry, error) {
	tracks, err := s.api.PlaylistTracks(ctx, s.playlistID)
	if err != nil {
		return nil, err
	}
	owned, err := s.ownership.ListByPlaylist(ctx, s.playlistID)
	if err != nil {
		return nil, err
	}
	byTrack := make(map[string]*models.SongOwnership, len(owned))
	for _, o := range owned {
		byTrack[o.TrackID] = o
	}
	out := make([]PlaylistEntry, 0, len(tracks))
	for _, t := range tracks {
		entry := PlaylistEntry{Track: t}
		if o, ok := byTrack[t.ID]; ok {
			entry.AddedByUser = o.AddedByUser
			entry.AddedByDeviceID = o.AddedByDeviceID
		}
		out = append(out, entry)
	}
	return out, nil
}

// Add pushes the track to the external playlist, then records who asked
// for it. The external service has no notion of per-track local
// ownership; the shadow record carries it.
func (s *Service) Add(ctx context.Context, actor identity.Actor, track Track) error {
	if track.URI == "" || track.ID == "" {
		return fmt.Errorf("missing track uri: %w", apperrors.ErrValidation)
	}
	if err := s.api.AddTrack(ctx, s.playlistID, track.URI); err != nil {
		return err
	}
	own := &models.SongOwnership{
		TrackID:         track.ID,
		SpotifyTrackURI: track.URI,
		AddedByUser:     actor.UserName,
		AddedByDeviceID: actor.DeviceID,
		PlaylistID:      s.playlistID,
	}
	if err := s.ownership.Insert(ctx, own); err != nil {
		// The external add already succeeded; losing the shadow record
		// only costs self-service removal for this track.
		s.log.Errorw("ownership record write failed", "trackId", track.ID, "err", err)
	}
	return nil
}

// Remove deletes a playlist entry if the actor is admin or the recorded
// adder. Tracks with no ownership record are admin-only.
func (s *Service) Remove(ctx context.Context, actor identity.Actor, trackID string) error {
	own, err := s.ownership.FindByTrack(ctx, s.playlistID, trackID)
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if !authz.CanRemovePlaylistTrack(actor, own) {
		return apperrors.ErrPermissionDenied
	}
	uri := "spotify:track:" + trackID
	if own != nil {
		uri = own.SpotifyTrackURI
	}
	if err := s.api.RemoveTrack(ctx, s.playlistID, uri); err != nil {
		return err
	}
	return s.ownership.DeleteByTrack(ctx, s.playlistID, trackID)
}

// ReconcileOnce drops ownership rows whose track no longer appears in
// the playlist, cleaning up after removals done directly in the
// external service's own UI.
func (s *Service) ReconcileOnce(ctx context.Context) (int, error) {
	tracks, err := s.api.PlaylistTracks(ctx, s.playlistID)
	if err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		present[t.ID] = true
	}
	owned, err := s.ownership.ListByPlaylist(ctx, s.playlistID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, o := range owned {
		if present[o.TrackID] {
			continue
		}
		if err := s.ownership.DeleteByTrack(ctx, s.playlistID, o.TrackID); err != nil {
			s.log.Warnw("orphaned ownership cleanup failed", "trackId", o.TrackID, "err", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// RunReconciler sweeps orphaned ownership rows at the given interval.
func (s *Service) RunReconciler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.ReconcileOnce(ctx); err == nil && n > 0 {
				s.log.Infow("orphaned song ownerships removed", "count", n)
			}
		}
	}
}
