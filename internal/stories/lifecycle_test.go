package stories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/identity"
	"weddingshare/internal/models"
)

type memStories struct {
	byID map[string]*models.Story
	seq  int
}

func (m *memStories) Insert(_ context.Context, s *models.Story) error {
	m.seq++
	s.ID = fmt.Sprintf("s%d", m.seq)
	m.byID[s.ID] = s
	return nil
}

func (m *memStories) GetByID(_ context.Context, id string) (*models.Story, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("story %s: %w", id, apperrors.ErrNotFound)
}

func (m *memStories) ListActive(_ context.Context, now time.Time) ([]*models.Story, error) {
	var out []*models.Story
	for _, s := range m.byID {
		if s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStories) ListExpired(_ context.Context, now time.Time) ([]*models.Story, error) {
	var out []*models.Story
	for _, s := range m.byID {
		if !s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStories) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type memViews struct {
	seen    map[string]map[string]bool // deviceID -> storyID -> true
	deleted []string
}

func (m *memViews) MarkSeen(_ context.Context, storyID, deviceID string) error {
	if m.seen[deviceID] == nil {
		m.seen[deviceID] = map[string]bool{}
	}
	m.seen[deviceID][storyID] = true
	return nil
}

func (m *memViews) SeenByDevice(_ context.Context, deviceID string) (map[string]bool, error) {
	out := map[string]bool{}
	for id := range m.seen[deviceID] {
		out[id] = true
	}
	return out, nil
}

func (m *memViews) DeleteByStory(_ context.Context, storyID string) error {
	m.deleted = append(m.deleted, storyID)
	for _, per := range m.seen {
		delete(per, storyID)
	}
	return nil
}

type memBlob struct {
	uploads []string
	removed []string
}

func (m *memBlob) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	m.uploads = append(m.uploads, key)
	return "https://signed.example/" + key, nil
}

func (m *memBlob) DeleteAnyPath(_ context.Context, name string) error {
	m.removed = append(m.removed, name)
	return nil
}

var jpegHeader = append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 64)...)

func newTestService(now time.Time) (*Service, *memStories, *memViews, *memBlob) {
	repo := &memStories{byID: map[string]*models.Story{}}
	views := &memViews{seen: map[string]map[string]bool{}}
	blob := &memBlob{}
	svc := NewService(repo, views, blob, zap.NewNop().Sugar())
	svc.now = func() time.Time { return now }
	return svc, repo, views, blob
}

func TestAddSetsExpiry(t *testing.T) {
	base := time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)
	svc, _, _, blob := newTestService(base)
	actor := identity.Actor{UserName: "Alice", DeviceID: "dev-a"}

	story, err := svc.Add(context.Background(), actor, "dance.jpg", "", jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeImage, story.Type)
	assert.Equal(t, base.Add(24*time.Hour), story.ExpiresAt)
	require.Len(t, blob.uploads, 1)
	assert.Contains(t, blob.uploads[0], "stories/")
}

func TestAddFlattensFilenamePaths(t *testing.T) {
	svc, _, _, blob := newTestService(time.Now())
	actor := identity.Actor{UserName: "Alice", DeviceID: "dev-a"}

	story, err := svc.Add(context.Background(), actor, "../nested/dance.jpg", "", jpegHeader)
	require.NoError(t, err)

	require.Len(t, blob.uploads, 1)
	key := blob.uploads[0]
	assert.True(t, strings.HasPrefix(key, "stories/"))
	assert.NotContains(t, strings.TrimPrefix(key, "stories/"), "/")
	assert.NotContains(t, story.Name, "/")
}

func TestAddRejectsUnsupportedContent(t *testing.T) {
	svc, _, _, _ := newTestService(time.Now())
	actor := identity.Actor{UserName: "Alice", DeviceID: "dev-a"}

	_, err := svc.Add(context.Background(), actor, "notes.txt", "text/plain", []byte("hello"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Add(context.Background(), actor, "empty.jpg", "", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestActiveForExpiryBoundary(t *testing.T) {
	base := time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(base)

	fresh := &models.Story{UploadedBy: "Alice", ExpiresAt: base.Add(time.Minute)}
	exactlyNow := &models.Story{UploadedBy: "Bob", ExpiresAt: base}
	stale := &models.Story{UploadedBy: "Carol", ExpiresAt: base.Add(-time.Minute)}
	for _, s := range []*models.Story{fresh, exactlyNow, stale} {
		require.NoError(t, repo.Insert(context.Background(), s))
	}

	active, err := svc.ActiveFor(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, active, 1, "expiry at exactly now counts as expired")
	assert.Equal(t, "Alice", active[0].UploadedBy)
}

func TestActiveForJoinsSeenMarkers(t *testing.T) {
	base := time.Now().UTC()
	svc, repo, _, _ := newTestService(base)

	a := &models.Story{ExpiresAt: base.Add(time.Hour)}
	b := &models.Story{ExpiresAt: base.Add(time.Hour)}
	require.NoError(t, repo.Insert(context.Background(), a))
	require.NoError(t, repo.Insert(context.Background(), b))

	require.NoError(t, svc.MarkSeen(context.Background(), a.ID, "dev-b"))

	views, err := svc.ActiveFor(context.Background(), "dev-b")
	require.NoError(t, err)
	require.Len(t, views, 2)
	seenByID := map[string]bool{}
	for _, v := range views {
		seenByID[v.ID] = v.Seen
	}
	assert.True(t, seenByID[a.ID])
	assert.False(t, seenByID[b.ID])
}

func TestMarkSeenRequiresDevice(t *testing.T) {
	svc, _, _, _ := newTestService(time.Now())

	err := svc.MarkSeen(context.Background(), "s1", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeletePermission(t *testing.T) {
	base := time.Now().UTC()
	svc, repo, _, _ := newTestService(base)
	story := &models.Story{UploadedBy: "Alice", DeviceID: "dev-a", Name: "x.jpg", ExpiresAt: base.Add(time.Hour)}
	require.NoError(t, repo.Insert(context.Background(), story))

	err := svc.Delete(context.Background(), identity.Actor{UserName: "Bob", DeviceID: "dev-b"}, story.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.Delete(context.Background(), identity.Actor{UserName: "Alice", DeviceID: "dev-a"}, story.ID)
	assert.NoError(t, err)
}

func TestSweepOncePurgesExpired(t *testing.T) {
	base := time.Date(2026, 6, 21, 9, 0, 0, 0, time.UTC)
	svc, repo, views, blob := newTestService(base)

	expired := &models.Story{Name: "old.jpg", ExpiresAt: base.Add(-time.Second)}
	live := &models.Story{Name: "new.jpg", ExpiresAt: base.Add(time.Hour)}
	require.NoError(t, repo.Insert(context.Background(), expired))
	require.NoError(t, repo.Insert(context.Background(), live))
	require.NoError(t, views.MarkSeen(context.Background(), expired.ID, "dev-a"))

	n, err := svc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := repo.byID[live.ID]
	assert.True(t, ok)
	_, ok = repo.byID[expired.ID]
	assert.False(t, ok)
	assert.Equal(t, []string{"old.jpg"}, blob.removed)
	assert.Equal(t, []string{expired.ID}, views.deleted)
}
