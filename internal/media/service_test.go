package media

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weddingshare/internal/apperrors"
	"weddingshare/internal/identity"
	"weddingshare/internal/models"
)

var (
	owner   = identity.Actor{UserName: "Alice", DeviceID: "dev-a"}
	someone = identity.Actor{UserName: "Bob", DeviceID: "dev-b"}
	admin   = identity.Actor{UserName: "Admin", DeviceID: "dev-x", IsAdmin: true}
)

type memRepo struct {
	byID map[string]*models.MediaItem
	seq  int
}

func (m *memRepo) Insert(_ context.Context, item *models.MediaItem) error {
	m.seq++
	item.ID = fmt.Sprintf("m%d", m.seq)
	m.byID[item.ID] = item
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*models.MediaItem, error) {
	if item, ok := m.byID[id]; ok {
		return item, nil
	}
	return nil, fmt.Errorf("media %s: %w", id, apperrors.ErrNotFound)
}

func (m *memRepo) UpdateNote(_ context.Context, id, noteText string) error {
	item, ok := m.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.NoteText = noteText
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type memBlob struct {
	uploads []string
	thumbs  []string
	removed []string
}

func (m *memBlob) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	m.uploads = append(m.uploads, key)
	return "https://signed.example/" + key, nil
}

func (m *memBlob) UploadThumbnail(_ context.Context, key string, _ []byte) string {
	m.thumbs = append(m.thumbs, key)
	return key + "_thumb.jpg"
}

func (m *memBlob) DeleteAnyPath(_ context.Context, name string) error {
	m.removed = append(m.removed, name)
	return nil
}

type countingCascade struct{ calls []string }

func (c *countingCascade) DeleteByMedia(_ context.Context, mediaID string) error {
	c.calls = append(c.calls, mediaID)
	return nil
}

func newMediaFixture() (*Service, *memRepo, *memBlob, *countingCascade) {
	repo := &memRepo{byID: map[string]*models.MediaItem{}}
	blob := &memBlob{}
	cascade := &countingCascade{}
	svc := NewService(repo, blob, 1<<20, zap.NewNop().Sugar(), cascade)
	return svc, repo, blob, cascade
}

var jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 32)...)

func TestUploadImage(t *testing.T) {
	svc, _, blob, _ := newMediaFixture()

	item, err := svc.Upload(context.Background(), owner, "wedding.jpg", "", jpegBytes)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeImage, item.Type)
	assert.Equal(t, "Alice", item.UploadedBy)
	assert.True(t, strings.HasSuffix(item.Name, "_wedding.jpg"))
	assert.NotEmpty(t, item.URL)
	assert.NotEmpty(t, item.ThumbnailKey, "images get a thumbnail")
	require.Len(t, blob.uploads, 1)
	assert.True(t, strings.HasPrefix(blob.uploads[0], "uploads/"))
}

func TestUploadVideoSkipsThumbnail(t *testing.T) {
	svc, _, blob, _ := newMediaFixture()

	item, err := svc.Upload(context.Background(), owner, "dance.mp4", "video/mp4", []byte("not-really-video"))
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, item.Type)
	assert.Empty(t, item.ThumbnailKey)
	assert.Empty(t, blob.thumbs)
}

func TestUploadValidation(t *testing.T) {
	svc, _, _, _ := newMediaFixture()

	_, err := svc.Upload(context.Background(), owner, "x.jpg", "", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Upload(context.Background(), owner, "x.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	big := make([]byte, 2<<20)
	big[0], big[1], big[2] = 0xff, 0xd8, 0xff
	_, err = svc.Upload(context.Background(), owner, "big.jpg", "image/jpeg", big)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUploadSanitizesFilename(t *testing.T) {
	svc, _, _, _ := newMediaFixture()

	item, err := svc.Upload(context.Background(), owner, "../../etc/passwd", "image/jpeg", jpegBytes)
	require.NoError(t, err)
	assert.NotContains(t, item.Name, "/")
}

func TestNoteLifecycle(t *testing.T) {
	svc, repo, _, _ := newMediaFixture()
	ctx := context.Background()

	note, err := svc.AddNote(ctx, owner, "  thanks for coming!  ")
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeNote, note.Type)
	assert.Equal(t, "thanks for coming!", note.NoteText)

	require.NoError(t, svc.EditNote(ctx, owner, note.ID, "updated text"))
	assert.Equal(t, "updated text", repo.byID[note.ID].NoteText)

	err = svc.EditNote(ctx, someone, note.ID, "hijack")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	assert.NoError(t, svc.EditNote(ctx, admin, note.ID, "admin fix"))
}

func TestEditNonNoteRejected(t *testing.T) {
	svc, _, _, _ := newMediaFixture()
	ctx := context.Background()

	item, err := svc.Upload(ctx, owner, "pic.jpg", "image/jpeg", jpegBytes)
	require.NoError(t, err)

	err = svc.EditNote(ctx, owner, item.ID, "caption")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeleteCascades(t *testing.T) {
	svc, repo, blob, cascade := newMediaFixture()
	ctx := context.Background()

	item, err := svc.Upload(ctx, owner, "pic.jpg", "image/jpeg", jpegBytes)
	require.NoError(t, err)

	err = svc.Delete(ctx, someone, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.Delete(ctx, owner, item.ID))
	assert.Empty(t, repo.byID)
	assert.Equal(t, []string{item.Name}, blob.removed)
	assert.Equal(t, []string{item.ID}, cascade.calls)
}

func TestDeleteNoteSkipsBlob(t *testing.T) {
	svc, _, blob, _ := newMediaFixture()
	ctx := context.Background()

	note, err := svc.AddNote(ctx, owner, "bye")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, note.ID))
	assert.Empty(t, blob.removed, "notes have no blob to clean up")
}
