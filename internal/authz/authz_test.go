package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weddingshare/internal/identity"
	"weddingshare/internal/models"
)

var (
	alice = identity.Actor{UserName: "Alice", DeviceID: "dev-a"}
	bob   = identity.Actor{UserName: "Bob", DeviceID: "dev-b"}
	admin = identity.Actor{UserName: "Alice", DeviceID: "dev-x", IsAdmin: true}

	// same name on a different device is a different guest
	aliceOtherDevice = identity.Actor{UserName: "Alice", DeviceID: "dev-z"}
)

func TestCanMutateMedia(t *testing.T) {
	item := &models.MediaItem{UploadedBy: "Alice", DeviceID: "dev-a"}

	assert.True(t, CanMutateMedia(alice, item, VerbDelete))
	assert.True(t, CanMutateMedia(admin, item, VerbDelete))
	assert.False(t, CanMutateMedia(bob, item, VerbDelete))
	assert.False(t, CanMutateMedia(aliceOtherDevice, item, VerbDelete))
}

func TestCanDeleteComment(t *testing.T) {
	c := &models.Comment{UserName: "Bob", DeviceID: "dev-b"}

	assert.True(t, CanDeleteComment(bob, c))
	assert.True(t, CanDeleteComment(admin, c))
	assert.False(t, CanDeleteComment(alice, c))
}

func TestCanRemoveMediaTag(t *testing.T) {
	tag := &models.MediaTag{MediaID: "m1", UserName: "Carol", TaggedBy: "Bob"}
	media := &models.MediaItem{ID: "m1", UploadedBy: "Alice", DeviceID: "dev-a"}

	assert.True(t, CanRemoveMediaTag(bob, tag, media), "tag creator")
	assert.True(t, CanRemoveMediaTag(alice, tag, media), "media uploader")
	assert.True(t, CanRemoveMediaTag(admin, tag, media))
	assert.False(t, CanRemoveMediaTag(identity.Actor{UserName: "Carol", DeviceID: "dev-c"}, tag, media),
		"being tagged grants no removal right")
}

func TestCanRemoveMediaTagOrphanedMedia(t *testing.T) {
	tag := &models.MediaTag{MediaID: "gone", TaggedBy: "Bob"}

	// the tagged media is gone; creator and admin still may remove
	assert.True(t, CanRemoveMediaTag(bob, tag, nil))
	assert.True(t, CanRemoveMediaTag(admin, tag, nil))
	assert.False(t, CanRemoveMediaTag(alice, tag, nil))
}

func TestCanRemoveLocationTag(t *testing.T) {
	tag := &models.LocationTag{MediaID: "m1", AddedBy: "Bob"}
	media := &models.MediaItem{ID: "m1", UploadedBy: "Alice", DeviceID: "dev-a"}

	assert.True(t, CanRemoveLocationTag(bob, tag, media))
	assert.True(t, CanRemoveLocationTag(alice, tag, media))
	assert.False(t, CanRemoveLocationTag(identity.Actor{UserName: "Dave", DeviceID: "d"}, tag, media))
}

func TestCanRemovePlaylistTrack(t *testing.T) {
	own := &models.SongOwnership{AddedByUser: "Alice", AddedByDeviceID: "dev-a"}

	assert.True(t, CanRemovePlaylistTrack(alice, own))
	assert.True(t, CanRemovePlaylistTrack(admin, own))
	assert.False(t, CanRemovePlaylistTrack(bob, own))
	assert.False(t, CanRemovePlaylistTrack(aliceOtherDevice, own))

	// no ownership record: track predates the shadow table, admin only
	assert.False(t, CanRemovePlaylistTrack(alice, nil))
	assert.True(t, CanRemovePlaylistTrack(admin, nil))
}

func TestPermissionsFor(t *testing.T) {
	note := &models.MediaItem{Type: models.MediaTypeNote, UploadedBy: "Alice", DeviceID: "dev-a"}
	photo := &models.MediaItem{Type: models.MediaTypeImage, UploadedBy: "Alice", DeviceID: "dev-a"}

	p := PermissionsFor(alice, note)
	assert.True(t, p.CanEdit)
	assert.True(t, p.CanDelete)

	// photos are never editable, only deletable
	p = PermissionsFor(alice, photo)
	assert.False(t, p.CanEdit)
	assert.True(t, p.CanDelete)

	p = PermissionsFor(bob, photo)
	assert.False(t, p.CanEdit)
	assert.False(t, p.CanDelete)

	p = PermissionsFor(admin, photo)
	assert.False(t, p.CanEdit, "even the admin cannot edit a non-note")
	assert.True(t, p.CanDelete)
}
