// Package authz holds the ownership predicate gating every mutation.
// It is pure: the same function computes UI affordances and guards the
// server-side write path, so the two can never disagree.
package authz

import (
	"weddingshare/internal/identity"
	"weddingshare/internal/models"
)

type Verb string

const (
	VerbEdit   Verb = "edit"
	VerbDelete Verb = "delete"
)

// CanMutateMedia: admin always; otherwise the uploader may edit (notes)
// and delete their own item.
func CanMutateMedia(actor identity.Actor, m *models.MediaItem, verb Verb) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.Same(m.UploadedBy, m.DeviceID)
}

// CanDeleteComment: admin or the comment's author. Comments have no edit path.
func CanDeleteComment(actor identity.Actor, c *models.Comment) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.Same(c.UserName, c.DeviceID)
}

func CanDeleteLike(actor identity.Actor, l *models.Like) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.Same(l.UserName, l.DeviceID)
}

// CanRemoveMediaTag: admin, the tag's creator, or the uploader of the
// tagged media.
func CanRemoveMediaTag(actor identity.Actor, tag *models.MediaTag, taggedMedia *models.MediaItem) bool {
	if actor.IsAdmin {
		return true
	}
	if actor.UserName == tag.TaggedBy {
		return true
	}
	return taggedMedia != nil && actor.Same(taggedMedia.UploadedBy, taggedMedia.DeviceID)
}

func CanRemoveLocationTag(actor identity.Actor, tag *models.LocationTag, taggedMedia *models.MediaItem) bool {
	if actor.IsAdmin {
		return true
	}
	if actor.UserName == tag.AddedBy {
		return true
	}
	return taggedMedia != nil && actor.Same(taggedMedia.UploadedBy, taggedMedia.DeviceID)
}

func CanDeleteStory(actor identity.Actor, s *models.Story) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.Same(s.UploadedBy, s.DeviceID)
}

// CanRemovePlaylistTrack: admin, or the recorded adder. A track with no
// ownership record predates the bridge and is admin-only.
func CanRemovePlaylistTrack(actor identity.Actor, own *models.SongOwnership) bool {
	if actor.IsAdmin {
		return true
	}
	if own == nil {
		return false
	}
	return actor.Same(own.AddedByUser, own.AddedByDeviceID)
}

// MediaPermissions is the affordance set the UI renders for one item.
type MediaPermissions struct {
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

func PermissionsFor(actor identity.Actor, m *models.MediaItem) MediaPermissions {
	return MediaPermissions{
		CanEdit:   m.IsNote() && CanMutateMedia(actor, m, VerbEdit),
		CanDelete: CanMutateMedia(actor, m, VerbDelete),
	}
}
