package models

import "time"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeNote  = "note"
)

type MediaItem struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	URL           string    `bson:"url,omitempty" json:"url"`
	Type          string    `bson:"type" json:"type"`
	NoteText      string    `bson:"note_text,omitempty" json:"noteText,omitempty"`
	UploadedBy    string    `bson:"uploaded_by" json:"uploadedBy"`
	DeviceID      string    `bson:"device_id" json:"deviceId"`
	UploadedAt    time.Time `bson:"uploaded_at" json:"uploadedAt"`
	Size          int64     `bson:"size,omitempty" json:"size,omitempty"`
	ContentType   string    `bson:"content_type,omitempty" json:"contentType,omitempty"`
	ThumbnailKey  string    `bson:"thumbnail_key,omitempty" json:"thumbnailKey,omitempty"`
	IsUnavailable bool      `bson:"-" json:"isUnavailable,omitempty"`
}

func (m *MediaItem) IsNote() bool { return m.Type == MediaTypeNote }

type Comment struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	MediaID   string    `bson:"media_id" json:"mediaId"`
	Text      string    `bson:"text" json:"text"`
	UserName  string    `bson:"user_name" json:"userName"`
	DeviceID  string    `bson:"device_id" json:"deviceId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type Like struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	MediaID   string    `bson:"media_id" json:"mediaId"`
	UserName  string    `bson:"user_name" json:"userName"`
	DeviceID  string    `bson:"device_id" json:"deviceId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type MediaTag struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	MediaID   string    `bson:"media_id" json:"mediaId"`
	UserName  string    `bson:"user_name" json:"userName"`
	DeviceID  string    `bson:"device_id" json:"deviceId"`
	TaggedBy  string    `bson:"tagged_by" json:"taggedBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type LocationTag struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	MediaID   string    `bson:"media_id" json:"mediaId"`
	Name      string    `bson:"name" json:"name"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	PlaceID   string    `bson:"place_id,omitempty" json:"placeId,omitempty"`
	Latitude  float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	AddedBy   string    `bson:"added_by" json:"addedBy"`
	DeviceID  string    `bson:"device_id" json:"deviceId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
