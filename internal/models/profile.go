package models

import "time"

// UserProfile is keyed by the (user_name, device_id) composite: the same
// display name on two devices is two distinct profiles.
type UserProfile struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserName       string    `bson:"user_name" json:"userName"`
	DeviceID       string    `bson:"device_id" json:"deviceId"`
	DisplayName    string    `bson:"display_name,omitempty" json:"displayName,omitempty"`
	ProfilePicture string    `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

type Notification struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Type           string    `bson:"type" json:"type"`
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	TargetUser     string    `bson:"target_user" json:"targetUser"`
	TargetDeviceID string    `bson:"target_device_id" json:"targetDeviceId"`
	FromUser       string    `bson:"from_user" json:"fromUser"`
	FromDeviceID   string    `bson:"from_device_id" json:"fromDeviceId"`
	MediaID        string    `bson:"media_id,omitempty" json:"mediaId,omitempty"`
	Read           bool      `bson:"read" json:"read"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

type SongOwnership struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	TrackID         string    `bson:"track_id" json:"trackId"`
	SpotifyTrackURI string    `bson:"spotify_track_uri" json:"spotifyTrackUri"`
	AddedByUser     string    `bson:"added_by_user" json:"addedByUser"`
	AddedByDeviceID string    `bson:"added_by_device_id" json:"addedByDeviceId"`
	AddedAt         time.Time `bson:"added_at" json:"addedAt"`
	PlaylistID      string    `bson:"playlist_id" json:"playlistId"`
}
