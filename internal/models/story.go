package models

import "time"

// StoryTTL is the fixed lifetime of a story from its upload time.
const StoryTTL = 24 * time.Hour

type Story struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	URL         string    `bson:"url,omitempty" json:"url"`
	Type        string    `bson:"type" json:"type"`
	UploadedBy  string    `bson:"uploaded_by" json:"uploadedBy"`
	DeviceID    string    `bson:"device_id" json:"deviceId"`
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploadedAt"`
	ExpiresAt   time.Time `bson:"expires_at" json:"expiresAt"`
	ContentType string    `bson:"content_type,omitempty" json:"contentType,omitempty"`
}

func (s *Story) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// StoryView is the once-only per-device seen marker. It drives the
// seen/unseen indicator and has no bearing on expiry.
type StoryView struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	StoryID  string    `bson:"story_id" json:"storyId"`
	DeviceID string    `bson:"device_id" json:"deviceId"`
	ViewedAt time.Time `bson:"viewed_at" json:"viewedAt"`
}
