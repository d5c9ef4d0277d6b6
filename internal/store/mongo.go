package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the app.
const (
	ColMedia          = "media"
	ColComments       = "comments"
	ColLikes          = "likes"
	ColStories        = "stories"
	ColStoryViews     = "story_views"
	ColUserProfiles   = "userProfiles"
	ColMediaTags      = "media_tags"
	ColLocationTags   = "location_tags"
	ColNotifications  = "notifications"
	ColSettings       = "settings"
	ColSongOwnerships = "songOwnerships"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}
