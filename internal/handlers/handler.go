package handlers

import (
	"go.uber.org/zap"

	"weddingshare/internal/challenges"
	"weddingshare/internal/gallery"
	"weddingshare/internal/geo"
	"weddingshare/internal/hub"
	"weddingshare/internal/media"
	"weddingshare/internal/notifications"
	"weddingshare/internal/playlist"
	"weddingshare/internal/presence"
	"weddingshare/internal/profiles"
	"weddingshare/internal/sitestatus"
	"weddingshare/internal/social"
	"weddingshare/internal/stories"
)

// Handler bundles every service behind the HTTP surface.
type Handler struct {
	media      *media.Service
	social     *social.Service
	stories    *stories.Service
	gallery    *gallery.Store
	fanout     *notifications.Fanout
	status     *sitestatus.Broadcaster
	playlist   *playlist.Service
	geo        *geo.Service
	profiles   *profiles.Service
	presence   *presence.Store
	challenges *challenges.Service
	hub        *hub.Hub

	adminPassword string
	jwtSecret     string
	adminTokenTTL int64 // seconds
	log           *zap.SugaredLogger
}

type Deps struct {
	Media      *media.Service
	Social     *social.Service
	Stories    *stories.Service
	Gallery    *gallery.Store
	Fanout     *notifications.Fanout
	Status     *sitestatus.Broadcaster
	Playlist   *playlist.Service
	Geo        *geo.Service
	Profiles   *profiles.Service
	Presence   *presence.Store
	Challenges *challenges.Service
	Hub        *hub.Hub

	AdminPassword string
	JWTSecret     string
	AdminTokenTTL int64
	Log           *zap.SugaredLogger
}

func New(d Deps) *Handler {
	return &Handler{
		media:      d.Media,
		social:     d.Social,
		stories:    d.Stories,
		gallery:    d.Gallery,
		fanout:     d.Fanout,
		status:     d.Status,
		playlist:   d.Playlist,
		geo:        d.Geo,
		profiles:   d.Profiles,
		presence:   d.Presence,
		challenges: d.Challenges,
		hub:        d.Hub,

		adminPassword: d.AdminPassword,
		jwtSecret:     d.JWTSecret,
		adminTokenTTL: d.AdminTokenTTL,
		log:           d.Log,
	}
}
