package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"weddingshare/internal/metrics"
	"weddingshare/internal/middleware"
)

// Register wires every route. Writes require the identity header pair;
// the site status update additionally requires a verified admin token.
func Register(app *fiber.App, h *Handler, limiter *middleware.IPRateLimiter, jwtSecret string) {
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.Actor(jwtSecret))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api", limiter.Handler())

	// gallery and media
	api.Get("/media", h.Gallery)
	api.Post("/media", middleware.RequireActor, h.Upload)
	api.Patch("/media/:id", middleware.RequireActor, h.EditNote)
	api.Delete("/media/:id", middleware.RequireActor, h.DeleteMedia)
	api.Get("/media/:id/permissions", h.MediaPermissions)

	// comments and likes
	api.Post("/media/:id/comments", middleware.RequireActor, h.AddComment)
	api.Delete("/comments/:commentId", middleware.RequireActor, h.DeleteComment)
	api.Post("/media/:id/likes", middleware.RequireActor, h.ToggleLike)
	api.Delete("/likes/:likeId", middleware.RequireActor, h.DeleteLike)

	// tags
	api.Get("/media/:id/tags", h.MediaTags)
	api.Post("/media/:id/tags", middleware.RequireActor, h.TagUser)
	api.Delete("/tags/:tagId", middleware.RequireActor, h.RemoveTag)
	api.Post("/media/:id/location", middleware.RequireActor, h.AddLocationTag)
	api.Delete("/location-tags/:tagId", middleware.RequireActor, h.RemoveLocationTag)

	// stories
	api.Get("/stories", h.Stories)
	api.Post("/stories", middleware.RequireActor, h.AddStory)
	api.Post("/stories/:id/seen", middleware.RequireActor, h.MarkStorySeen)
	api.Delete("/stories/:id", middleware.RequireActor, h.DeleteStory)

	// notifications
	api.Get("/notifications", middleware.RequireActor, h.Notifications)
	api.Get("/notifications/unread-count", middleware.RequireActor, h.UnreadCount)
	api.Post("/notifications/read-all", middleware.RequireActor, h.MarkAllNotificationsRead)
	api.Patch("/notifications/:id/read", middleware.RequireActor, h.MarkNotificationRead)

	// admin and site status
	api.Post("/admin/login", h.AdminLogin)
	api.Get("/site-status", h.SiteStatus)
	api.Put("/site-status", middleware.RequireAdmin, h.UpdateSiteStatus)

	// playlist
	api.Get("/music/search", h.SearchTracks)
	api.Get("/music/playlist/tracks", h.PlaylistTracks)
	api.Post("/music/playlist/tracks", middleware.RequireActor, h.AddPlaylistTrack)
	api.Delete("/music/playlist/tracks/:trackId", middleware.RequireActor, h.RemovePlaylistTrack)

	// geo
	api.Get("/search-locations", h.SearchLocations)

	// profiles and presence
	api.Get("/profiles", h.ListProfiles)
	api.Get("/profiles/:userName/:deviceId", h.GetProfile)
	api.Put("/profiles", middleware.RequireActor, h.SaveProfile)
	api.Delete("/profiles/:userName/:deviceId", middleware.RequireActor, h.DeleteProfile)
	api.Get("/presence", h.LiveUsers)
	api.Post("/presence/heartbeat", middleware.RequireActor, h.Heartbeat)
	api.Post("/presence/leave", middleware.RequireActor, h.Leave)

	// challenges
	api.Get("/challenges/completions/:userName/:deviceId", h.ChallengeCompletions)
	api.Post("/challenges/toggle", middleware.RequireActor, h.ToggleChallenge)
	api.Get("/challenges/leaderboard", h.ChallengeLeaderboard)

	// live subscriptions
	app.Use("/ws", WSUpgrade)
	app.Get("/ws", h.Subscribe())
}
