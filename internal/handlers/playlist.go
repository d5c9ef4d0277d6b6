package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/middleware"
	"weddingshare/internal/playlist"
	"weddingshare/internal/utils"
)

func (h *Handler) SearchTracks(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tracks, err := h.playlist.Search(c.UserContext(), c.Query("query"), limit)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, tracks)
}

func (h *Handler) PlaylistTracks(c *fiber.Ctx) error {
	entries, err := h.playlist.Tracks(c.UserContext())
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, entries)
}

func (h *Handler) AddPlaylistTrack(c *fiber.Ctx) error {
	var track playlist.Track
	if err := c.BodyParser(&track); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	if err := h.playlist.Add(c.UserContext(), middleware.ActorFrom(c), track); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"added": true})
}

func (h *Handler) RemovePlaylistTrack(c *fiber.Ctx) error {
	err := h.playlist.Remove(c.UserContext(), middleware.ActorFrom(c), c.Params("trackId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"removed": true})
}
