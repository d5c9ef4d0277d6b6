package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/metrics"
	"weddingshare/internal/middleware"
	"weddingshare/internal/utils"
)

func (h *Handler) AddStory(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "file missing")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot open file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot read file")
	}
	story, err := h.stories.Add(c.UserContext(), middleware.ActorFrom(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	metrics.Uploads.Inc()
	return utils.JSONSuccess(c, fiber.StatusCreated, story)
}

// Stories lists unexpired stories with the caller's seen markers.
func (h *Handler) Stories(c *fiber.Ctx) error {
	views, err := h.stories.ActiveFor(c.UserContext(), middleware.ActorFrom(c).DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, views)
}

func (h *Handler) MarkStorySeen(c *fiber.Ctx) error {
	err := h.stories.MarkSeen(c.UserContext(), c.Params("id"), middleware.ActorFrom(c).DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"seen": true})
}

func (h *Handler) DeleteStory(c *fiber.Ctx) error {
	err := h.stories.Delete(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
