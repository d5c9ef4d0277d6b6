package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/authz"
	"weddingshare/internal/metrics"
	"weddingshare/internal/middleware"
	"weddingshare/internal/utils"
)

// Upload accepts a multipart file or, with a JSON body, a text note.
func (h *Handler) Upload(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)

	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return utils.JSONError(c, fiber.StatusInternalServerError, "cannot open file")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return utils.JSONError(c, fiber.StatusInternalServerError, "cannot read file")
		}
		ct := fileHeader.Header.Get("Content-Type")
		item, err := h.media.Upload(c.UserContext(), actor, fileHeader.Filename, ct, data)
		if err != nil {
			return utils.JSONFromError(c, err)
		}
		metrics.Uploads.Inc()
		return utils.JSONSuccess(c, fiber.StatusCreated, item)
	}

	var body struct {
		NoteText string `json:"noteText"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "file or noteText required")
	}
	item, err := h.media.AddNote(c.UserContext(), actor, body.NoteText)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, item)
}

// Gallery returns the current joined snapshot; the same payload the
// websocket pushes on changes.
func (h *Handler) Gallery(c *fiber.Ctx) error {
	return utils.JSONSuccess(c, fiber.StatusOK, h.gallery.Snapshot())
}

func (h *Handler) EditNote(c *fiber.Ctx) error {
	var body struct {
		NoteText string `json:"noteText"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	err := h.media.EditNote(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), body.NoteText)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"updated": true})
}

func (h *Handler) DeleteMedia(c *fiber.Ctx) error {
	err := h.media.Delete(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// MediaPermissions reports the caller's affordances for one item, from
// the same predicate the write path enforces.
func (h *Handler) MediaPermissions(c *fiber.Ctx) error {
	item, err := h.media.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	perms := authz.PermissionsFor(middleware.ActorFrom(c), item)
	return utils.JSONSuccess(c, fiber.StatusOK, perms)
}
