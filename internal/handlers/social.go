package handlers

import (
	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/middleware"
	"weddingshare/internal/models"
	"weddingshare/internal/utils"
)

func (h *Handler) AddComment(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	comment, err := h.social.AddComment(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), body.Text)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, comment)
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	err := h.social.DeleteComment(c.UserContext(), middleware.ActorFrom(c), c.Params("commentId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *Handler) ToggleLike(c *fiber.Ctx) error {
	liked, err := h.social.ToggleLike(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"liked": liked})
}

// DeleteLike removes a like by id, for moderation; guests normally
// toggle instead.
func (h *Handler) DeleteLike(c *fiber.Ctx) error {
	err := h.social.DeleteLike(c.UserContext(), middleware.ActorFrom(c), c.Params("likeId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *Handler) TagUser(c *fiber.Ctx) error {
	var body struct {
		UserName string `json:"userName"`
		DeviceID string `json:"deviceId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	tag, err := h.social.TagUser(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), body.UserName, body.DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, tag)
}

func (h *Handler) RemoveTag(c *fiber.Ctx) error {
	err := h.social.RemoveTag(c.UserContext(), middleware.ActorFrom(c), c.Params("tagId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *Handler) AddLocationTag(c *fiber.Ctx) error {
	var tag models.LocationTag
	if err := c.BodyParser(&tag); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	tag.MediaID = c.Params("id")
	saved, err := h.social.AddLocationTag(c.UserContext(), middleware.ActorFrom(c), &tag)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, saved)
}

func (h *Handler) RemoveLocationTag(c *fiber.Ctx) error {
	err := h.social.RemoveLocationTag(c.UserContext(), middleware.ActorFrom(c), c.Params("tagId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *Handler) MediaTags(c *fiber.Ctx) error {
	tags, locations, err := h.social.TagsForMedia(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"tags": tags, "locationTags": locations})
}
