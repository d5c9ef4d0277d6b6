package handlers

import (
	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/middleware"
	"weddingshare/internal/utils"
)

func (h *Handler) Notifications(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	list, err := h.fanout.List(c.UserContext(), actor.UserName, actor.DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, list)
}

func (h *Handler) UnreadCount(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	count, err := h.fanout.UnreadCount(c.UserContext(), actor.UserName, actor.DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"unreadCount": count})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.fanout.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"read": true})
}

func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	n, err := h.fanout.MarkAllRead(c.UserContext(), actor.UserName, actor.DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"marked": n})
}
