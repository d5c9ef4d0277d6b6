package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/identity"
	"weddingshare/internal/middleware"
	"weddingshare/internal/models"
	"weddingshare/internal/utils"
)

// AdminLogin exchanges the admin password for a signed session token.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(h.adminPassword)) != 1 {
		return utils.JSONError(c, fiber.StatusUnauthorized, "wrong password")
	}
	token, err := identity.MintAdminToken(h.jwtSecret, time.Duration(h.adminTokenTTL)*time.Second)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"token": token})
}

func (h *Handler) SiteStatus(c *fiber.Ctx) error {
	status, err := h.status.Current(c.UserContext())
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, status)
}

func (h *Handler) UpdateSiteStatus(c *fiber.Ctx) error {
	var body models.SiteStatus
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	actor := middleware.ActorFrom(c)
	if err := h.status.Update(c.UserContext(), &body, actor.UserName); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"updated": true})
}
