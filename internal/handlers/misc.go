package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/middleware"
	"weddingshare/internal/models"
	"weddingshare/internal/utils"
)

// SearchLocations proxies the places/geocoding fallback chain. Total
// failure is an empty result set, never an error status.
func (h *Handler) SearchLocations(c *fiber.Ctx) error {
	lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
	lng, _ := strconv.ParseFloat(c.Query("lng"), 64)
	results := h.geo.Search(c.UserContext(), c.Query("query"), lat, lng)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"results": results})
}

func (h *Handler) SaveProfile(c *fiber.Ctx) error {
	var body models.UserProfile
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	actor := middleware.ActorFrom(c)
	body.UserName = actor.UserName
	body.DeviceID = actor.DeviceID
	if err := h.profiles.Save(c.UserContext(), &body); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"saved": true})
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	p, err := h.profiles.Get(c.UserContext(), c.Params("userName"), c.Params("deviceId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, p)
}

func (h *Handler) ListProfiles(c *fiber.Ctx) error {
	list, err := h.profiles.List(c.UserContext())
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, list)
}

// DeleteProfile removes the caller's own profile; the admin may remove
// anyone's.
func (h *Handler) DeleteProfile(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	userName, deviceID := c.Params("userName"), c.Params("deviceId")
	if !actor.IsAdmin && !actor.Same(userName, deviceID) {
		return utils.JSONError(c, fiber.StatusForbidden, "permission denied")
	}
	if err := h.profiles.Delete(c.UserContext(), userName, deviceID); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *Handler) Heartbeat(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if err := h.presence.Heartbeat(c.UserContext(), actor.UserName, actor.DeviceID); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"live": true})
}

// Leave drops the caller's presence immediately instead of waiting for
// the heartbeat TTL to lapse.
func (h *Handler) Leave(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if err := h.presence.Leave(c.UserContext(), actor.UserName, actor.DeviceID); err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"live": false})
}

func (h *Handler) LiveUsers(c *fiber.Ctx) error {
	users, err := h.presence.Live(c.UserContext())
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, users)
}

func (h *Handler) ChallengeCompletions(c *fiber.Ctx) error {
	rows, err := h.challenges.Completions(c.UserContext(), c.Params("userName"), c.Params("deviceId"))
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}

func (h *Handler) ToggleChallenge(c *fiber.Ctx) error {
	var body struct {
		ChallengeID string `json:"challengeId"`
		UserName    string `json:"userName"`
		DeviceID    string `json:"deviceId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "bad body")
	}
	if body.UserName == "" {
		actor := middleware.ActorFrom(c)
		body.UserName, body.DeviceID = actor.UserName, actor.DeviceID
	}
	completed, err := h.challenges.Toggle(c.UserContext(), body.ChallengeID, body.UserName, body.DeviceID)
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"completed": completed})
}

func (h *Handler) ChallengeLeaderboard(c *fiber.Ctx) error {
	rows, err := h.challenges.Leaderboard(c.UserContext())
	if err != nil {
		return utils.JSONFromError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}
