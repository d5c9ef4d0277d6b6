package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/identity"
	"weddingshare/internal/utils"
)

const actorKey = "actor"

// Actor builds the request's Actor once from the identity headers and
// the (optional) admin bearer token, and threads it through locals.
// The admin flag is only ever set from a verified token.
func Actor(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := identity.Actor{
			UserName: c.Get("X-User-Name"),
			DeviceID: c.Get("X-Device-Id"),
		}
		if token := bearerToken(c); token != "" {
			if err := identity.VerifyAdminToken(jwtSecret, token); err == nil {
				actor.IsAdmin = true
			}
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// RequireActor rejects requests without a complete identity pair.
func RequireActor(c *fiber.Ctx) error {
	if !ActorFrom(c).Valid() {
		return utils.JSONError(c, fiber.StatusBadRequest, "missing X-User-Name or X-Device-Id")
	}
	return c.Next()
}

// RequireAdmin rejects requests without a verified admin token.
func RequireAdmin(c *fiber.Ctx) error {
	if !ActorFrom(c).IsAdmin {
		return utils.JSONError(c, fiber.StatusForbidden, "admin only")
	}
	return c.Next()
}

func ActorFrom(c *fiber.Ctx) identity.Actor {
	if a, ok := c.Locals(actorKey).(identity.Actor); ok {
		return a
	}
	return identity.Actor{}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
