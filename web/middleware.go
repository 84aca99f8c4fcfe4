package web

import (
	"strings"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const sessionKey = "session"

// authRequired resolves the bearer token into a session stored in the request locals
func (s *Server) authRequired(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	session, err := s.deps.Accounts.Authenticate(strings.TrimSpace(token))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session")
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// adminRequired refuses sessions without the admin claim.
// The admin console re-checks the stored capability on every call.
func adminRequired(c *fiber.Ctx) error {
	if !currentSession(c).Admin {
		return entities.ErrUnauthorized
	}
	return c.Next()
}

func currentSession(c *fiber.Ctx) *entities.Session {
	session, ok := c.Locals(sessionKey).(*entities.Session)
	if !ok {
		return &entities.Session{}
	}
	return session
}

func adminActor(c *fiber.Ctx) interfaces.AdminActor {
	return interfaces.AdminActor{
		AccountID: currentSession(c).AccountID,
		Source:    entities.AuditSourceHTTP,
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.WithFields(log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}).Debug("HTTP request")
		return err
	}
}
