package session

import (
	"go-pos-admin/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// localsKey is the single fiber.Locals slot holding the session, instead of
// scattering user fields across ambient keys.
const localsKey = "session"

// Session is the explicit per-request context for a signed-in admin. It is
// built by the auth middleware after the token and account-status checks
// pass and is discarded with the request.
type Session struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	Role        model.AdminRole
	Permissions model.PermissionSet
}

// CanAccess is the fail-closed view gate for this session.
func (s *Session) CanAccess(view model.View) bool {
	return s.Permissions.Allows(view)
}

// Store attaches the session to the request context.
func Store(c *fiber.Ctx, s *Session) {
	c.Locals(localsKey, s)
}

// FromCtx returns the request's session, or nil outside authenticated
// routes.
func FromCtx(c *fiber.Ctx) *Session {
	s, _ := c.Locals(localsKey).(*Session)
	return s
}
