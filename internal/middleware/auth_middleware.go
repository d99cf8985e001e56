package middleware

import (
	"strings"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/internal/session"
	"go-pos-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token, re-checks the account against the
// store, and attaches an explicit session to the request. Inactive accounts
// are rejected here, before any permission question is ever asked.
func RequireAuth(adminRepo repository.AdminUserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := adminRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.Status != model.StatusActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is inactive"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		// Permissions come from the store, not the token, so a revocation
		// lands on the next request.
		session.Store(c, &session.Session{
			UserID:      user.ID,
			Email:       user.Email,
			Name:        user.Name,
			Role:        user.Role,
			Permissions: user.Permissions.Clone(),
		})

		return c.Next()
	}
}

// RequireView gates a route group on one view grant. Missing or unknown
// views deny; the response is an in-place "no access" body, not a redirect.
func RequireView(view model.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := session.FromCtx(c)
		if sess == nil {
			return c.Status(403).JSON(fiber.Map{"error": "No session found"})
		}

		if !sess.CanAccess(view) {
			return c.Status(403).JSON(fiber.Map{
				"error": "No access to the '" + string(view) + "' view",
			})
		}

		return c.Next()
	}
}

// RequireAnyView passes when at least one of the listed views is granted.
func RequireAnyView(views ...model.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := session.FromCtx(c)
		if sess == nil {
			return c.Status(403).JSON(fiber.Map{"error": "No session found"})
		}

		for _, v := range views {
			if sess.CanAccess(v) {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{"error": "No access to this section"})
	}
}
