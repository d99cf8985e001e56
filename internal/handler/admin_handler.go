package handler

import (
	"go-pos-admin/internal/service"
	"go-pos-admin/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetAdmins returns all admin accounts
// GET /api/v1/admins
func (h *AdminHandler) GetAdmins(c *fiber.Ctx) error {
	admins, err := h.adminService.GetAllAdmins()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch admin users"})
	}
	return c.JSON(admins)
}

// GetAdmin returns a single admin account by ID
// GET /api/v1/admins/:id
func (h *AdminHandler) GetAdmin(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	admin, err := h.adminService.GetAdminByID(userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Admin user not found"})
	}

	return c.JSON(admin)
}

// CreateAdmin handles admin account creation
// POST /api/v1/admins
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req service.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess := session.FromCtx(c)
	admin, err := h.adminService.CreateAdmin(&req, sess.UserID.String())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Admin user created successfully",
		"data":    admin.ToResponse(),
	})
}

// UpdateAdmin handles admin account update
// PUT /api/v1/admins/:id
func (h *AdminHandler) UpdateAdmin(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req service.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess := session.FromCtx(c)
	admin, err := h.adminService.UpdateAdmin(userID, &req, sess.UserID.String())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Admin user updated successfully",
		"data":    admin.ToResponse(),
	})
}

// DeleteAdmin removes an admin account
// DELETE /api/v1/admins/:id
func (h *AdminHandler) DeleteAdmin(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	sess := session.FromCtx(c)
	if sess.UserID == userID {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot delete your own account"})
	}

	if err := h.adminService.DeleteAdmin(userID, sess.UserID.String()); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Admin user deleted successfully"})
}

// ReplacePermissions swaps an account's whole view-permission mapping
// PUT /api/v1/admins/:id/permissions
func (h *AdminHandler) ReplacePermissions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Permissions map[string]bool `json:"permissions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess := session.FromCtx(c)
	admin, err := h.adminService.ReplacePermissions(userID, req.Permissions, sess.UserID.String())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Permissions updated successfully",
		"data":    admin.ToResponse(),
	})
}
