package handler

import (
	"strconv"

	"go-pos-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats returns the overview card numbers
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetRevenueSeries returns the per-day sales chart data
// GET /api/v1/dashboard/revenue?days=30
func (h *DashboardHandler) GetRevenueSeries(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 || days > 366 {
		days = 30
	}

	series, err := h.dashboard.GetRevenueSeries(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch revenue series"})
	}
	return c.JSON(series)
}
