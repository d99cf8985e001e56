package handler

import (
	"errors"
	"time"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/service"
	"go-pos-admin/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type POSHandler struct {
	checkout service.CheckoutService
}

func NewPOSHandler(checkout service.CheckoutService) *POSHandler {
	return &POSHandler{checkout: checkout}
}

// GetCart returns the caller's cart with display totals.
// GET /api/v1/cart
func (h *POSHandler) GetCart(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	cart, err := h.checkout.GetCart(sess.UserID.String())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load cart"})
	}
	return c.JSON(cart)
}

// AddCartItem merges a product into the cart.
// POST /api/v1/cart/items
func (h *POSHandler) AddCartItem(c *fiber.Ctx) error {
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess := session.FromCtx(c)
	cart, err := h.checkout.AddToCart(sess.UserID.String(), req.ProductID, req.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cart)
}

// SetCartItemQuantity replaces a line's quantity; zero or below removes it.
// PUT /api/v1/cart/items/:productID
func (h *POSHandler) SetCartItemQuantity(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess := session.FromCtx(c)
	cart, err := h.checkout.SetCartQuantity(sess.UserID.String(), productID, req.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cart)
}

// RemoveCartItem drops a line.
// DELETE /api/v1/cart/items/:productID
func (h *POSHandler) RemoveCartItem(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	sess := session.FromCtx(c)
	cart, err := h.checkout.RemoveFromCart(sess.UserID.String(), productID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cart)
}

// ClearCart empties the cart without selling anything.
// DELETE /api/v1/cart
func (h *POSHandler) ClearCart(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	h.checkout.ClearCart(sess.UserID.String())
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

// Checkout turns the cart into a sale. Validation failures are 400 before
// any store write; a concurrent submit for the same user is 409; a store
// failure mid-flow is 502 and the cart stays intact for retry.
// POST /api/v1/checkout
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var req struct {
		PaymentMethod model.PaymentMethod `json:"payment_method"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PayCash
	}

	sess := session.FromCtx(c)
	result, err := h.checkout.Checkout(sess.UserID.String(), sess.Name, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutInFlight):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSaleCreateFailed), errors.Is(err, service.ErrLineInsertFailed):
			return c.Status(502).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale completed", "data": result})
}

// GetSales lists all sales, newest first.
// GET /api/v1/sales
func (h *POSHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.checkout.GetAllSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GetSale returns one sale with its lines.
// GET /api/v1/sales/:id
func (h *POSHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.checkout.GetSaleByID(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

// ReconcileSales sweeps line-less sales older than an hour.
// POST /api/v1/sales/reconcile
func (h *POSHandler) ReconcileSales(c *fiber.Ctx) error {
	removed, err := h.checkout.ReconcileOrphanSales(time.Hour)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Reconciliation failed"})
	}
	return c.JSON(fiber.Map{"message": "Reconciliation complete", "removed": removed})
}
