package handler

import (
	"time"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/internal/session"
	"go-pos-admin/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BackofficeHandler serves the plain record-editing screens: customers,
// branches, and service offerings. These are thin enough to sit straight
// on their repositories.
type BackofficeHandler struct {
	customerRepo repository.CustomerRepository
	branchRepo   repository.BranchRepository
	offeringRepo repository.OfferingRepository
}

func NewBackofficeHandler(customerRepo repository.CustomerRepository, branchRepo repository.BranchRepository, offeringRepo repository.OfferingRepository) *BackofficeHandler {
	return &BackofficeHandler{
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		offeringRepo: offeringRepo,
	}
}

func validationError(c *fiber.Ctx, errs []*validator.ErrorResponse) error {
	first := errs[0]
	return c.Status(400).JSON(fiber.Map{
		"error": "Validation failed: field '" + first.FailedField + "' failed on tag '" + first.Tag + "'",
	})
}

// ---- Customers ----

// GET /api/v1/customers
func (h *BackofficeHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.customerRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch customers"})
	}
	return c.JSON(customers)
}

// POST /api/v1/customers
func (h *BackofficeHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&customer); len(errs) > 0 {
		return validationError(c, errs)
	}
	if existing, _ := h.customerRepo.FindByCode(customer.Code); existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "Customer code already exists"})
	}

	sess := session.FromCtx(c)
	customer.CreatedBy = sess.UserID.String()
	customer.UpdatedBy = sess.UserID.String()
	if customer.JoinedAt.IsZero() {
		customer.JoinedAt = time.Now()
	}

	if err := h.customerRepo.Create(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

// PUT /api/v1/customers/:id
func (h *BackofficeHandler) UpdateCustomer(c *fiber.Ctx) error {
	customerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	existing, err := h.customerRepo.FindByID(customerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}

	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return validationError(c, errs)
	}

	sess := session.FromCtx(c)
	existing.Code = req.Code
	existing.Name = req.Name
	existing.BranchName = req.BranchName
	existing.Contact = req.Contact
	existing.TotalOrders = req.TotalOrders
	existing.LifetimeCents = req.LifetimeCents
	existing.DiscountPercent = req.DiscountPercent
	existing.Pages = req.Pages
	existing.UpdatedBy = sess.UserID.String()

	if err := h.customerRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": existing})
}

// DELETE /api/v1/customers/:id
func (h *BackofficeHandler) DeleteCustomer(c *fiber.Ctx) error {
	customerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	if err := h.customerRepo.Delete(customerID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

// ---- Branches ----

// GET /api/v1/branches
func (h *BackofficeHandler) GetBranches(c *fiber.Ctx) error {
	branches, err := h.branchRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch branches"})
	}
	return c.JSON(branches)
}

// POST /api/v1/branches
func (h *BackofficeHandler) CreateBranch(c *fiber.Ctx) error {
	var branch model.Branch
	if err := c.BodyParser(&branch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&branch); len(errs) > 0 {
		return validationError(c, errs)
	}

	sess := session.FromCtx(c)
	branch.CreatedBy = sess.UserID.String()
	branch.UpdatedBy = sess.UserID.String()

	if err := h.branchRepo.Create(&branch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Branch created", "data": branch})
}

// PUT /api/v1/branches/:id
func (h *BackofficeHandler) UpdateBranch(c *fiber.Ctx) error {
	branchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	existing, err := h.branchRepo.FindByID(branchID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Branch not found"})
	}

	var req model.Branch
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return validationError(c, errs)
	}

	sess := session.FromCtx(c)
	existing.Name = req.Name
	existing.Link = req.Link
	existing.UpdatedBy = sess.UserID.String()

	if err := h.branchRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Branch updated", "data": existing})
}

// DELETE /api/v1/branches/:id
func (h *BackofficeHandler) DeleteBranch(c *fiber.Ctx) error {
	branchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	if err := h.branchRepo.Delete(branchID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Branch deleted"})
}

// ---- Service offerings ----

// GET /api/v1/offerings
func (h *BackofficeHandler) GetOfferings(c *fiber.Ctx) error {
	offerings, err := h.offeringRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch offerings"})
	}
	return c.JSON(offerings)
}

// POST /api/v1/offerings
func (h *BackofficeHandler) CreateOffering(c *fiber.Ctx) error {
	var offering model.Offering
	if err := c.BodyParser(&offering); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&offering); len(errs) > 0 {
		return validationError(c, errs)
	}
	if existing, _ := h.offeringRepo.FindByCode(offering.Code); existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "Offering code already exists"})
	}

	sess := session.FromCtx(c)
	offering.CreatedBy = sess.UserID.String()
	offering.UpdatedBy = sess.UserID.String()

	if err := h.offeringRepo.Create(&offering); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Offering created", "data": offering})
}

// PUT /api/v1/offerings/:id
func (h *BackofficeHandler) UpdateOffering(c *fiber.Ctx) error {
	offeringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid offering ID"})
	}

	existing, err := h.offeringRepo.FindByID(offeringID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Offering not found"})
	}

	var req model.Offering
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return validationError(c, errs)
	}

	sess := session.FromCtx(c)
	existing.Code = req.Code
	existing.Name = req.Name
	existing.UpdatedBy = sess.UserID.String()

	if err := h.offeringRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Offering updated", "data": existing})
}

// DELETE /api/v1/offerings/:id
func (h *BackofficeHandler) DeleteOffering(c *fiber.Ctx) error {
	offeringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid offering ID"})
	}
	if err := h.offeringRepo.Delete(offeringID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Offering deleted"})
}
