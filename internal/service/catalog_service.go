package service

import (
	"errors"
	"fmt"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/internal/ws"
	"go-pos-admin/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSKUExists = errors.New("SKU already exists")

type CatalogService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	GetActiveProducts() ([]model.Product, error)
	GetAllProducts() ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "product_created",
		"product": map[string]interface{}{
			"id":          req.ID,
			"sku":         req.SKU,
			"name":        req.Name,
			"stock_qty":   req.StockQty,
			"price_cents": req.PriceCents,
		},
		"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
	})

	return nil
}

// UpdateProduct edits a catalog entry, holding the row lock so a
// back-office stock correction does not interleave with another edit.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return errors.New("product not found")
		}

		oldStock := existing.StockQty

		existing.SKU = req.SKU
		existing.Name = req.Name
		existing.Category = req.Category
		existing.PriceCents = req.PriceCents
		existing.StockQty = req.StockQty
		existing.ImageURL = req.ImageURL
		existing.Active = req.Active
		existing.UpdatedBy = userID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing

		go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
			"action": "product_updated",
			"product": map[string]interface{}{
				"id":          existing.ID,
				"sku":         existing.SKU,
				"name":        existing.Name,
				"old_stock":   oldStock,
				"new_stock":   existing.StockQty,
				"price_cents": existing.PriceCents,
			},
			"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *catalogService) GetActiveProducts() ([]model.Product, error) {
	return s.productRepo.FindActive()
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}
