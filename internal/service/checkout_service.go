package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrUnknownProduct   = errors.New("product not found in catalog")
	ErrInactiveProduct  = errors.New("product is not available for sale")
	ErrCheckoutInFlight = errors.New("a checkout is already in progress")
	ErrInvalidPayment   = errors.New("unsupported payment method")
	ErrSaleCreateFailed = errors.New("sale creation failed")
	ErrLineInsertFailed = errors.New("sale line insertion failed")
)

// CartLine is a cart entry resolved against the catalog, priced for
// display.
type CartLine struct {
	Product       model.Product `json:"product"`
	Quantity      int           `json:"quantity"`
	SubtotalCents int64         `json:"subtotal_cents"`
}

// CartSummary is the read model of the active cart with totals.
type CartSummary struct {
	Lines         []CartLine `json:"lines"`
	SubtotalCents int64      `json:"subtotal_cents"`
	TaxCents      int64      `json:"tax_cents"`
	TotalCents    int64      `json:"total_cents"`
}

// CheckoutResult reports the persisted sale plus any products whose stock
// decrement failed. A non-empty failure list does not negate the sale.
type CheckoutResult struct {
	Sale                  *model.Sale `json:"sale"`
	FailedStockProductIDs []uuid.UUID `json:"failed_stock_product_ids"`
}

type CheckoutService interface {
	AddToCart(userID string, productID uuid.UUID, quantity int) (*CartSummary, error)
	SetCartQuantity(userID string, productID uuid.UUID, quantity int) (*CartSummary, error)
	RemoveFromCart(userID string, productID uuid.UUID) (*CartSummary, error)
	GetCart(userID string) (*CartSummary, error)
	ClearCart(userID string)
	Checkout(userID, userName string, method model.PaymentMethod) (*CheckoutResult, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
	ReconcileOrphanSales(olderThan time.Duration) (int64, error)
}

type checkoutService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	carts       *model.CartStore
	wsHub       *ws.Hub
	taxBasisPts int64

	// inFlight holds the users with a checkout mid-run; a second submit
	// for the same user is rejected instead of creating a second sale.
	inFlightMu sync.Mutex
	inFlight   map[string]struct{}
}

func NewCheckoutService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, carts *model.CartStore, hub *ws.Hub, taxBasisPoints int64) CheckoutService {
	if taxBasisPoints <= 0 {
		taxBasisPoints = model.DefaultTaxRateBasisPoints
	}
	return &checkoutService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		carts:       carts,
		wsHub:       hub,
		taxBasisPts: taxBasisPoints,
		inFlight:    make(map[string]struct{}),
	}
}

func (s *checkoutService) AddToCart(userID string, productID uuid.UUID, quantity int) (*CartSummary, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrUnknownProduct
	}
	if !product.Active {
		return nil, ErrInactiveProduct
	}

	s.carts.Get(userID).Add(productID, quantity)
	return s.GetCart(userID)
}

func (s *checkoutService) SetCartQuantity(userID string, productID uuid.UUID, quantity int) (*CartSummary, error) {
	s.carts.Get(userID).SetQuantity(productID, quantity)
	return s.GetCart(userID)
}

func (s *checkoutService) RemoveFromCart(userID string, productID uuid.UUID) (*CartSummary, error) {
	s.carts.Get(userID).Remove(productID)
	return s.GetCart(userID)
}

func (s *checkoutService) ClearCart(userID string) {
	s.carts.Get(userID).Clear()
}

// GetCart resolves the cart against the catalog and computes display
// totals. Lines whose product vanished from the catalog are dropped from
// the view rather than priced at zero; any other store failure surfaces
// instead of silently shrinking the cart.
func (s *checkoutService) GetCart(userID string) (*CartSummary, error) {
	summary := &CartSummary{Lines: []CartLine{}}

	for _, item := range s.carts.Get(userID).Items() {
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		line := CartLine{
			Product:       *product,
			Quantity:      item.Quantity,
			SubtotalCents: model.LineSubtotalCents(product.PriceCents, item.Quantity),
		}
		summary.Lines = append(summary.Lines, line)
		summary.SubtotalCents += line.SubtotalCents
	}

	summary.TaxCents = model.TaxCents(summary.SubtotalCents, s.taxBasisPts)
	summary.TotalCents = model.GrandTotalCents(summary.SubtotalCents, summary.TaxCents)
	return summary, nil
}

// Checkout turns the user's cart into a durable Sale plus SaleLines and
// then decrements stock per line, best effort. The steps run strictly in
// order and none of them roll a previous step back: a line-insert failure
// leaves an orphaned sale for ReconcileOrphanSales, a decrement failure is
// reported per product without aborting its siblings.
func (s *checkoutService) Checkout(userID, userName string, method model.PaymentMethod) (*CheckoutResult, error) {
	switch method {
	case model.PayCash, model.PayCard, model.PayEWallet:
	default:
		return nil, ErrInvalidPayment
	}

	if !s.beginCheckout(userID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.endCheckout(userID)

	cart := s.carts.Get(userID)
	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Resolve and price every line before touching the store.
	lines := make([]model.SaleLine, 0, len(items))
	var subtotal int64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, item.ProductID)
		}
		if !product.Active {
			return nil, fmt.Errorf("%w: %s", ErrInactiveProduct, product.Name)
		}
		lineSubtotal := model.LineSubtotalCents(product.PriceCents, item.Quantity)
		lines = append(lines, model.SaleLine{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
			SubtotalCents:  lineSubtotal,
		})
		subtotal += lineSubtotal
	}

	tax := model.TaxCents(subtotal, s.taxBasisPts)
	sale := &model.Sale{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    model.GrandTotalCents(subtotal, tax),
		PaymentMethod: method,
	}
	sale.CreatedBy = userID
	sale.UpdatedBy = userID
	sale.CreatedByUserID = &userID

	// Step 1: the sale row. Failure aborts everything; the cart survives
	// so the cashier can retry.
	if err := s.saleRepo.Create(sale); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaleCreateFailed, err)
	}

	// Step 2: the lines. Failure aborts the remaining steps; the sale row
	// already exists and is left for reconciliation.
	for i := range lines {
		lines[i].SaleID = sale.ID
		lines[i].CreatedBy = userID
		lines[i].UpdatedBy = userID
	}
	if err := s.saleRepo.CreateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLineInsertFailed, err)
	}

	// Sale and lines are durable; the cart is done regardless of how the
	// decrements go.
	cart.Clear()

	// Step 3: per-line stock decrements, each attempted independently.
	var failed []uuid.UUID
	for _, line := range lines {
		if err := s.productRepo.DecrementStock(line.ProductID, line.Quantity); err != nil {
			failed = append(failed, line.ProductID)
		}
	}

	sale.Lines = lines
	result := &CheckoutResult{Sale: sale, FailedStockProductIDs: failed}

	go s.wsHub.BroadcastEvent("sale_completed", map[string]interface{}{
		"sale_id":                  sale.ID,
		"total_cents":              sale.TotalCents,
		"payment_method":           sale.PaymentMethod,
		"failed_stock_product_ids": failed,
		"cashier":                  userName,
		"message":                  fmt.Sprintf("%s completed a sale of %d item(s)", userName, len(lines)),
	})

	return result, nil
}

func (s *checkoutService) beginCheckout(userID string) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *checkoutService) endCheckout(userID string) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	delete(s.inFlight, userID)
}

func (s *checkoutService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *checkoutService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}

// ReconcileOrphanSales deletes line-less sales older than the cutoff.
// Admin-triggered; there is no background sweep.
func (s *checkoutService) ReconcileOrphanSales(olderThan time.Duration) (int64, error) {
	return s.saleRepo.DeleteOrphans(time.Now().Add(-olderThan))
}
