package service

import (
	"errors"
	"testing"
	"time"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducts() (model.Product, model.Product) {
	americano := model.Product{
		SKU: "COF-AME", Name: "Americano", Category: "Coffee",
		PriceCents: 250, StockQty: 10, Active: true,
	}
	americano.ID = uuid.New()

	latte := model.Product{
		SKU: "COF-LAT", Name: "Latte", Category: "Coffee",
		PriceCents: 350, StockQty: 10, Active: true,
	}
	latte.ID = uuid.New()

	return americano, latte
}

func newTestCheckout(pRepo *fakeProductRepo, sRepo *fakeSaleRepo) CheckoutService {
	hub := ws.NewHub()
	go hub.Run()
	return NewCheckoutService(pRepo, sRepo, model.NewCartStore(), hub, model.DefaultTaxRateBasisPoints)
}

func TestCheckoutEmptyCart(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	result, err := svc.Checkout("cashier-1", "Cashier", model.PayCash)

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)
	assert.Equal(t, 0, sRepo.saleCount(), "no sale may be created for an empty cart")
	assert.Empty(t, pRepo.decrements)
	assert.Equal(t, 0, pRepo.findCalls, "empty cart must be rejected before any store access")
}

func TestCheckoutTotals(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart("cashier-1", latte.ID, 1)
	require.NoError(t, err)

	result, err := svc.Checkout("cashier-1", "Cashier", model.PayCard)
	require.NoError(t, err)

	// 2 x 2.50 + 1 x 3.50 = 8.50 pre-tax; 8% tax = 0.68; total 9.18.
	assert.Equal(t, int64(850), result.Sale.SubtotalCents)
	assert.Equal(t, int64(68), result.Sale.TaxCents)
	assert.Equal(t, int64(918), result.Sale.TotalCents)
	assert.Equal(t, model.PayCard, result.Sale.PaymentMethod)
	assert.Len(t, result.Sale.Lines, 2)
	assert.Empty(t, result.FailedStockProductIDs)
}

func TestCheckoutFreezesUnitPrice(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 1)
	require.NoError(t, err)

	result, err := svc.Checkout("cashier-1", "Cashier", model.PayCash)
	require.NoError(t, err)
	require.Len(t, result.Sale.Lines, 1)

	// Raise the catalog price after the sale; the persisted line must not
	// move.
	repriced := americano
	repriced.PriceCents = 999
	require.NoError(t, pRepo.Update(&repriced))

	assert.Equal(t, int64(250), result.Sale.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(250), result.Sale.SubtotalCents)
}

func TestCheckoutDecrementsStock(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 3)
	require.NoError(t, err)

	_, err = svc.Checkout("cashier-1", "Cashier", model.PayCash)
	require.NoError(t, err)

	assert.Equal(t, 7, pRepo.stockOf(americano.ID))
}

func TestCheckoutPartialDecrementFailure(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	pRepo.failDecPerID[latte.ID] = errors.New("network unreachable")
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart("cashier-1", latte.ID, 1)
	require.NoError(t, err)

	result, err := svc.Checkout("cashier-1", "Cashier", model.PayCash)

	// The sale stands; exactly the failing product is reported.
	require.NoError(t, err)
	assert.Equal(t, 1, sRepo.saleCount())
	require.Len(t, result.FailedStockProductIDs, 1)
	assert.Equal(t, latte.ID, result.FailedStockProductIDs[0])

	// Both decrements were attempted; the healthy line was applied.
	assert.Len(t, pRepo.decrements, 2)
	assert.Equal(t, 9, pRepo.stockOf(americano.ID))

	// The cart is gone: sale and lines are durable.
	cart, err := svc.GetCart("cashier-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCheckoutSaleInsertFailureKeepsCart(t *testing.T) {
	americano, _ := newTestProducts()
	pRepo := newFakeProductRepo(americano)
	sRepo := newFakeSaleRepo()
	sRepo.failCreate = errors.New("connection reset")
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 2)
	require.NoError(t, err)

	_, err = svc.Checkout("cashier-1", "Cashier", model.PayCash)
	require.ErrorIs(t, err, ErrSaleCreateFailed)

	// Nothing was decremented and the cart is intact for a retry.
	assert.Empty(t, pRepo.decrements)
	cart, err := svc.GetCart("cashier-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestCheckoutLineInsertFailureLeavesOrphan(t *testing.T) {
	americano, _ := newTestProducts()
	pRepo := newFakeProductRepo(americano)
	sRepo := newFakeSaleRepo()
	sRepo.failLines = errors.New("constraint violation")
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 1)
	require.NoError(t, err)

	_, err = svc.Checkout("cashier-1", "Cashier", model.PayCash)
	require.ErrorIs(t, err, ErrLineInsertFailed)

	// The sale row exists without lines and no stock moved.
	assert.Equal(t, 1, sRepo.saleCount())
	assert.Empty(t, pRepo.decrements)

	// The cart survives the failure.
	cart, err := svc.GetCart("cashier-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)

	// The reconciliation sweep removes the orphan once it is old enough.
	removed, err := svc.ReconcileOrphanSales(-time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 0, sRepo.saleCount())
}

func TestCheckoutDoubleSubmitGuard(t *testing.T) {
	americano, _ := newTestProducts()
	pRepo := newFakeProductRepo(americano)
	sRepo := newFakeSaleRepo()
	sRepo.createEnter = make(chan struct{}, 1)
	sRepo.createGate = make(chan struct{})
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 1)
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Checkout("cashier-1", "Cashier", model.PayCash)
		firstDone <- err
	}()

	// Wait until the first checkout is inside the sale insert, then fire
	// the second click.
	<-sRepo.createEnter
	_, err = svc.Checkout("cashier-1", "Cashier", model.PayCash)
	require.ErrorIs(t, err, ErrCheckoutInFlight)

	close(sRepo.createGate)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, sRepo.saleCount(), "rapid double submit must create exactly one sale")
}

func TestCheckoutRejectsUnknownPayment(t *testing.T) {
	americano, _ := newTestProducts()
	pRepo := newFakeProductRepo(americano)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 1)
	require.NoError(t, err)

	_, err = svc.Checkout("cashier-1", "Cashier", model.PaymentMethod("IOU"))
	require.ErrorIs(t, err, ErrInvalidPayment)
	assert.Equal(t, 0, sRepo.saleCount())
}

func TestAddToCartValidation(t *testing.T) {
	americano, _ := newTestProducts()
	inactive := model.Product{SKU: "OLD-1", Name: "Retired", PriceCents: 100, Active: false}
	inactive.ID = uuid.New()

	pRepo := newFakeProductRepo(americano, inactive)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddToCart("cashier-1", uuid.New(), 1)
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = svc.AddToCart("cashier-1", inactive.ID, 1)
	assert.ErrorIs(t, err, ErrInactiveProduct)
}

func TestGetCartVanishedProductVsStoreError(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart("cashier-1", latte.ID, 1)
	require.NoError(t, err)

	// A product deleted from the catalog drops out of the view quietly.
	pRepo.drop(latte.ID)
	cart, err := svc.GetCart("cashier-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, americano.ID, cart.Lines[0].Product.ID)

	// A transient store failure must surface, not shrink the cart.
	pRepo.failFind = errors.New("connection reset")
	_, err = svc.GetCart("cashier-1")
	assert.Error(t, err)
}

func TestCartSummaryTotals(t *testing.T) {
	americano, latte := newTestProducts()
	pRepo := newFakeProductRepo(americano, latte)
	sRepo := newFakeSaleRepo()
	svc := newTestCheckout(pRepo, sRepo)

	_, err := svc.AddToCart("cashier-1", americano.ID, 2)
	require.NoError(t, err)
	summary, err := svc.AddToCart("cashier-1", latte.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(850), summary.SubtotalCents)
	assert.Equal(t, int64(68), summary.TaxCents)
	assert.Equal(t, int64(918), summary.TotalCents)
}
