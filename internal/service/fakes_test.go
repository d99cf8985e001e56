package service

import (
	"errors"
	"sync"
	"time"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("record not found")

// fakeProductRepo is an in-memory ProductRepository. Decrement behavior is
// scriptable per product so partial-failure paths can be exercised.
type fakeProductRepo struct {
	mu           sync.Mutex
	products     map[uuid.UUID]model.Product
	failDecPerID map[uuid.UUID]error
	failFind     error
	decrements   []uuid.UUID
	findCalls    int
}

func newFakeProductRepo(products ...model.Product) *fakeProductRepo {
	repo := &fakeProductRepo{
		products:     make(map[uuid.UUID]model.Product),
		failDecPerID: make(map[uuid.UUID]error),
	}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) Create(product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) FindAll() ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) FindActive() ([]model.Product, error) {
	all, _ := f.FindAll()
	out := all[:0]
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.failFind != nil {
		return nil, f.failFind
	}
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := p
	return &copied, nil
}

func (f *fakeProductRepo) drop(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

func (f *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU == sku {
			copied := p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Update(product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return errNotFound
	}
	p.StockQty = newStock
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) DecrementStock(id uuid.UUID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decrements = append(f.decrements, id)
	if err, scripted := f.failDecPerID[id]; scripted {
		return err
	}
	p, ok := f.products[id]
	if !ok || p.StockQty < qty {
		return repository.ErrInsufficientStock
	}
	p.StockQty -= qty
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) stockOf(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].StockQty
}

// fakeSaleRepo records inserted sales and lines. Create can be made to
// fail, or to block until released for in-flight-guard tests.
type fakeSaleRepo struct {
	mu          sync.Mutex
	sales       []model.Sale
	lines       []model.SaleLine
	failCreate  error
	failLines   error
	createGate  chan struct{}
	createEnter chan struct{}
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{}
}

func (f *fakeSaleRepo) Create(sale *model.Sale) error {
	if f.createEnter != nil {
		f.createEnter <- struct{}{}
	}
	if f.createGate != nil {
		<-f.createGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	f.sales = append(f.sales, *sale)
	return nil
}

func (f *fakeSaleRepo) CreateLines(lines []model.SaleLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLines != nil {
		return f.failLines
	}
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeSaleRepo) FindAll() ([]model.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Sale, len(f.sales))
	copy(out, f.sales)
	return out, nil
}

func (f *fakeSaleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sales {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeSaleRepo) RevenueSeries(startDate, endDate time.Time) ([]repository.RevenuePoint, error) {
	return nil, nil
}

func (f *fakeSaleRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &repository.DashboardStats{TotalSales: int64(len(f.sales))}
	for _, s := range f.sales {
		stats.TotalRevenueCents += s.TotalCents
	}
	return stats, nil
}

func (f *fakeSaleRepo) DeleteOrphans(olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hasLines := make(map[uuid.UUID]bool)
	for _, line := range f.lines {
		hasLines[line.SaleID] = true
	}

	var kept []model.Sale
	var removed int64
	for _, s := range f.sales {
		if !hasLines[s.ID] && s.CreatedAt.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	f.sales = kept
	return removed, nil
}

func (f *fakeSaleRepo) saleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sales)
}

// fakeAdminRepo is an in-memory AdminUserRepository.
type fakeAdminRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.AdminUser
}

func newFakeAdminRepo(users ...model.AdminUser) *fakeAdminRepo {
	repo := &fakeAdminRepo{users: make(map[uuid.UUID]model.AdminUser)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeAdminRepo) FindByEmail(email string) (*model.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdminRepo) FindByID(id uuid.UUID) (*model.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := u
	return &copied, nil
}

func (f *fakeAdminRepo) FindAll() ([]model.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.AdminUser, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeAdminRepo) Create(user *model.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeAdminRepo) Update(user *model.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeAdminRepo) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeAdminRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashedPassword
	f.users[userID] = u
	return nil
}

func (f *fakeAdminRepo) ReplacePermissions(userID uuid.UUID, permissions model.PermissionSet, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Permissions = permissions.Clone()
	u.UpdatedBy = updatedBy
	f.users[userID] = u
	return nil
}

func (f *fakeAdminRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TokenVersion = version
	f.users[userID] = u
	return nil
}

func (f *fakeAdminRepo) UpdateLastLogin(userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	f.users[userID] = u
	return nil
}
