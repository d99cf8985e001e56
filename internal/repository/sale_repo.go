package repository

import (
	"time"

	"go-pos-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(sale *model.Sale) error
	CreateLines(lines []model.SaleLine) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	RevenueSeries(startDate, endDate time.Time) ([]RevenuePoint, error)
	GetDashboardStats() (*DashboardStats, error)
	DeleteOrphans(olderThan time.Time) (int64, error)
}

// RevenuePoint is one day of the sales chart.
type RevenuePoint struct {
	Date         string `json:"date"`
	SaleCount    int64  `json:"sale_count"`
	RevenueCents int64  `json:"revenue_cents"`
}

// DashboardStats is the overview card row.
type DashboardStats struct {
	TotalSales        int64 `json:"total_sales"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	TotalProducts     int64 `json:"total_products"`
	LowStockCount     int64 `json:"low_stock_count"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(sale *model.Sale) error {
	// Lines are inserted in their own step; Omit keeps this a single-row
	// write so the checkout steps stay distinct.
	return r.db.Omit("Lines").Create(sale).Error
}

func (r *saleRepo) CreateLines(lines []model.SaleLine) error {
	return r.db.Create(&lines).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Lines").Preload("Lines.Product").Preload("CreatedByUser").
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Lines").Preload("Lines.Product").Preload("CreatedByUser").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) RevenueSeries(startDate, endDate time.Time) ([]RevenuePoint, error) {
	var results []RevenuePoint

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as sale_count,
			COALESCE(SUM(total_cents), 0) as revenue_cents
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point RevenuePoint
		if err := rows.Scan(&point.Date, &point.SaleCount, &point.RevenueCents); err != nil {
			return nil, err
		}
		results = append(results, point)
	}

	return results, nil
}

func (r *saleRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Sale{}).Count(&stats.TotalSales)
	r.db.Model(&model.Sale{}).Select("COALESCE(SUM(total_cents), 0)").Scan(&stats.TotalRevenueCents)
	r.db.Model(&model.Product{}).Where("active = ?", true).Count(&stats.TotalProducts)
	r.db.Model(&model.Product{}).Where("active = ? AND stock_qty < ?", true, 10).Count(&stats.LowStockCount)

	return &stats, nil
}

// DeleteOrphans removes sales older than the cutoff that have no lines.
// These are the residue of checkouts that died between the sale insert
// and the line insert.
func (r *saleRepo) DeleteOrphans(olderThan time.Time) (int64, error) {
	res := r.db.Where(
		"created_at < ? AND NOT EXISTS (SELECT 1 FROM sale_items WHERE sale_items.sale_id = sales.id)",
		olderThan,
	).Delete(&model.Sale{})
	return res.RowsAffected, res.Error
}
