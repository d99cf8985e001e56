package service

import (
	"time"

	"go-pos-admin/internal/repository"
)

type DashboardService interface {
	GetRevenueSeries(days int) ([]repository.RevenuePoint, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	saleRepo repository.SaleRepository
}

func NewDashboardService(saleRepo repository.SaleRepository) DashboardService {
	return &dashboardService{saleRepo: saleRepo}
}

func (s *dashboardService) GetRevenueSeries(days int) ([]repository.RevenuePoint, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.saleRepo.RevenueSeries(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.saleRepo.GetDashboardStats()
}
