package repository

import (
	"go-pos-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferingRepository interface {
	FindAll() ([]model.Offering, error)
	FindByID(id uuid.UUID) (*model.Offering, error)
	FindByCode(code string) (*model.Offering, error)
	Create(offering *model.Offering) error
	Update(offering *model.Offering) error
	Delete(id uuid.UUID) error
}

type offeringRepo struct {
	db *gorm.DB
}

func NewOfferingRepo(db *gorm.DB) OfferingRepository {
	return &offeringRepo{db}
}

func (r *offeringRepo) FindAll() ([]model.Offering, error) {
	var offerings []model.Offering
	err := r.db.Order("code ASC").Find(&offerings).Error
	return offerings, err
}

func (r *offeringRepo) FindByID(id uuid.UUID) (*model.Offering, error) {
	var offering model.Offering
	err := r.db.First(&offering, "id = ?", id).Error
	return &offering, err
}

func (r *offeringRepo) FindByCode(code string) (*model.Offering, error) {
	var offering model.Offering
	err := r.db.First(&offering, "code = ?", code).Error
	return &offering, err
}

func (r *offeringRepo) Create(offering *model.Offering) error {
	return r.db.Create(offering).Error
}

func (r *offeringRepo) Update(offering *model.Offering) error {
	return r.db.Save(offering).Error
}

func (r *offeringRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Offering{}, "id = ?", id).Error
}
