package repository

import (
	"go-pos-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	FindAll() ([]model.Branch, error)
	FindByID(id uuid.UUID) (*model.Branch, error)
	FindByName(name string) (*model.Branch, error)
	Create(branch *model.Branch) error
	Update(branch *model.Branch) error
	Delete(id uuid.UUID) error
}

type branchRepo struct {
	db *gorm.DB
}

func NewBranchRepo(db *gorm.DB) BranchRepository {
	return &branchRepo{db}
}

func (r *branchRepo) FindAll() ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) FindByID(id uuid.UUID) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.First(&branch, "id = ?", id).Error
	return &branch, err
}

func (r *branchRepo) FindByName(name string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.First(&branch, "name = ?", name).Error
	return &branch, err
}

func (r *branchRepo) Create(branch *model.Branch) error {
	return r.db.Create(branch).Error
}

func (r *branchRepo) Update(branch *model.Branch) error {
	return r.db.Save(branch).Error
}

func (r *branchRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Branch{}, "id = ?", id).Error
}
