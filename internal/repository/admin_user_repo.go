package repository

import (
	"go-pos-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUserRepository interface {
	FindByEmail(email string) (*model.AdminUser, error)
	FindByID(id uuid.UUID) (*model.AdminUser, error)
	FindAll() ([]model.AdminUser, error)
	Create(user *model.AdminUser) error
	Update(user *model.AdminUser) error
	Delete(id uuid.UUID) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	ReplacePermissions(userID uuid.UUID, permissions model.PermissionSet, updatedBy string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	UpdateLastLogin(userID uuid.UUID) error
}

type adminUserRepo struct {
	db *gorm.DB
}

func NewAdminUserRepo(db *gorm.DB) AdminUserRepository {
	return &adminUserRepo{db}
}

func (r *adminUserRepo) FindByEmail(email string) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepo) FindByID(id uuid.UUID) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepo) FindAll() ([]model.AdminUser, error) {
	var users []model.AdminUser
	if err := r.db.Order("joined_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *adminUserRepo) Create(user *model.AdminUser) error {
	return r.db.Create(user).Error
}

func (r *adminUserRepo) Update(user *model.AdminUser) error {
	return r.db.Save(user).Error
}

func (r *adminUserRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.AdminUser{}, "id = ?", id).Error
}

func (r *adminUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.AdminUser{}).Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// ReplacePermissions writes the whole mapping at once. Merging is the
// caller's job; nothing here retains old grants.
func (r *adminUserRepo) ReplacePermissions(userID uuid.UUID, permissions model.PermissionSet, updatedBy string) error {
	return r.db.Model(&model.AdminUser{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"permissions": permissions.Clone(),
			"updated_by":  updatedBy,
		}).Error
}

func (r *adminUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return r.db.Model(&model.AdminUser{}).Where("id = ?", userID).
		Update("token_version", version).Error
}

func (r *adminUserRepo) UpdateLastLogin(userID uuid.UUID) error {
	return r.db.Model(&model.AdminUser{}).Where("id = ?", userID).
		Update("last_login_at", gorm.Expr("NOW()")).Error
}
