package service

import (
	"errors"
	"fmt"
	"time"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/pkg/validator"

	"github.com/google/uuid"
)

var ErrEmailExists = errors.New("email already exists")

type AdminService interface {
	CreateAdmin(req *CreateAdminRequest, creatorID string) (*model.AdminUser, error)
	UpdateAdmin(userID uuid.UUID, req *UpdateAdminRequest, updaterID string) (*model.AdminUser, error)
	DeleteAdmin(userID uuid.UUID, deleterID string) error
	ReplacePermissions(userID uuid.UUID, permissions map[string]bool, updaterID string) (*model.AdminUser, error)
	GetAllAdmins() ([]model.AdminUserResponse, error)
	GetAdminByID(id uuid.UUID) (*model.AdminUserResponse, error)
}

type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

type UpdateAdminRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Role     string  `json:"role" validate:"required"`
	Status   *string `json:"status,omitempty"`
}

type adminService struct {
	adminRepo repository.AdminUserRepository
}

func NewAdminService(adminRepo repository.AdminUserRepository) AdminService {
	return &adminService{adminRepo: adminRepo}
}

func (s *adminService) CreateAdmin(req *CreateAdminRequest, creatorID string) (*model.AdminUser, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.adminRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	// Unknown role strings collapse to Staff; they never mint a wider
	// grant than the closed set allows.
	role := model.NormalizeRole(req.Role)

	user := &model.AdminUser{
		Name:        req.Name,
		Email:       req.Email,
		Role:        role,
		Status:      model.StatusActive,
		Permissions: model.RolePreset(role),
		JoinedAt:    time.Now(),
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.adminRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *adminService) UpdateAdmin(userID uuid.UUID, req *UpdateAdminRequest, updaterID string) (*model.AdminUser, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.adminRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		existing, _ := s.adminRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, ErrEmailExists
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = model.NormalizeRole(req.Role)
	if req.Status != nil {
		user.Status = model.NormalizeStatus(*req.Status)
	}
	user.UpdatedBy = updaterID

	// A role change does NOT touch the permission mapping; grants only
	// move through ReplacePermissions.

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.adminRepo.Update(user); err != nil {
		return nil, err
	}

	return s.adminRepo.FindByID(userID)
}

func (s *adminService) DeleteAdmin(userID uuid.UUID, deleterID string) error {
	user, err := s.adminRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	user.DeletedBy = deleterID
	if err := s.adminRepo.Update(user); err != nil {
		return err
	}
	return s.adminRepo.Delete(userID)
}

// ReplacePermissions swaps the whole mapping. Callers wanting a partial
// edit must merge first and send the full result, so a stale grant can
// never survive by omission.
func (s *adminService) ReplacePermissions(userID uuid.UUID, permissions map[string]bool, updaterID string) (*model.AdminUser, error) {
	if _, err := s.adminRepo.FindByID(userID); err != nil {
		return nil, ErrUserNotFound
	}

	next := make(model.PermissionSet, len(permissions))
	for name, granted := range permissions {
		view := model.View(name)
		if !view.IsValid() {
			return nil, fmt.Errorf("unknown view name %q", name)
		}
		next[view] = granted
	}

	if err := s.adminRepo.ReplacePermissions(userID, next, updaterID); err != nil {
		return nil, err
	}

	return s.adminRepo.FindByID(userID)
}

func (s *adminService) GetAllAdmins() ([]model.AdminUserResponse, error) {
	users, err := s.adminRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.AdminUserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *adminService) GetAdminByID(id uuid.UUID) (*model.AdminUserResponse, error) {
	user, err := s.adminRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}
