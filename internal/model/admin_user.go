package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminRole is the closed role set. Roles only determine the permission
// preset applied when an account is created; access decisions always read
// the stored permission mapping.
type AdminRole string

const (
	RoleOwner   AdminRole = "Owner"
	RoleManager AdminRole = "Manager"
	RoleStaff   AdminRole = "Staff"
)

// UserStatus marks whether an account may authenticate at all.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

// NormalizeRole coerces unknown role strings to Staff so ad hoc values
// from the store can never widen access.
func NormalizeRole(raw string) AdminRole {
	switch AdminRole(raw) {
	case RoleOwner, RoleManager, RoleStaff:
		return AdminRole(raw)
	}
	return RoleStaff
}

// NormalizeStatus coerces unknown status strings to Inactive.
func NormalizeStatus(raw string) UserStatus {
	switch UserStatus(raw) {
	case StatusActive, StatusInactive:
		return UserStatus(raw)
	}
	return StatusInactive
}

// AdminUser is a back-office account with a per-user view permission
// mapping.
type AdminUser struct {
	BaseModel
	Name         string        `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string        `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role         AdminRole     `gorm:"type:varchar(50);not null;default:'Staff'" json:"role" validate:"required,oneof=Owner Manager Staff"`
	Status       UserStatus    `gorm:"type:varchar(20);not null;default:'Active'" json:"status" validate:"required,oneof=Active Inactive"`
	Permissions  PermissionSet `gorm:"type:jsonb" json:"permissions"`
	JoinedAt     time.Time     `json:"joined_at"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty"`
	TokenVersion string        `gorm:"type:varchar(255);default:''" json:"-"` // Single session enforcement
}

// SetPassword hashes and sets the account's password.
func (u *AdminUser) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *AdminUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// CanAccess reports whether this account may open the given view.
func (u *AdminUser) CanAccess(view View) bool {
	return u.Permissions.Allows(view)
}

// DefaultView is the landing view after login, ViewNone when the account
// has no grants at all.
func (u *AdminUser) DefaultView() View {
	return u.Permissions.DefaultView()
}

// RolePreset returns the permission mapping seeded for a role at account
// creation time. It is only a starting point; edits afterwards go through
// full replacement.
func RolePreset(role AdminRole) PermissionSet {
	switch role {
	case RoleOwner:
		preset := make(PermissionSet, len(AllViews))
		for _, v := range AllViews {
			preset[v] = true
		}
		return preset
	case RoleManager:
		preset := RolePreset(RoleOwner)
		preset[ViewAdminAccess] = false
		return preset
	default:
		return PermissionSet{
			ViewOverview:     true,
			ViewOrder:        true,
			ViewService:      true,
			ViewCustomerData: true,
		}
	}
}

// AdminUserResponse is the API shape, without credential material.
type AdminUserResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Role        AdminRole     `json:"role"`
	Status      UserStatus    `json:"status"`
	Permissions PermissionSet `json:"permissions"`
	JoinedAt    time.Time     `json:"joined_at"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	DefaultView View          `json:"default_view"`
}

// ToResponse converts AdminUser to its API shape.
func (u *AdminUser) ToResponse() AdminUserResponse {
	return AdminUserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		Permissions: u.Permissions.Clone(),
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
		DefaultView: u.DefaultView(),
	}
}
