package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/pkg/jwt"
)

// ErrInvalidCredentials covers unknown email, wrong password, and inactive
// account alike so a login attempt learns nothing about which it was.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	AcceptInvite(email, name, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
	ProvisionProfile(email, name string) (*model.AdminUser, error)
}

// ErrProvisioningDisabled is returned when a profile lookup misses and
// auto-provisioning has not been switched on.
var ErrProvisioningDisabled = errors.New("admin profile not found and auto-provisioning is disabled")

type LoginResponse struct {
	Token       string                  `json:"token"`
	User        model.AdminUserResponse `json:"user"`
	DefaultView model.View              `json:"default_view"`
}

type TokenValidationResponse struct {
	User        model.AdminUserResponse `json:"user"`
	DefaultView model.View              `json:"default_view"`
}

// AuthConfig carries the policy switches of the authentication boundary.
type AuthConfig struct {
	// AutoProvision creates a minimal Staff profile when credentials are
	// valid upstream but no admin row exists. Off unless explicitly
	// enabled; silently provisioning accounts is a policy decision, not a
	// default.
	AutoProvision bool
}

type authService struct {
	adminRepo repository.AdminUserRepository
	cfg       AuthConfig
}

func NewAuthService(adminRepo repository.AdminUserRepository, cfg AuthConfig) AuthService {
	return &authService{adminRepo: adminRepo, cfg: cfg}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		if s.cfg.AutoProvision && errors.Is(err, gorm.ErrRecordNotFound) {
			// Profiles are provisioned through invite acceptance, never
			// from a bare login attempt: there is no password to verify
			// against yet.
			log.Printf("auth: no admin profile for %s; invited admins must accept their invite first", email)
		}
		return nil, ErrInvalidCredentials
	}

	// Status gates authentication before any permission is consulted.
	if user.Status != model.StatusActive {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: rotate the token version so older tokens die.
	newTokenVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newTokenVersion
	user.LastLoginAt = &now

	if err := s.adminRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:       token,
		User:        user.ToResponse(),
		DefaultView: user.DefaultView(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.adminRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.adminRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.Status != model.StatusActive {
		return nil, ErrInvalidCredentials
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	return &TokenValidationResponse{
		User:        user.ToResponse(),
		DefaultView: user.DefaultView(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	return s.adminRepo.UpdateLastLogin(userID)
}

// AcceptInvite finishes an invited admin's onboarding: a Staff-preset
// profile is provisioned, the chosen password replaces the placeholder,
// and a session token comes back so the new admin lands signed in. An
// email that already has a profile is refused so an invite link can
// never take over an existing account.
func (s *authService) AcceptInvite(email, name, password string) (*LoginResponse, error) {
	if !s.cfg.AutoProvision {
		return nil, ErrProvisioningDisabled
	}

	if _, err := s.adminRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailExists
	}

	user, err := s.ProvisionProfile(email, name)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	user.TokenVersion = uuid.New().String()
	now := time.Now()
	user.LastLoginAt = &now

	if err := s.adminRepo.Update(user); err != nil {
		return nil, errors.New("failed to store profile")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:       token,
		User:        user.ToResponse(),
		DefaultView: user.DefaultView(),
	}, nil
}

// ProvisionProfile creates a minimal Staff profile for an invited
// identity that has no admin row yet. The account gets the Staff
// permission preset and a placeholder password the invitee replaces
// during AcceptInvite; it only works behind the AutoProvision switch.
func (s *authService) ProvisionProfile(email, name string) (*model.AdminUser, error) {
	if !s.cfg.AutoProvision {
		return nil, ErrProvisioningDisabled
	}

	if existing, err := s.adminRepo.FindByEmail(email); err == nil {
		return existing, nil
	}

	user := &model.AdminUser{
		Name:        name,
		Email:       email,
		Role:        model.RoleStaff,
		Status:      model.StatusActive,
		Permissions: model.RolePreset(model.RoleStaff),
		JoinedAt:    time.Now(),
	}
	user.CreatedBy = "auto-provision"
	user.UpdatedBy = "auto-provision"
	if err := user.SetPassword(uuid.New().String()); err != nil {
		return nil, errors.New("failed to hash placeholder password")
	}

	if err := s.adminRepo.Create(user); err != nil {
		return nil, err
	}
	log.Printf("auth: auto-provisioned Staff profile for %s", email)
	return user, nil
}
