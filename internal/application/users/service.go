package users

import (
	"context"
	"errors"
	"strings"

	"zeva-backend/internal/domain"
	"zeva-backend/internal/pkg/constants"
	"zeva-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service encapsulates user management operations.
type Service struct {
	DB *gorm.DB
}

var (
	ErrFieldsRequired  = errors.New("fullname, email and password are required")
	ErrInvalidEmail    = errors.New("Invalid email format")
	ErrWeakPassword    = errors.New("Password must be at least 8 characters")
	ErrInvalidFullname = errors.New("Fullname contains invalid characters")
	ErrEmailTaken      = errors.New("Email already registered")
	ErrInvalidRole     = errors.New("Invalid role")
	ErrUserNotFound    = errors.New("User not found")
	ErrOrgNotFound     = errors.New("Organization not found")
)

// CreateInput is the registration shape.
type CreateInput struct {
	Fullname string     `json:"fullname"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     string     `json:"role"`
	OrgID    *uuid.UUID `json:"org_id"`
}

// Create registers a user. Password is bcrypt-hashed before storage.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	input.Fullname = strings.TrimSpace(input.Fullname)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Fullname == "" || input.Email == "" || input.Password == "" {
		return nil, ErrFieldsRequired
	}
	if !validation.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}
	if !validation.IsValidFullname(input.Fullname) {
		return nil, ErrInvalidFullname
	}
	role := input.Role
	if role == "" {
		role = constants.Viewer
	}
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	var existing domain.User
	err := s.DB.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if input.OrgID != nil {
		var org domain.Organization
		if err := s.DB.WithContext(ctx).Where("org_id = ?", *input.OrgID).First(&org).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrgNotFound
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		Fullname:     input.Fullname,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		OrgID:        input.OrgID,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole changes one user's role.
func (s *Service) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*domain.User, error) {
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Role = role
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListOrgUsers returns the users of one organization, alphabetical.
func (s *Service) ListOrgUsers(ctx context.Context, orgID uuid.UUID) ([]domain.User, error) {
	var rows []domain.User
	if err := s.DB.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("fullname").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
