package org

import (
	"context"
	"errors"
	"strings"

	"zeva-backend/internal/domain"
	"zeva-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates organization operations.
type Service struct {
	DB *gorm.DB
}

// CreateOrgInput is the request shape for creating a supplier organization.
type CreateOrgInput struct {
	Name        string  `json:"name"`
	ShortName   string  `json:"short_name"`
	AddressLine *string `json:"address_line"`
	City        *string `json:"city"`
	Province    *string `json:"province"`
	PostalCode  *string `json:"postal_code"`
}

var (
	ErrNameRequired     = errors.New("name and short_name are required")
	ErrInvalidShortName = errors.New("short_name must be 2-16 uppercase letters or digits")
	ErrOrgExists        = errors.New("Organization already exists")
	ErrOrgNotFound      = errors.New("Organization not found")
)

// CreateOrg creates a supplier organization.
func (s *Service) CreateOrg(ctx context.Context, input CreateOrgInput) (*domain.Organization, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.ShortName = strings.TrimSpace(input.ShortName)
	if input.Name == "" || input.ShortName == "" {
		return nil, ErrNameRequired
	}
	if !validation.IsValidOrgShortName(input.ShortName) {
		return nil, ErrInvalidShortName
	}

	var existing domain.Organization
	err := s.DB.WithContext(ctx).
		Where("name = ? OR short_name = ?", input.Name, input.ShortName).
		First(&existing).Error
	if err == nil {
		return nil, ErrOrgExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	org := domain.Organization{
		Name:        input.Name,
		ShortName:   input.ShortName,
		AddressLine: input.AddressLine,
		City:        input.City,
		Province:    input.Province,
		PostalCode:  input.PostalCode,
	}
	if err := s.DB.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ViewOrg returns one organization by id.
func (s *Service) ViewOrg(ctx context.Context, orgID uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ListOrgs returns all supplier organizations, alphabetical.
func (s *Service) ListOrgs(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := s.DB.WithContext(ctx).Order("name").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// UpdateOrgInput carries updatable organization fields.
type UpdateOrgInput struct {
	Name        *string `json:"name"`
	AddressLine *string `json:"address_line"`
	City        *string `json:"city"`
	Province    *string `json:"province"`
	PostalCode  *string `json:"postal_code"`
}

// UpdateOrg applies partial updates to an organization.
func (s *Service) UpdateOrg(ctx context.Context, orgID uuid.UUID, input UpdateOrgInput) (*domain.Organization, error) {
	org, err := s.ViewOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		org.Name = strings.TrimSpace(*input.Name)
	}
	if input.AddressLine != nil {
		org.AddressLine = input.AddressLine
	}
	if input.City != nil {
		org.City = input.City
	}
	if input.Province != nil {
		org.Province = input.Province
	}
	if input.PostalCode != nil {
		org.PostalCode = input.PostalCode
	}

	if err := s.DB.WithContext(ctx).Save(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}
