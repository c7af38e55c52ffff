package org

import (
	orgsvc "zeva-backend/internal/application/org"
	"zeva-backend/internal/middleware"
	"zeva-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles org handlers with dependencies.
type Handlers struct {
	Service *orgsvc.Service
}

// CreateOrg POST /api/v1/orgs
func (h *Handlers) CreateOrg(c *fiber.Ctx) error {
	var input orgsvc.CreateOrgInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "name and short_name are required", fiber.StatusBadRequest, nil)
	}

	org, err := h.Service.CreateOrg(c.Context(), input)
	if err != nil {
		switch err {
		case orgsvc.ErrNameRequired, orgsvc.ErrInvalidShortName:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case orgsvc.ErrOrgExists:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Organization created successfully", org, nil)
}

// ViewOrg GET /api/v1/orgs/me returns the caller's organization.
func (h *Handlers) ViewOrg(c *fiber.Ctx) error {
	orgID, err := actorOrgID(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}

	org, err := h.Service.ViewOrg(c.Context(), orgID)
	if err != nil {
		if err == orgsvc.ErrOrgNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Organization fetched successfully", org, nil)
}

// ListOrgs GET /api/v1/orgs
func (h *Handlers) ListOrgs(c *fiber.Ctx) error {
	orgs, err := h.Service.ListOrgs(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Organizations fetched successfully", orgs, nil)
}

// UpdateOrg PATCH /api/v1/orgs/:id
func (h *Handlers) UpdateOrg(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing org_id", fiber.StatusBadRequest, nil)
	}

	var input orgsvc.UpdateOrgInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "No update fields provided", fiber.StatusBadRequest, nil)
	}

	org, err := h.Service.UpdateOrg(c.Context(), orgID, input)
	if err != nil {
		if err == orgsvc.ErrOrgNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Organization updated successfully", org, nil)
}

// actorOrgID pulls the caller's org id out of the session user.
func actorOrgID(c *fiber.Ctx) (uuid.UUID, error) {
	actor := middleware.GetUser(c)
	m, ok := actor.(map[string]interface{})
	if !ok {
		return uuid.Nil, fiber.ErrForbidden
	}
	orgIDStr, _ := m["org_id"].(string)
	if orgIDStr == "" {
		return uuid.Nil, fiber.ErrForbidden
	}
	return uuid.Parse(orgIDStr)
}
