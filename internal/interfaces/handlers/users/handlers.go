package users

import (
	userssvc "zeva-backend/internal/application/users"
	"zeva-backend/internal/domain"
	"zeva-backend/internal/middleware"
	"zeva-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles user management handlers with dependencies.
type Handlers struct {
	Service *userssvc.Service
}

// Create POST /api/v1/users registers a user.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var input userssvc.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "fullname, email and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Create(c.Context(), input)
	if err != nil {
		switch err {
		case userssvc.ErrFieldsRequired, userssvc.ErrInvalidEmail,
			userssvc.ErrWeakPassword, userssvc.ErrInvalidFullname, userssvc.ErrInvalidRole:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case userssvc.ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case userssvc.ErrOrgNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "User created successfully", sanitize(user), nil)
}

// UpdateRole PATCH /api/v1/users/:id/role
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing user_id", fiber.StatusBadRequest, nil)
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil || body.Role == "" {
		return response.Error(c, "role is required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.UpdateRole(c.Context(), userID, body.Role)
	if err != nil {
		switch err {
		case userssvc.ErrInvalidRole:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case userssvc.ErrUserNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Role updated successfully", sanitize(user), nil)
}

// List GET /api/v1/users lists the caller organization's users.
func (h *Handlers) List(c *fiber.Ctx) error {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	orgIDStr, _ := m["org_id"].(string)
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}

	rows, err := h.Service.ListOrgUsers(c.Context(), orgID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	out := make([]fiber.Map, len(rows))
	for i := range rows {
		out[i] = sanitize(&rows[i])
	}
	return response.Success(c, "Users fetched successfully", out, nil)
}

// sanitize strips the password hash from API responses.
func sanitize(u *domain.User) fiber.Map {
	var orgID *string
	if u.OrgID != nil {
		s := u.OrgID.String()
		orgID = &s
	}
	return fiber.Map{
		"user_id":  u.UserID.String(),
		"fullname": u.Fullname,
		"email":    u.Email,
		"role":     u.Role,
		"org_id":   orgID,
	}
}
