package transfers

import (
	transfersvc "zeva-backend/internal/application/transfers"
	"zeva-backend/internal/compliance"
	"zeva-backend/internal/middleware"
	"zeva-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles credit-transfer handlers with dependencies.
type Handlers struct {
	Service *transfersvc.Service
}

// Execute POST /api/v1/transfers moves units from the caller's
// organization to another one identified by short name.
func (h *Handlers) Execute(c *fiber.Ctx) error {
	orgID, orgCode, err := actor(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}

	var input transfersvc.ExecuteInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "to_org_short_name, zev_class, model_year and number_of_units are required", fiber.StatusBadRequest, nil)
	}
	input.FromOrgID = orgID
	input.ActorOrgCode = orgCode

	transfer, err := h.Service.Execute(c.Context(), input)
	if err != nil {
		switch err {
		case transfersvc.ErrTargetOrgNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case transfersvc.ErrSameOrg, transfersvc.ErrUnitsNotPositive:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case transfersvc.ErrInsufficientUnits:
			return response.Error(c, err.Error(), fiber.StatusUnprocessableEntity, nil)
		default:
			switch err.(type) {
			case *compliance.ConfigurationError, *compliance.DataIntegrityError:
				return err
			}
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Transfer executed successfully", transfer, nil)
}

// List GET /api/v1/transfers lists transfers where the caller's
// organization is either side.
func (h *Handlers) List(c *fiber.Ctx) error {
	orgID, _, err := actor(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}
	rows, err := h.Service.ListOrgTransfers(c.Context(), orgID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transfers fetched successfully", rows, nil)
}

func actor(c *fiber.Ctx) (uuid.UUID, *string, error) {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil, nil, fiber.ErrForbidden
	}
	orgIDStr, _ := m["org_id"].(string)
	if orgIDStr == "" {
		return uuid.Nil, nil, fiber.ErrForbidden
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return uuid.Nil, nil, err
	}
	var code *string
	if email, _ := m["email"].(string); email != "" {
		code = &email
	}
	return orgID, code, nil
}
