package balances

import (
	balancesvc "zeva-backend/internal/application/balances"
	"zeva-backend/internal/compliance"
	"zeva-backend/internal/middleware"
	"zeva-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles balance handlers with dependencies.
type Handlers struct {
	Service *balancesvc.Service
}

// List GET /api/v1/balances returns every ending-balance row for the
// caller's organization.
func (h *Handlers) List(c *fiber.Ctx) error {
	orgID, err := actorOrgID(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}
	rows, err := h.Service.ViewBalances(c.Context(), orgID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Balances fetched successfully", rows, nil)
}

// Summary GET /api/v1/balances/summary?vehicle_class=reportable&model_year=2026
func (h *Handlers) Summary(c *fiber.Ctx) error {
	orgID, err := actorOrgID(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}

	vehicleClass := c.Query("vehicle_class", compliance.VehicleClassReportable.String())
	modelYear := c.QueryInt("model_year")
	if modelYear == 0 {
		return response.Error(c, "model_year is required", fiber.StatusBadRequest, nil)
	}

	summary, err := h.Service.Summary(c.Context(), orgID, vehicleClass, modelYear)
	if err != nil {
		switch err.(type) {
		case *compliance.ConfigurationError, *compliance.DataIntegrityError:
			return err
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Compliance summary fetched successfully", summary, nil)
}

func actorOrgID(c *fiber.Ctx) (uuid.UUID, error) {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil, fiber.ErrForbidden
	}
	orgIDStr, _ := m["org_id"].(string)
	if orgIDStr == "" {
		return uuid.Nil, fiber.ErrForbidden
	}
	return uuid.Parse(orgIDStr)
}
