package reports

import (
	reassesssvc "zeva-backend/internal/application/reassessments"
	reportsvc "zeva-backend/internal/application/reports"
	"zeva-backend/internal/compliance"
	"zeva-backend/internal/middleware"
	"zeva-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles model-year report handlers with dependencies.
// Reassessments ride along because they always attach to a report.
type Handlers struct {
	Service       *reportsvc.Service
	Reassessments *reassesssvc.Service
}

// Submit POST /api/v1/reports files a model-year report for the caller's
// organization.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	orgID, err := actorOrgID(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}

	var input reportsvc.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "vehicle_class, model_year and reportable_volume are required", fiber.StatusBadRequest, nil)
	}
	input.OrgID = orgID

	report, err := h.Service.Submit(c.Context(), input)
	if err != nil {
		switch err {
		case reportsvc.ErrVolumeNegative:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case reportsvc.ErrDuplicateReport:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return handlerError(c, err)
		}
	}
	return response.SuccessCreated(c, "Report submitted successfully", report, nil)
}

// ApproveRequest carries the earned-unit issuances granted with approval.
type ApproveRequest struct {
	Issuances []reportsvc.IssuanceInput `json:"issuances"`
}

// Approve POST /api/v1/reports/:id/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing report_id", fiber.StatusBadRequest, nil)
	}

	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.Approve(c.Context(), reportID, req.Issuances)
	if err != nil {
		switch err {
		case reportsvc.ErrReportNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case reportsvc.ErrReportNotPending:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return handlerError(c, err)
		}
	}
	return response.Success(c, "Report approved successfully", result, nil)
}

// Reject POST /api/v1/reports/:id/reject
func (h *Handlers) Reject(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing report_id", fiber.StatusBadRequest, nil)
	}

	report, err := h.Service.Reject(c.Context(), reportID)
	if err != nil {
		switch err {
		case reportsvc.ErrReportNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case reportsvc.ErrReportNotPending:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return handlerError(c, err)
		}
	}
	return response.Success(c, "Report rejected", report, nil)
}

// List GET /api/v1/reports lists the caller organization's filings.
func (h *Handlers) List(c *fiber.Ctx) error {
	orgID, err := actorOrgID(c)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", fiber.StatusForbidden, nil)
	}
	rows, err := h.Service.ListOrgReports(c.Context(), orgID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Reports fetched successfully", rows, nil)
}

// CreateReassessment POST /api/v1/reports/:id/reassessments
func (h *Handlers) CreateReassessment(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing report_id", fiber.StatusBadRequest, nil)
	}

	var input reassesssvc.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "zev_class and adjustment_units are required", fiber.StatusBadRequest, nil)
	}
	input.ReportID = reportID

	reassessment, err := h.Reassessments.Create(c.Context(), input)
	if err != nil {
		switch err {
		case reassesssvc.ErrReportNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case reassesssvc.ErrReportNotApproved, reassesssvc.ErrZeroAdjustment:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return handlerError(c, err)
		}
	}
	return response.SuccessCreated(c, "Reassessment created successfully", reassessment, nil)
}

// ListReassessments GET /api/v1/reports/:id/reassessments
func (h *Handlers) ListReassessments(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing report_id", fiber.StatusBadRequest, nil)
	}
	rows, err := h.Reassessments.ListForReport(c.Context(), reportID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Reassessments fetched successfully", rows, nil)
}

// handlerError lets typed compliance errors reach the error handler
// middleware; everything else collapses to a 500.
func handlerError(c *fiber.Ctx, err error) error {
	switch err.(type) {
	case *compliance.ConfigurationError, *compliance.DataIntegrityError:
		return err
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

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
