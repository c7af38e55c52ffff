package balances

import (
	"context"
	"errors"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"
	"zeva-backend/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes balance snapshots and the per-model-year compliance
// summary (required vs held vs shortfall/penalty). Pure reads.
type Service struct {
	DB *gorm.DB
}

// ViewBalances lists every ending-balance row for an organization.
func (s *Service) ViewBalances(ctx context.Context, orgID uuid.UUID) ([]domain.ZevUnitBalance, error) {
	led := &ledger.Ledger{DB: s.DB}
	return led.OrgBalances(ctx, orgID)
}

// ComplianceSummary is the position of one organization for a vehicle
// class and model year.
type ComplianceSummary struct {
	OrgID         uuid.UUID       `json:"org_id"`
	VehicleClass  string          `json:"vehicle_class"`
	ModelYear     int             `json:"model_year"`
	RequiredUnits decimal.Decimal `json:"required_units"`
	HeldUnits     decimal.Decimal `json:"held_units"`
	Shortfall     decimal.Decimal `json:"shortfall"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

// Summary computes the compliance position. The obligation comes from the
// approved report when one exists; with no approved filing the required
// units are zero (no ratio applied to an unknown volume).
func (s *Service) Summary(ctx context.Context, orgID uuid.UUID, vehicleClass string, modelYear int) (*ComplianceSummary, error) {
	vc := compliance.VehicleClass(vehicleClass)
	if !vc.Valid() {
		return nil, &compliance.DataIntegrityError{Reason: "unknown vehicle class " + vehicleClass}
	}
	my, err := compliance.FromYear(modelYear)
	if err != nil {
		return nil, err
	}

	required := decimal.Zero
	var report domain.ModelYearReport
	err = s.DB.WithContext(ctx).
		Where("org_id = ? AND vehicle_class = ? AND model_year = ? AND status = ?",
			orgID, vc.String(), my.Year(), domain.ReportStatusApproved).
		First(&report).Error
	switch {
	case err == nil:
		required = report.RequiredUnits
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no approved filing: zero obligation
	default:
		return nil, err
	}

	led := &ledger.Ledger{DB: s.DB}
	held := decimal.Zero
	for _, zc := range []compliance.ZevClass{compliance.ZevClassA, compliance.ZevClassB, compliance.ZevClassUnspecified} {
		bal, err := led.GetBalance(ctx, ledger.Key{OrgID: orgID, VehicleClass: vc, ZevClass: zc, ModelYear: my})
		if err != nil {
			return nil, err
		}
		held = held.Add(bal)
	}

	shortfall := required.Sub(held)
	if shortfall.Sign() < 0 {
		shortfall = decimal.Zero
	}

	return &ComplianceSummary{
		OrgID:         orgID,
		VehicleClass:  vc.String(),
		ModelYear:     my.Year(),
		RequiredUnits: required,
		HeldUnits:     held,
		Shortfall:     shortfall,
		PenaltyAmount: compliance.PenaltyForShortfall(my, shortfall),
	}, nil
}
