package reports

import (
	"context"
	"errors"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"
	"zeva-backend/internal/events"
	"zeva-backend/internal/ledger"
	"zeva-backend/internal/supply"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service encapsulates model-year report operations. Approval is the
// workflow that drives the unit ledger: classification, obligation,
// issuance, recompute, penalty assessment, all inside one DB transaction
// so append+recompute observe each other (read-your-writes).
type Service struct {
	DB     *gorm.DB
	Events *events.Publisher
}

var (
	ErrReportNotFound   = errors.New("Report not found")
	ErrReportNotPending = errors.New("Report is not awaiting review")
	ErrVolumeNegative   = errors.New("reportable_volume must be >= 0")
	ErrDuplicateReport  = errors.New("A report for this organization, vehicle class and model year already exists")
)

// SubmitInput is the filing shape: one organization's reportable sales
// volume for a vehicle class and model year.
type SubmitInput struct {
	OrgID            uuid.UUID `json:"org_id"`
	VehicleClass     string    `json:"vehicle_class"`
	ModelYear        int       `json:"model_year"`
	ReportableVolume int64     `json:"reportable_volume"`
}

// Submit records the filing and its supply-volume row. The volume row is
// written to whichever store is authoritative for the model year; it is
// created here and never modified by the ledger afterward.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.ModelYearReport, error) {
	vc := compliance.VehicleClass(input.VehicleClass)
	if !vc.Valid() {
		return nil, &compliance.DataIntegrityError{Reason: "unknown vehicle class " + input.VehicleClass}
	}
	my, err := compliance.FromYear(input.ModelYear)
	if err != nil {
		return nil, err
	}
	if input.ReportableVolume < 0 {
		return nil, ErrVolumeNegative
	}

	var report *domain.ModelYearReport
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.ModelYearReport
		err := tx.Where("org_id = ? AND vehicle_class = ? AND model_year = ?",
			input.OrgID, vc.String(), my.Year()).First(&existing).Error
		if err == nil {
			return ErrDuplicateReport
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		report = &domain.ModelYearReport{
			OrgID:            input.OrgID,
			VehicleClass:     vc.String(),
			ModelYear:        my.Year(),
			ReportableVolume: input.ReportableVolume,
			Status:           domain.ReportStatusSubmitted,
			RequiredUnits:    decimal.Zero,
		}
		if err := tx.Create(report).Error; err != nil {
			return err
		}

		if my < compliance.CutoverModelYear {
			return tx.Create(&domain.LegacySalesVolume{
				OrgID:        input.OrgID,
				VehicleClass: vc.String(),
				ModelYear:    my.Year(),
				Volume:       input.ReportableVolume,
			}).Error
		}
		return tx.Create(&domain.SupplyVolume{
			OrgID:        input.OrgID,
			VehicleClass: vc.String(),
			ModelYear:    my.Year(),
			Volume:       input.ReportableVolume,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// IssuanceInput is one earned-unit line attached to an approval.
type IssuanceInput struct {
	ZevClass string          `json:"zev_class"`
	Units    decimal.Decimal `json:"units"`
}

// ApprovalResult summarizes what the approval did to the ledger.
type ApprovalResult struct {
	Report        *domain.ModelYearReport   `json:"report"`
	SupplierTier  compliance.SupplierTier   `json:"supplier_tier"`
	RequiredUnits decimal.Decimal           `json:"required_units"`
	HeldUnits     decimal.Decimal           `json:"held_units"`
	Shortfall     decimal.Decimal           `json:"shortfall"`
	Penalty       *domain.PenaltyAssessment `json:"penalty,omitempty"`
}

// Approve finalizes a submitted report: classifies the supplier from its
// 3-year lookback, derives the unit obligation from the ratio tables,
// appends the earned-unit issuances to the ledger, recomputes the affected
// balances, and assesses a penalty when held units fall short.
func (s *Service) Approve(ctx context.Context, reportID uuid.UUID, issuances []IssuanceInput) (*ApprovalResult, error) {
	var result *ApprovalResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report domain.ModelYearReport
		if err := tx.Where("report_id = ?", reportID).First(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		if report.Status != domain.ReportStatusSubmitted {
			return ErrReportNotPending
		}

		vc := compliance.VehicleClass(report.VehicleClass)
		my, err := compliance.FromYear(report.ModelYear)
		if err != nil {
			return err
		}

		classifier := &compliance.Classifier{Volumes: &supply.Accessor{DB: tx}}
		classification, err := classifier.Classify(ctx, vc, my, report.OrgID)
		if err != nil {
			return err
		}

		required := compliance.RequiredUnits(vc, compliance.ZevClassUnspecified, my, report.ReportableVolume)

		led := &ledger.Ledger{DB: tx}
		touched := map[ledger.Key]bool{}
		for _, iss := range issuances {
			zc := compliance.ZevClass(iss.ZevClass)
			if !zc.Valid() {
				return &compliance.DataIntegrityError{Reason: "unknown zev class " + iss.ZevClass}
			}
			if err := led.Append(ctx, &domain.ZevUnitTransaction{
				OrgID:           report.OrgID,
				VehicleClass:    vc.String(),
				ZevClass:        zc.String(),
				ModelYear:       my.Year(),
				TransactionType: compliance.TxIssuance.String(),
				NumberOfUnits:   iss.Units,
				ReferenceID:     &report.ReportID,
			}); err != nil {
				return err
			}
			touched[ledger.Key{OrgID: report.OrgID, VehicleClass: vc, ZevClass: zc, ModelYear: my}] = true
		}
		for key := range touched {
			if _, err := led.RecomputeEndingBalance(ctx, key); err != nil {
				return err
			}
		}

		held, err := heldUnits(ctx, led, report.OrgID, vc, my)
		if err != nil {
			return err
		}

		shortfall := required.Sub(held)
		if shortfall.Sign() < 0 {
			shortfall = decimal.Zero
		}

		var penalty *domain.PenaltyAssessment
		if shortfall.Sign() > 0 {
			if rate, ok := compliance.PenaltyRate(my); ok {
				penalty = &domain.PenaltyAssessment{
					OrgID:          report.OrgID,
					ReportID:       &report.ReportID,
					ModelYear:      my.Year(),
					ShortfallUnits: shortfall,
					PenaltyRate:    rate,
					PenaltyAmount:  compliance.PenaltyForShortfall(my, shortfall),
				}
				if err := tx.Create(penalty).Error; err != nil {
					return err
				}
			}
		}

		tier := string(classification.Tier)
		report.Status = domain.ReportStatusApproved
		report.SupplierTier = &tier
		report.RequiredUnits = required
		if err := tx.Save(&report).Error; err != nil {
			return err
		}

		result = &ApprovalResult{
			Report:        &report,
			SupplierTier:  classification.Tier,
			RequiredUnits: required,
			HeldUnits:     held,
			Shortfall:     shortfall,
			Penalty:       penalty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, events.Event{
		Type:  events.TypeReportApproved,
		OrgID: result.Report.OrgID.String(),
		Payload: map[string]interface{}{
			"report_id":      result.Report.ReportID.String(),
			"model_year":     result.Report.ModelYear,
			"required_units": result.RequiredUnits.String(),
			"held_units":     result.HeldUnits.String(),
			"shortfall":      result.Shortfall.String(),
		},
	})
	return result, nil
}

// Reject marks a submitted report rejected without touching the ledger.
func (s *Service) Reject(ctx context.Context, reportID uuid.UUID) (*domain.ModelYearReport, error) {
	var report domain.ModelYearReport
	if err := s.DB.WithContext(ctx).Where("report_id = ?", reportID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if report.Status != domain.ReportStatusSubmitted {
		return nil, ErrReportNotPending
	}
	report.Status = domain.ReportStatusRejected
	if err := s.DB.WithContext(ctx).Save(&report).Error; err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, events.Event{
		Type:  events.TypeReportRejected,
		OrgID: report.OrgID.String(),
		Payload: map[string]interface{}{
			"report_id":  report.ReportID.String(),
			"model_year": report.ModelYear,
		},
	})
	return &report, nil
}

// ListOrgReports returns an organization's filings, newest model year first.
func (s *Service) ListOrgReports(ctx context.Context, orgID uuid.UUID) ([]domain.ModelYearReport, error) {
	var rows []domain.ModelYearReport
	if err := s.DB.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("model_year DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// heldUnits sums the ending balances across every ZEV class for the key's
// vehicle class and model year.
func heldUnits(ctx context.Context, led *ledger.Ledger, orgID uuid.UUID, vc compliance.VehicleClass, my compliance.ModelYear) (decimal.Decimal, error) {
	held := decimal.Zero
	for _, zc := range []compliance.ZevClass{compliance.ZevClassA, compliance.ZevClassB, compliance.ZevClassUnspecified} {
		bal, err := led.GetBalance(ctx, ledger.Key{OrgID: orgID, VehicleClass: vc, ZevClass: zc, ModelYear: my})
		if err != nil {
			return decimal.Zero, err
		}
		held = held.Add(bal)
	}
	return held, nil
}
