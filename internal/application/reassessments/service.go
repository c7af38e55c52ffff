package reassessments

import (
	"context"
	"errors"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"
	"zeva-backend/internal/events"
	"zeva-backend/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service records reassessments: post-approval corrections to a model-year
// report. The signed adjustment lands in the ledger as an issuance (gain)
// or reduction (loss) transaction and the balance is recomputed in the
// same DB transaction.
type Service struct {
	DB     *gorm.DB
	Events *events.Publisher
}

var (
	ErrReportNotFound    = errors.New("Report not found")
	ErrReportNotApproved = errors.New("Only approved reports can be reassessed")
	ErrZeroAdjustment    = errors.New("adjustment_units must be non-zero")
)

// CreateInput is one reassessment request.
type CreateInput struct {
	ReportID        uuid.UUID       `json:"report_id"`
	ZevClass        string          `json:"zev_class"`
	AdjustmentUnits decimal.Decimal `json:"adjustment_units"`
	Reason          *string         `json:"reason"`
}

// Create applies the adjustment to the ledger and records the reassessment.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Reassessment, error) {
	zc := compliance.ZevClass(input.ZevClass)
	if !zc.Valid() {
		return nil, &compliance.DataIntegrityError{Reason: "unknown zev class " + input.ZevClass}
	}
	if input.AdjustmentUnits.IsZero() {
		return nil, ErrZeroAdjustment
	}

	var reassessment *domain.Reassessment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report domain.ModelYearReport
		if err := tx.Where("report_id = ?", input.ReportID).First(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		if report.Status != domain.ReportStatusApproved {
			return ErrReportNotApproved
		}

		vc := compliance.VehicleClass(report.VehicleClass)
		my, err := compliance.FromYear(report.ModelYear)
		if err != nil {
			return err
		}

		reassessment = &domain.Reassessment{
			ReportID:        report.ReportID,
			OrgID:           report.OrgID,
			VehicleClass:    vc.String(),
			ZevClass:        zc.String(),
			ModelYear:       my.Year(),
			AdjustmentUnits: input.AdjustmentUnits,
			Reason:          input.Reason,
		}
		if err := tx.Create(reassessment).Error; err != nil {
			return err
		}

		// Positive adjustments issue units; negative ones reduce them.
		txType := compliance.TxIssuance
		units := input.AdjustmentUnits
		if units.Sign() < 0 {
			txType = compliance.TxReduction
			units = units.Neg()
		}

		led := &ledger.Ledger{DB: tx}
		if err := led.Append(ctx, &domain.ZevUnitTransaction{
			OrgID:           report.OrgID,
			VehicleClass:    vc.String(),
			ZevClass:        zc.String(),
			ModelYear:       my.Year(),
			TransactionType: txType.String(),
			NumberOfUnits:   units,
			ReferenceID:     &reassessment.ReassessmentID,
		}); err != nil {
			return err
		}
		_, err = led.RecomputeEndingBalance(ctx, ledger.Key{
			OrgID:        report.OrgID,
			VehicleClass: vc,
			ZevClass:     zc,
			ModelYear:    my,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, events.Event{
		Type:  events.TypeReassessment,
		OrgID: reassessment.OrgID.String(),
		Payload: map[string]interface{}{
			"reassessment_id":  reassessment.ReassessmentID.String(),
			"report_id":        reassessment.ReportID.String(),
			"adjustment_units": reassessment.AdjustmentUnits.String(),
		},
	})
	return reassessment, nil
}

// ListForReport returns a report's reassessments, oldest first.
func (s *Service) ListForReport(ctx context.Context, reportID uuid.UUID) ([]domain.Reassessment, error) {
	var rows []domain.Reassessment
	if err := s.DB.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
