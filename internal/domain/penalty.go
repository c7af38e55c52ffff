package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PenaltyAssessment records the dollar penalty assessed for a unit
// shortfall in one model year. Created on report approval when held units
// fall short of the obligation.
type PenaltyAssessment struct {
	AssessmentID   uuid.UUID       `gorm:"column:assessment_id;type:uuid;primaryKey" json:"assessment_id"`
	OrgID          uuid.UUID       `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	ReportID       *uuid.UUID      `gorm:"column:report_id;type:uuid" json:"report_id"`
	ModelYear      int             `gorm:"column:model_year;not null" json:"model_year"`
	ShortfallUnits decimal.Decimal `gorm:"column:shortfall_units;type:decimal(20,2);not null" json:"shortfall_units"`
	PenaltyRate    decimal.Decimal `gorm:"column:penalty_rate;type:decimal(20,2);not null" json:"penalty_rate"`
	PenaltyAmount  decimal.Decimal `gorm:"column:penalty_amount;type:decimal(20,2);not null" json:"penalty_amount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (PenaltyAssessment) TableName() string {
	return "PenaltyAssessments"
}

func (p *PenaltyAssessment) BeforeCreate(tx *gorm.DB) error {
	if p.AssessmentID == uuid.Nil {
		p.AssessmentID = uuid.New()
	}
	return nil
}
