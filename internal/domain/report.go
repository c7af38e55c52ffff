package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ModelYearReport is a supplier's annual compliance filing: the reportable
// sales volume for one model year, plus the obligation derived from it on
// approval.
type ModelYearReport struct {
	ReportID         uuid.UUID       `gorm:"column:report_id;type:uuid;primaryKey" json:"report_id"`
	OrgID            uuid.UUID       `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	VehicleClass     string          `gorm:"column:vehicle_class;type:varchar(20);not null" json:"vehicle_class"`
	ModelYear        int             `gorm:"column:model_year;not null" json:"model_year"`
	ReportableVolume int64           `gorm:"column:reportable_volume;not null;default:0" json:"reportable_volume"`
	Status           string          `gorm:"column:status;type:varchar(20);not null;default:'submitted'" json:"status"`
	SupplierTier     *string         `gorm:"column:supplier_tier;type:varchar(20)" json:"supplier_tier"`
	RequiredUnits    decimal.Decimal `gorm:"column:required_units;type:decimal(20,2);not null;default:0" json:"required_units"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Report statuses.
const (
	ReportStatusSubmitted = "submitted"
	ReportStatusApproved  = "approved"
	ReportStatusRejected  = "rejected"
)

func (ModelYearReport) TableName() string {
	return "ModelYearReports"
}

func (r *ModelYearReport) BeforeCreate(tx *gorm.DB) error {
	if r.ReportID == uuid.Nil {
		r.ReportID = uuid.New()
	}
	return nil
}

// Reassessment records a post-approval correction to a model-year report:
// a signed unit adjustment appended to the ledger as an issuance or
// reduction transaction.
type Reassessment struct {
	ReassessmentID  uuid.UUID       `gorm:"column:reassessment_id;type:uuid;primaryKey" json:"reassessment_id"`
	ReportID        uuid.UUID       `gorm:"column:report_id;type:uuid;not null;index" json:"report_id"`
	OrgID           uuid.UUID       `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	VehicleClass    string          `gorm:"column:vehicle_class;type:varchar(20);not null" json:"vehicle_class"`
	ZevClass        string          `gorm:"column:zev_class;type:varchar(20);not null" json:"zev_class"`
	ModelYear       int             `gorm:"column:model_year;not null" json:"model_year"`
	AdjustmentUnits decimal.Decimal `gorm:"column:adjustment_units;type:decimal(20,2);not null" json:"adjustment_units"`
	Reason          *string         `gorm:"column:reason" json:"reason"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Reassessment) TableName() string {
	return "Reassessments"
}

func (r *Reassessment) BeforeCreate(tx *gorm.DB) error {
	if r.ReassessmentID == uuid.Nil {
		r.ReassessmentID = uuid.New()
	}
	return nil
}
