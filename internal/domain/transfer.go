package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreditTransfer moves ZEV units between two organizations. Execution
// appends a transfer-out and a transfer-in row to the ledger and recomputes
// both sides inside one database transaction.
type CreditTransfer struct {
	TransferID    uuid.UUID       `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	FromOrgID     uuid.UUID       `gorm:"column:from_org_id;type:uuid;not null;index" json:"from_org_id"`
	ToOrgID       uuid.UUID       `gorm:"column:to_org_id;type:uuid;not null;index" json:"to_org_id"`
	VehicleClass  string          `gorm:"column:vehicle_class;type:varchar(20);not null" json:"vehicle_class"`
	ZevClass      string          `gorm:"column:zev_class;type:varchar(20);not null" json:"zev_class"`
	ModelYear     int             `gorm:"column:model_year;not null" json:"model_year"`
	NumberOfUnits decimal.Decimal `gorm:"column:number_of_units;type:decimal(20,2);not null" json:"number_of_units"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;default:'executed'" json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Transfer statuses.
const (
	TransferStatusExecuted  = "executed"
	TransferStatusRescinded = "rescinded"
)

func (CreditTransfer) TableName() string {
	return "CreditTransfers"
}

func (t *CreditTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.TransferID == uuid.Nil {
		t.TransferID = uuid.New()
	}
	return nil
}

// TransferEvent is the audit trail for a transfer (who did what, with a
// JSON payload of the relevant amounts).
type TransferEvent struct {
	EventID      uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	TransferID   uuid.UUID      `gorm:"column:transfer_id;type:uuid;not null;index" json:"transfer_id"`
	EventType    string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	ActorOrgCode *string        `gorm:"column:actor_org_code" json:"actor_org_code"`
	EventData    datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (TransferEvent) TableName() string {
	return "TransferEvents"
}

func (e *TransferEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
