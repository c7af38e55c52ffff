package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ZevUnitTransaction is one immutable row of the append-only unit ledger.
// Multiple rows with the same key tuple are legitimate (e.g. two transfers
// in one year) and are all retained.
type ZevUnitTransaction struct {
	TxID            uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	OrgID           uuid.UUID       `gorm:"column:org_id;type:uuid;not null;index:idx_zev_tx_key" json:"org_id"`
	VehicleClass    string          `gorm:"column:vehicle_class;type:varchar(20);not null;index:idx_zev_tx_key" json:"vehicle_class"`
	ZevClass        string          `gorm:"column:zev_class;type:varchar(20);not null;index:idx_zev_tx_key" json:"zev_class"`
	ModelYear       int             `gorm:"column:model_year;not null;index:idx_zev_tx_key" json:"model_year"`
	TransactionType string          `gorm:"column:transaction_type;type:varchar(20);not null" json:"transaction_type"`
	NumberOfUnits   decimal.Decimal `gorm:"column:number_of_units;type:decimal(20,2);not null" json:"number_of_units"`
	ReferenceID     *uuid.UUID      `gorm:"column:reference_id;type:uuid" json:"reference_id"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (ZevUnitTransaction) TableName() string {
	return "ZevUnitTransactions"
}

func (t *ZevUnitTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}

// ZevUnitBalance is the ending-balance snapshot: one row per
// (org, vehicle class, ZEV class, model year), replaced wholesale on every
// recompute. Balances are never hand-edited.
type ZevUnitBalance struct {
	BalanceID     uuid.UUID       `gorm:"column:balance_id;type:uuid;primaryKey" json:"balance_id"`
	OrgID         uuid.UUID       `gorm:"column:org_id;type:uuid;not null;uniqueIndex:idx_zev_balance_key" json:"org_id"`
	VehicleClass  string          `gorm:"column:vehicle_class;type:varchar(20);not null;uniqueIndex:idx_zev_balance_key" json:"vehicle_class"`
	ZevClass      string          `gorm:"column:zev_class;type:varchar(20);not null;uniqueIndex:idx_zev_balance_key" json:"zev_class"`
	ModelYear     int             `gorm:"column:model_year;not null;uniqueIndex:idx_zev_balance_key" json:"model_year"`
	EndingBalance decimal.Decimal `gorm:"column:ending_balance;type:decimal(20,2);not null" json:"ending_balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (ZevUnitBalance) TableName() string {
	return "ZevUnitBalances"
}

func (b *ZevUnitBalance) BeforeCreate(tx *gorm.DB) error {
	if b.BalanceID == uuid.Nil {
		b.BalanceID = uuid.New()
	}
	return nil
}
