package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LegacySalesVolume is the old-schema sales record, authoritative for model
// years before the cutover. Rows are created by report submission and never
// modified afterward.
type LegacySalesVolume struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID        uuid.UUID `gorm:"column:org_id;type:uuid;not null;index:idx_legacy_volume_key" json:"org_id"`
	VehicleClass string    `gorm:"column:vehicle_class;type:varchar(20);not null;index:idx_legacy_volume_key" json:"vehicle_class"`
	ModelYear    int       `gorm:"column:model_year;not null;index:idx_legacy_volume_key" json:"model_year"`
	Volume       int64     `gorm:"column:volume;not null;default:0" json:"volume"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (LegacySalesVolume) TableName() string {
	return "LegacySalesVolumes"
}

func (v *LegacySalesVolume) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// SupplyVolume is the current-schema sales record, authoritative from the
// cutover model year onward.
type SupplyVolume struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID        uuid.UUID `gorm:"column:org_id;type:uuid;not null;index:idx_supply_volume_key" json:"org_id"`
	VehicleClass string    `gorm:"column:vehicle_class;type:varchar(20);not null;index:idx_supply_volume_key" json:"vehicle_class"`
	ModelYear    int       `gorm:"column:model_year;not null;index:idx_supply_volume_key" json:"model_year"`
	Volume       int64     `gorm:"column:volume;not null;default:0" json:"volume"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (SupplyVolume) TableName() string {
	return "SupplyVolumes"
}

func (v *SupplyVolume) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
