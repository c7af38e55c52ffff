package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a vehicle supplier (or the government organization that
// administers the program).
type Organization struct {
	OrgID        uuid.UUID      `gorm:"column:org_id;type:uuid;primaryKey" json:"org_id"`
	Name         string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	ShortName    string         `gorm:"column:short_name;type:varchar(16);not null;uniqueIndex" json:"short_name"`
	IsGovernment bool           `gorm:"column:is_government;not null;default:false" json:"is_government"`
	AddressLine  *string        `gorm:"column:address_line" json:"address_line"`
	City         *string        `gorm:"column:city" json:"city"`
	Province     *string        `gorm:"column:province" json:"province"`
	PostalCode   *string        `gorm:"column:postal_code" json:"postal_code"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string {
	return "Organizations"
}

// BeforeCreate ensures org_id is set for DBs without default uuid.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.OrgID == uuid.Nil {
		o.OrgID = uuid.New()
	}
	return nil
}
