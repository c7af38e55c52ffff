package database

import (
	"zeva-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists")
// when running behind a connection pooler (e.g. PgBouncer).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all registry models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Organization{},
		&domain.User{},
		&domain.LegacySalesVolume{},
		&domain.SupplyVolume{},
		&domain.ZevUnitTransaction{},
		&domain.ZevUnitBalance{},
		&domain.ModelYearReport{},
		&domain.Reassessment{},
		&domain.CreditTransfer{},
		&domain.TransferEvent{},
		&domain.PenaltyAssessment{},
	)
}
