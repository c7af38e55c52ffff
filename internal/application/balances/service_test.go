package balances

import (
	"context"
	"testing"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"
	"zeva-backend/internal/ledger"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBalances(t *testing.T) (*Service, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ModelYearReport{}, &domain.ZevUnitTransaction{}, &domain.ZevUnitBalance{},
	))
	return &Service{DB: db}, db, uuid.New()
}

func issue(t *testing.T, db *gorm.DB, orgID uuid.UUID, zevClass, units string, year int) {
	t.Helper()
	led := &ledger.Ledger{DB: db}
	require.NoError(t, led.Append(context.Background(), &domain.ZevUnitTransaction{
		OrgID:           orgID,
		VehicleClass:    "reportable",
		ZevClass:        zevClass,
		ModelYear:       year,
		TransactionType: compliance.TxIssuance.String(),
		NumberOfUnits:   decimal.RequireFromString(units),
	}))
	my, err := compliance.FromYear(year)
	require.NoError(t, err)
	_, err = led.RecomputeEndingBalance(context.Background(), ledger.Key{
		OrgID: orgID, VehicleClass: compliance.VehicleClassReportable,
		ZevClass: compliance.ZevClass(zevClass), ModelYear: my,
	})
	require.NoError(t, err)
}

func TestSummaryWithApprovedReport(t *testing.T) {
	svc, db, orgID := setupBalances(t)
	tier := string(compliance.TierMedium)
	require.NoError(t, db.Create(&domain.ModelYearReport{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025,
		ReportableVolume: 1000, Status: domain.ReportStatusApproved,
		SupplierTier: &tier, RequiredUnits: decimal.RequireFromString("220"),
	}).Error)
	issue(t, db, orgID, "A", "150", 2025)
	issue(t, db, orgID, "B", "20", 2025)

	got, err := svc.Summary(context.Background(), orgID, "reportable", 2025)
	require.NoError(t, err)
	assert.Equal(t, "220", got.RequiredUnits.String())
	assert.Equal(t, "170", got.HeldUnits.String())
	assert.Equal(t, "50", got.Shortfall.String())
	// 50 units x $5000 MY2025 rate.
	assert.Equal(t, "250000.00", got.PenaltyAmount.StringFixed(2))
}

func TestSummaryNoApprovedReport(t *testing.T) {
	svc, db, orgID := setupBalances(t)
	issue(t, db, orgID, "A", "40", 2026)

	got, err := svc.Summary(context.Background(), orgID, "reportable", 2026)
	require.NoError(t, err)
	assert.True(t, got.RequiredUnits.IsZero())
	assert.Equal(t, "40", got.HeldUnits.String())
	assert.True(t, got.Shortfall.IsZero())
	assert.True(t, got.PenaltyAmount.IsZero())
}

func TestSummaryRejectsUnknownVehicleClass(t *testing.T) {
	svc, _, orgID := setupBalances(t)
	_, err := svc.Summary(context.Background(), orgID, "hovercraft", 2026)
	var intErr *compliance.DataIntegrityError
	assert.ErrorAs(t, err, &intErr)
}

func TestViewBalancesListsSnapshots(t *testing.T) {
	svc, db, orgID := setupBalances(t)
	issue(t, db, orgID, "A", "10", 2025)
	issue(t, db, orgID, "B", "5", 2026)

	rows, err := svc.ViewBalances(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Newest model year first.
	assert.Equal(t, 2026, rows[0].ModelYear)
}
