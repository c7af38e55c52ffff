package supply

import (
	"context"
	"testing"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAccessor(t *testing.T) (*Accessor, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.LegacySalesVolume{}, &domain.SupplyVolume{}))
	return &Accessor{DB: db}, db
}

func seedLegacy(t *testing.T, db *gorm.DB, orgID uuid.UUID, year int, volume int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.LegacySalesVolume{
		OrgID:        orgID,
		VehicleClass: compliance.VehicleClassReportable.String(),
		ModelYear:    year,
		Volume:       volume,
	}).Error)
}

func seedCurrent(t *testing.T, db *gorm.DB, orgID uuid.UUID, year int, volume int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.SupplyVolume{
		OrgID:        orgID,
		VehicleClass: compliance.VehicleClassReportable.String(),
		ModelYear:    year,
		Volume:       volume,
	}).Error)
}

func TestFetchRoutesPreCutoverToLegacyStore(t *testing.T) {
	a, db := setupAccessor(t)
	orgID := uuid.New()
	seedLegacy(t, db, orgID, 2023, 500)
	// A current-store row for the same pre-cutover year must be invisible.
	seedCurrent(t, db, orgID, 2023, 9999)

	rows, err := a.FetchVolumes(context.Background(), compliance.VehicleClassReportable, compliance.MY2023, orgID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(500), rows[0].Volume)
}

func TestFetchRoutesCutoverOnwardToCurrentStore(t *testing.T) {
	a, db := setupAccessor(t)
	orgID := uuid.New()
	seedCurrent(t, db, orgID, 2024, 800)
	seedLegacy(t, db, orgID, 2024, 9999)

	rows, err := a.FetchVolumes(context.Background(), compliance.VehicleClassReportable, compliance.MY2024, orgID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(800), rows[0].Volume)
}

func TestFetchExcludesZeroVolumes(t *testing.T) {
	a, db := setupAccessor(t)
	orgID := uuid.New()
	seedCurrent(t, db, orgID, 2025, 0)
	seedCurrent(t, db, orgID, 2025, 250)

	rows, err := a.FetchVolumes(context.Background(), compliance.VehicleClassReportable, compliance.MY2025, orgID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(250), rows[0].Volume)
}

func TestClassifyCutoverLookbackReadsLegacy(t *testing.T) {
	// Compliance year MY2024: the three preceding years (2023, 2022, 2021)
	// are all pre-cutover, so every row comes from the legacy store.
	a, db := setupAccessor(t)
	orgID := uuid.New()
	seedLegacy(t, db, orgID, 2023, 300)
	seedLegacy(t, db, orgID, 2022, 200)
	seedLegacy(t, db, orgID, 2021, 100)
	seedCurrent(t, db, orgID, 2023, 9999)

	c := &compliance.Classifier{Volumes: a}
	got, err := c.Classify(context.Background(), compliance.VehicleClassReportable, compliance.MY2024, orgID)
	require.NoError(t, err)
	require.Len(t, got.Volumes, 3)
	assert.Equal(t, int64(300), got.Volumes[0].Volume)
	assert.Equal(t, int64(200), got.Volumes[1].Volume)
	assert.Equal(t, int64(100), got.Volumes[2].Volume)
}

func TestClassifyPostCutoverLookbackReadsCurrent(t *testing.T) {
	// Compliance year MY2027: 2026, 2025, 2024 are all cutover-onward.
	a, db := setupAccessor(t)
	orgID := uuid.New()
	seedCurrent(t, db, orgID, 2026, 600)
	seedCurrent(t, db, orgID, 2025, 500)
	seedCurrent(t, db, orgID, 2024, 400)
	seedLegacy(t, db, orgID, 2024, 9999)

	c := &compliance.Classifier{Volumes: a}
	got, err := c.Classify(context.Background(), compliance.VehicleClassReportable, compliance.MY2027, orgID)
	require.NoError(t, err)
	require.Len(t, got.Volumes, 3)
	assert.Equal(t, int64(600), got.Volumes[0].Volume)
	assert.Equal(t, int64(400), got.Volumes[2].Volume)
}

func TestClassifyStraddlingCutover(t *testing.T) {
	// Compliance year MY2026 looks back at 2025, 2024 (current) and 2023
	// (legacy); the accessor merges both schemas coherently.
	a, db := setupAccessor(t)
	orgID := uuid.New()
	seedCurrent(t, db, orgID, 2025, 500)
	seedCurrent(t, db, orgID, 2024, 400)
	seedLegacy(t, db, orgID, 2023, 300)

	c := &compliance.Classifier{Volumes: a}
	got, err := c.Classify(context.Background(), compliance.VehicleClassReportable, compliance.MY2026, orgID)
	require.NoError(t, err)
	require.Len(t, got.Volumes, 3)
	assert.Equal(t, compliance.MY2025, got.Volumes[0].ModelYear)
	assert.Equal(t, compliance.MY2023, got.Volumes[2].ModelYear)
}
