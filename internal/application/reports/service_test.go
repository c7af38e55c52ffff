package reports

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

func setupReports(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Organization{}, &domain.ModelYearReport{},
		&domain.LegacySalesVolume{}, &domain.SupplyVolume{},
		&domain.ZevUnitTransaction{}, &domain.ZevUnitBalance{},
		&domain.PenaltyAssessment{},
	))
	return &Service{DB: db}, db
}

func seedOrg(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	org := domain.Organization{Name: "Acme Motors", ShortName: "ACME"}
	require.NoError(t, db.Create(&org).Error)
	return org.OrgID
}

func seedHistory(t *testing.T, svc *Service, orgID uuid.UUID, years ...int) {
	t.Helper()
	for _, y := range years {
		_, err := svc.Submit(context.Background(), SubmitInput{
			OrgID:            orgID,
			VehicleClass:     compliance.VehicleClassReportable.String(),
			ModelYear:        y,
			ReportableVolume: 1200,
		})
		require.NoError(t, err)
	}
}

func TestSubmitRoutesVolumeByModelYear(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2023, ReportableVolume: 500,
	})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2024, ReportableVolume: 600,
	})
	require.NoError(t, err)

	var legacyCount, currentCount int64
	require.NoError(t, db.Model(&domain.LegacySalesVolume{}).Count(&legacyCount).Error)
	require.NoError(t, db.Model(&domain.SupplyVolume{}).Count(&currentCount).Error)
	assert.Equal(t, int64(1), legacyCount)
	assert.Equal(t, int64(1), currentCount)
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025, ReportableVolume: 100,
	})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025, ReportableVolume: 100,
	})
	assert.ErrorIs(t, err, ErrDuplicateReport)
}

func TestSubmitRejectsNegativeVolume(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)
	_, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025, ReportableVolume: -1,
	})
	assert.ErrorIs(t, err, ErrVolumeNegative)
}

func TestApproveIssuesUnitsAndAssessesPenalty(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)
	// Lookback history for MY2025: 2024, 2023, 2022.
	seedHistory(t, svc, orgID, 2022, 2023, 2024)

	report, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025, ReportableVolume: 1000,
	})
	require.NoError(t, err)

	result, err := svc.Approve(context.Background(), report.ReportID, []IssuanceInput{
		{ZevClass: "A", Units: decimal.RequireFromString("120")},
		{ZevClass: "B", Units: decimal.RequireFromString("50")},
	})
	require.NoError(t, err)

	// 1000 x 0.220 (general MY2025 ratio) = 220 required.
	assert.Equal(t, "220", result.RequiredUnits.String())
	assert.Equal(t, "170", result.HeldUnits.String())
	assert.Equal(t, "50", result.Shortfall.String())
	assert.Equal(t, compliance.TierMedium, result.SupplierTier)
	assert.Equal(t, domain.ReportStatusApproved, result.Report.Status)

	require.NotNil(t, result.Penalty)
	// 50 units x $5000 = $250000.
	assert.Equal(t, "250000.00", result.Penalty.PenaltyAmount.StringFixed(2))

	led := &ledger.Ledger{DB: db}
	balA, err := led.GetBalance(context.Background(), ledger.Key{
		OrgID: orgID, VehicleClass: compliance.VehicleClassReportable,
		ZevClass: compliance.ZevClassA, ModelYear: compliance.MY2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "120", balA.String())
}

func TestApproveNoPenaltyWhenCovered(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)
	seedHistory(t, svc, orgID, 2022, 2023, 2024)

	report, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025, ReportableVolume: 1000,
	})
	require.NoError(t, err)

	result, err := svc.Approve(context.Background(), report.ReportID, []IssuanceInput{
		{ZevClass: "A", Units: decimal.RequireFromString("300")},
	})
	require.NoError(t, err)
	assert.True(t, result.Shortfall.IsZero())
	assert.Nil(t, result.Penalty)

	var count int64
	require.NoError(t, db.Model(&domain.PenaltyAssessment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestApproveRequiresPendingReport(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)
	seedHistory(t, svc, orgID, 2022, 2023, 2024)

	report, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2025, ReportableVolume: 10,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), report.ReportID, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), report.ReportID, nil)
	assert.ErrorIs(t, err, ErrReportNotPending)
}

func TestApproveFailsWithoutModelYearHistory(t *testing.T) {
	// MY2021 has only two predecessors; classification must fail the whole
	// approval with a ConfigurationError and leave the report untouched.
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)

	report, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2021, ReportableVolume: 10,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), report.ReportID, nil)
	require.Error(t, err)
	var cfgErr *compliance.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	var after domain.ModelYearReport
	require.NoError(t, db.Where("report_id = ?", report.ReportID).First(&after).Error)
	assert.Equal(t, domain.ReportStatusSubmitted, after.Status)
}

func TestRejectReport(t *testing.T) {
	svc, db := setupReports(t)
	orgID := seedOrg(t, db)

	report, err := svc.Submit(context.Background(), SubmitInput{
		OrgID: orgID, VehicleClass: "reportable", ModelYear: 2026, ReportableVolume: 10,
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), report.ReportID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusRejected, rejected.Status)

	var count int64
	require.NoError(t, db.Model(&domain.ZevUnitTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
