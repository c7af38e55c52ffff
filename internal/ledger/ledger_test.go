package ledger

import (
	"context"
	"fmt"
	"testing"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T) (*Ledger, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ZevUnitTransaction{}, &domain.ZevUnitBalance{}))
	return &Ledger{DB: db}, db
}

func testKey(orgID uuid.UUID, my compliance.ModelYear) Key {
	return Key{
		OrgID:        orgID,
		VehicleClass: compliance.VehicleClassReportable,
		ZevClass:     compliance.ZevClassA,
		ModelYear:    my,
	}
}

func appendUnits(t *testing.T, l *Ledger, key Key, txType compliance.TransactionType, units string) {
	t.Helper()
	require.NoError(t, l.Append(context.Background(), &domain.ZevUnitTransaction{
		OrgID:           key.OrgID,
		VehicleClass:    key.VehicleClass.String(),
		ZevClass:        key.ZevClass.String(),
		ModelYear:       key.ModelYear.Year(),
		TransactionType: txType.String(),
		NumberOfUnits:   decimal.RequireFromString(units),
	}))
}

func TestGetBalanceAbsentIsZero(t *testing.T) {
	l, _ := setupLedger(t)
	got, err := l.GetBalance(context.Background(), testKey(uuid.New(), compliance.MY2024))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCarryForwardAcrossYears(t *testing.T) {
	// Prior MY2024 balance of 10, issuance of 50 at MY2025 -> 60.
	l, _ := setupLedger(t)
	orgID := uuid.New()

	k24 := testKey(orgID, compliance.MY2024)
	appendUnits(t, l, k24, compliance.TxIssuance, "10")
	bal, err := l.RecomputeEndingBalance(context.Background(), k24)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("10")), "got %s", bal)

	k25 := testKey(orgID, compliance.MY2025)
	appendUnits(t, l, k25, compliance.TxIssuance, "50")
	bal, err = l.RecomputeEndingBalance(context.Background(), k25)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("60")), "got %s", bal)

	got, err := l.GetBalance(context.Background(), k25)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("60")))
}

func TestSignedContributions(t *testing.T) {
	l, _ := setupLedger(t)
	key := testKey(uuid.New(), compliance.MY2024)

	appendUnits(t, l, key, compliance.TxIssuance, "100.25")
	appendUnits(t, l, key, compliance.TxTransferIn, "20.50")
	appendUnits(t, l, key, compliance.TxCarryForward, "5")
	appendUnits(t, l, key, compliance.TxTransferOut, "30.75")
	appendUnits(t, l, key, compliance.TxRetirement, "10")
	appendUnits(t, l, key, compliance.TxReduction, "4.25")

	bal, err := l.RecomputeEndingBalance(context.Background(), key)
	require.NoError(t, err)
	// 100.25 + 20.50 + 5 - 30.75 - 10 - 4.25 = 80.75
	assert.True(t, bal.Equal(decimal.RequireFromString("80.75")), "got %s", bal)
}

func TestDuplicateEntriesAllRetained(t *testing.T) {
	// Two transfers with identical key and amount in one year are both
	// legitimate rows.
	l, db := setupLedger(t)
	key := testKey(uuid.New(), compliance.MY2025)

	appendUnits(t, l, key, compliance.TxTransferIn, "7")
	appendUnits(t, l, key, compliance.TxTransferIn, "7")

	var count int64
	require.NoError(t, db.Model(&domain.ZevUnitTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	bal, err := l.RecomputeEndingBalance(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("14")))
}

func TestRecomputeIsIdempotent(t *testing.T) {
	l, db := setupLedger(t)
	key := testKey(uuid.New(), compliance.MY2024)
	appendUnits(t, l, key, compliance.TxIssuance, "33.33")

	first, err := l.RecomputeEndingBalance(context.Background(), key)
	require.NoError(t, err)
	second, err := l.RecomputeEndingBalance(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))

	// Recompute replaces, never duplicates, the snapshot row.
	var count int64
	require.NoError(t, db.Model(&domain.ZevUnitBalance{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecurrenceLawOverManyYears(t *testing.T) {
	// balance(MY_n) = balance(MY_{n-1}) + net(MY_n), exactly, across 12
	// consecutive years with fractional amounts that would drift under
	// float64 accumulation.
	l, _ := setupLedger(t)
	orgID := uuid.New()

	expected := decimal.Zero
	for my := compliance.MY2024; my <= compliance.MY2035; my++ {
		key := testKey(orgID, my)
		issue := decimal.RequireFromString("10.10")
		retire := decimal.RequireFromString("0.01")
		appendUnits(t, l, key, compliance.TxIssuance, issue.String())
		appendUnits(t, l, key, compliance.TxRetirement, retire.String())

		prior, err := l.GetBalance(context.Background(), Key{OrgID: orgID, VehicleClass: key.VehicleClass, ZevClass: key.ZevClass, ModelYear: my - 1})
		require.NoError(t, err)

		bal, err := l.RecomputeEndingBalance(context.Background(), key)
		require.NoError(t, err)

		expected = expected.Add(issue).Sub(retire)
		assert.True(t, bal.Equal(expected), "year %s: got %s want %s", my, bal, expected)
		assert.True(t, bal.Equal(prior.Add(issue).Sub(retire)), "recurrence broken at %s", my)
	}

	final, err := l.GetBalance(context.Background(), testKey(orgID, compliance.MY2035))
	require.NoError(t, err)
	// 12 x (10.10 - 0.01) = 121.08, exact.
	assert.Equal(t, "121.08", final.StringFixed(2))
}

func TestAppendRejectsUnknownType(t *testing.T) {
	l, _ := setupLedger(t)
	err := l.Append(context.Background(), &domain.ZevUnitTransaction{
		OrgID:           uuid.New(),
		VehicleClass:    compliance.VehicleClassReportable.String(),
		ZevClass:        compliance.ZevClassA.String(),
		ModelYear:       2024,
		TransactionType: "grant",
		NumberOfUnits:   decimal.NewFromInt(1),
	})
	require.Error(t, err)
	var intErr *compliance.DataIntegrityError
	assert.ErrorAs(t, err, &intErr)
}

func TestAppendRejectsNegativeUnits(t *testing.T) {
	l, _ := setupLedger(t)
	err := l.Append(context.Background(), &domain.ZevUnitTransaction{
		OrgID:           uuid.New(),
		VehicleClass:    compliance.VehicleClassReportable.String(),
		ZevClass:        compliance.ZevClassA.String(),
		ModelYear:       2024,
		TransactionType: compliance.TxIssuance.String(),
		NumberOfUnits:   decimal.NewFromInt(-5),
	})
	require.Error(t, err)
	var intErr *compliance.DataIntegrityError
	assert.ErrorAs(t, err, &intErr)
}

func TestRecomputeRejectsCorruptedRow(t *testing.T) {
	// A row written behind the ledger's back with an unrecognized type is
	// upstream corruption; recompute must refuse rather than guess a sign.
	l, db := setupLedger(t)
	key := testKey(uuid.New(), compliance.MY2024)
	require.NoError(t, db.Create(&domain.ZevUnitTransaction{
		OrgID:           key.OrgID,
		VehicleClass:    key.VehicleClass.String(),
		ZevClass:        key.ZevClass.String(),
		ModelYear:       key.ModelYear.Year(),
		TransactionType: "bonus",
		NumberOfUnits:   decimal.NewFromInt(5),
	}).Error)

	_, err := l.RecomputeEndingBalance(context.Background(), key)
	require.Error(t, err)
	var intErr *compliance.DataIntegrityError
	assert.ErrorAs(t, err, &intErr)
}

func TestOrgBalances(t *testing.T) {
	l, _ := setupLedger(t)
	orgID := uuid.New()
	for _, my := range []compliance.ModelYear{compliance.MY2024, compliance.MY2025, compliance.MY2026} {
		key := testKey(orgID, my)
		appendUnits(t, l, key, compliance.TxIssuance, fmt.Sprintf("%d", my.Year()-2020))
		_, err := l.RecomputeEndingBalance(context.Background(), key)
		require.NoError(t, err)
	}

	rows, err := l.OrgBalances(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2026, rows[0].ModelYear)
	assert.Equal(t, 2024, rows[2].ModelYear)
}
