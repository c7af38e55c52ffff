// Package ledger implements the ZEV unit ledger: an append-only transaction
// log plus a derived ending-balance snapshot per
// (organization, vehicle class, ZEV class, model year) key.
//
// Balances are never patched incrementally. Every recompute replays the
// key's log for the year on top of the previous year's ending balance and
// replaces the snapshot row, so the recurrence
//
//	balance(MY_n) = balance(MY_{n-1}) + net signed sum of MY_n transactions
//
// holds exactly across arbitrarily many years. Replay cost is acceptable
// because volumes are bounded by organizations x model years x classes.
//
// The ledger performs no internal locking: keys partition by organization,
// and the host must serialize concurrent recomputes for the same key
// (row-level lock or transaction) and provide read-your-writes consistency
// between Append and RecomputeEndingBalance.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Key identifies one balance series in the ledger.
type Key struct {
	OrgID        uuid.UUID
	VehicleClass compliance.VehicleClass
	ZevClass     compliance.ZevClass
	ModelYear    compliance.ModelYear
}

// Ledger reads and writes unit transactions and balance snapshots through
// GORM. Pass a transaction-scoped *gorm.DB to make append+recompute atomic.
type Ledger struct {
	DB *gorm.DB
}

// Append adds one immutable transaction-log row. Duplicate-looking entries
// for the same key are legitimate and all retained. Rejects unknown
// transaction types and negative unit counts with a DataIntegrityError;
// never fails otherwise on valid input.
func (l *Ledger) Append(ctx context.Context, rec *domain.ZevUnitTransaction) error {
	txType := compliance.TransactionType(rec.TransactionType)
	if !txType.Valid() {
		return &compliance.DataIntegrityError{Reason: fmt.Sprintf("unknown transaction type %q", rec.TransactionType)}
	}
	if rec.NumberOfUnits.Sign() < 0 {
		return &compliance.DataIntegrityError{Reason: fmt.Sprintf("negative unit count %s for transaction type %q", rec.NumberOfUnits, rec.TransactionType)}
	}
	if !compliance.ModelYear(rec.ModelYear).Valid() {
		return &compliance.DataIntegrityError{Reason: fmt.Sprintf("model year %d outside supported range", rec.ModelYear)}
	}
	return l.DB.WithContext(ctx).Create(rec).Error
}

// RecomputeEndingBalance replays the transaction log for the key's model
// year on top of the preceding year's ending balance, then writes/replaces
// the single snapshot row for the key. Sole mutator of the balance table.
// Returns the new balance.
func (l *Ledger) RecomputeEndingBalance(ctx context.Context, key Key) (decimal.Decimal, error) {
	prior := decimal.Zero
	if prev, err := key.ModelYear.Prev(); err == nil {
		priorKey := key
		priorKey.ModelYear = prev
		p, err := l.GetBalance(ctx, priorKey)
		if err != nil {
			return decimal.Zero, err
		}
		prior = p
	}

	var rows []domain.ZevUnitTransaction
	if err := l.DB.WithContext(ctx).
		Where("org_id = ? AND vehicle_class = ? AND zev_class = ? AND model_year = ?",
			key.OrgID, key.VehicleClass.String(), key.ZevClass.String(), key.ModelYear.Year()).
		Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}

	net := decimal.Zero
	for _, row := range rows {
		sign, ok := compliance.TransactionType(row.TransactionType).Sign()
		if !ok {
			return decimal.Zero, &compliance.DataIntegrityError{Reason: fmt.Sprintf("ledger row %s has unknown transaction type %q", row.TxID, row.TransactionType)}
		}
		if sign > 0 {
			net = net.Add(row.NumberOfUnits)
		} else {
			net = net.Sub(row.NumberOfUnits)
		}
	}

	balance := prior.Add(net)

	var snapshot domain.ZevUnitBalance
	err := l.DB.WithContext(ctx).
		Where("org_id = ? AND vehicle_class = ? AND zev_class = ? AND model_year = ?",
			key.OrgID, key.VehicleClass.String(), key.ZevClass.String(), key.ModelYear.Year()).
		First(&snapshot).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		snapshot = domain.ZevUnitBalance{
			OrgID:         key.OrgID,
			VehicleClass:  key.VehicleClass.String(),
			ZevClass:      key.ZevClass.String(),
			ModelYear:     key.ModelYear.Year(),
			EndingBalance: balance,
		}
		if err := l.DB.WithContext(ctx).Create(&snapshot).Error; err != nil {
			return decimal.Zero, err
		}
	case err != nil:
		return decimal.Zero, err
	default:
		snapshot.EndingBalance = balance
		if err := l.DB.WithContext(ctx).Save(&snapshot).Error; err != nil {
			return decimal.Zero, err
		}
	}

	return balance, nil
}

// GetBalance returns the snapshot balance for a key, or zero when no row
// exists. Absence means "never transacted", not an error.
func (l *Ledger) GetBalance(ctx context.Context, key Key) (decimal.Decimal, error) {
	var snapshot domain.ZevUnitBalance
	err := l.DB.WithContext(ctx).
		Where("org_id = ? AND vehicle_class = ? AND zev_class = ? AND model_year = ?",
			key.OrgID, key.VehicleClass.String(), key.ZevClass.String(), key.ModelYear.Year()).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return snapshot.EndingBalance, nil
}

// OrgBalances lists every snapshot row for an organization, newest model
// year first.
func (l *Ledger) OrgBalances(ctx context.Context, orgID uuid.UUID) ([]domain.ZevUnitBalance, error) {
	var rows []domain.ZevUnitBalance
	if err := l.DB.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("model_year DESC, vehicle_class, zev_class").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
