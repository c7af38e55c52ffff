package transfers

import (
	"context"
	"encoding/json"
	"errors"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"
	"zeva-backend/internal/events"
	"zeva-backend/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service executes credit transfers between organizations. A transfer
// appends a transfer-out and a transfer-in row and recomputes both sides'
// balances inside one DB transaction, so either everything lands or
// nothing does.
type Service struct {
	DB     *gorm.DB
	Events *events.Publisher
}

var (
	ErrTargetOrgNotFound = errors.New("Target organization not found")
	ErrSameOrg           = errors.New("Cannot transfer to the same organization")
	ErrInsufficientUnits = errors.New("Insufficient units to transfer")
	ErrUnitsNotPositive  = errors.New("number_of_units must be positive")
)

// ExecuteInput describes one transfer.
type ExecuteInput struct {
	FromOrgID      uuid.UUID       `json:"from_org_id"`
	ToOrgShortName string          `json:"to_org_short_name"`
	VehicleClass   string          `json:"vehicle_class"`
	ZevClass       string          `json:"zev_class"`
	ModelYear      int             `json:"model_year"`
	NumberOfUnits  decimal.Decimal `json:"number_of_units"`
	ActorOrgCode   *string         `json:"-"`
}

// Execute moves units between two organizations' ledgers.
func (s *Service) Execute(ctx context.Context, input ExecuteInput) (*domain.CreditTransfer, error) {
	vc := compliance.VehicleClass(input.VehicleClass)
	if !vc.Valid() {
		return nil, &compliance.DataIntegrityError{Reason: "unknown vehicle class " + input.VehicleClass}
	}
	zc := compliance.ZevClass(input.ZevClass)
	if !zc.Valid() {
		return nil, &compliance.DataIntegrityError{Reason: "unknown zev class " + input.ZevClass}
	}
	my, err := compliance.FromYear(input.ModelYear)
	if err != nil {
		return nil, err
	}
	if input.NumberOfUnits.Sign() <= 0 {
		return nil, ErrUnitsNotPositive
	}

	var transfer *domain.CreditTransfer
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var toOrg domain.Organization
		if err := tx.Where("short_name = ?", input.ToOrgShortName).First(&toOrg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetOrgNotFound
			}
			return err
		}
		if input.FromOrgID == toOrg.OrgID {
			return ErrSameOrg
		}

		led := &ledger.Ledger{DB: tx}
		fromKey := ledger.Key{OrgID: input.FromOrgID, VehicleClass: vc, ZevClass: zc, ModelYear: my}
		toKey := ledger.Key{OrgID: toOrg.OrgID, VehicleClass: vc, ZevClass: zc, ModelYear: my}

		available, err := led.GetBalance(ctx, fromKey)
		if err != nil {
			return err
		}
		if available.LessThan(input.NumberOfUnits) {
			return ErrInsufficientUnits
		}

		transfer = &domain.CreditTransfer{
			FromOrgID:     input.FromOrgID,
			ToOrgID:       toOrg.OrgID,
			VehicleClass:  vc.String(),
			ZevClass:      zc.String(),
			ModelYear:     my.Year(),
			NumberOfUnits: input.NumberOfUnits,
			Status:        domain.TransferStatusExecuted,
		}
		if err := tx.Create(transfer).Error; err != nil {
			return err
		}

		if err := led.Append(ctx, &domain.ZevUnitTransaction{
			OrgID:           input.FromOrgID,
			VehicleClass:    vc.String(),
			ZevClass:        zc.String(),
			ModelYear:       my.Year(),
			TransactionType: compliance.TxTransferOut.String(),
			NumberOfUnits:   input.NumberOfUnits,
			ReferenceID:     &transfer.TransferID,
		}); err != nil {
			return err
		}
		if err := led.Append(ctx, &domain.ZevUnitTransaction{
			OrgID:           toOrg.OrgID,
			VehicleClass:    vc.String(),
			ZevClass:        zc.String(),
			ModelYear:       my.Year(),
			TransactionType: compliance.TxTransferIn.String(),
			NumberOfUnits:   input.NumberOfUnits,
			ReferenceID:     &transfer.TransferID,
		}); err != nil {
			return err
		}

		if _, err := led.RecomputeEndingBalance(ctx, fromKey); err != nil {
			return err
		}
		if _, err := led.RecomputeEndingBalance(ctx, toKey); err != nil {
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"number_of_units": input.NumberOfUnits.String(),
			"zev_class":       zc.String(),
			"model_year":      my.Year(),
			"to_org":          toOrg.ShortName,
		})
		return tx.Create(&domain.TransferEvent{
			TransferID:   transfer.TransferID,
			EventType:    "EXECUTED",
			ActorOrgCode: input.ActorOrgCode,
			EventData:    datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, events.Event{
		Type:  events.TypeTransferExecuted,
		OrgID: input.FromOrgID.String(),
		Payload: map[string]interface{}{
			"transfer_id":     transfer.TransferID.String(),
			"to_org":          input.ToOrgShortName,
			"number_of_units": input.NumberOfUnits.String(),
		},
	})
	return transfer, nil
}

// FormattedTransfer is the list shape with counterparty short names
// resolved.
type FormattedTransfer struct {
	TransferID    uuid.UUID       `json:"transfer_id"`
	FromOrg       string          `json:"from_org"`
	ToOrg         string          `json:"to_org"`
	VehicleClass  string          `json:"vehicle_class"`
	ZevClass      string          `json:"zev_class"`
	ModelYear     int             `json:"model_year"`
	NumberOfUnits decimal.Decimal `json:"number_of_units"`
	Status        string          `json:"status"`
	CreatedAt     interface{}     `json:"created_at"`
}

// ListOrgTransfers returns transfers where the organization is either side,
// newest first.
func (s *Service) ListOrgTransfers(ctx context.Context, orgID uuid.UUID) ([]FormattedTransfer, error) {
	var rows []domain.CreditTransfer
	if err := s.DB.WithContext(ctx).
		Where("from_org_id = ? OR to_org_id = ?", orgID, orgID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []FormattedTransfer{}, nil
	}

	orgIDs := map[uuid.UUID]bool{}
	for _, t := range rows {
		orgIDs[t.FromOrgID] = true
		orgIDs[t.ToOrgID] = true
	}
	ids := make([]uuid.UUID, 0, len(orgIDs))
	for id := range orgIDs {
		ids = append(ids, id)
	}
	var orgs []domain.Organization
	if err := s.DB.WithContext(ctx).Where("org_id IN ?", ids).Select("org_id, short_name").Find(&orgs).Error; err != nil {
		return nil, err
	}
	names := map[uuid.UUID]string{}
	for _, o := range orgs {
		names[o.OrgID] = o.ShortName
	}

	out := make([]FormattedTransfer, len(rows))
	for i, t := range rows {
		out[i] = FormattedTransfer{
			TransferID:    t.TransferID,
			FromOrg:       names[t.FromOrgID],
			ToOrg:         names[t.ToOrgID],
			VehicleClass:  t.VehicleClass,
			ZevClass:      t.ZevClass,
			ModelYear:     t.ModelYear,
			NumberOfUnits: t.NumberOfUnits,
			Status:        t.Status,
			CreatedAt:     t.CreatedAt,
		}
	}
	return out, nil
}
