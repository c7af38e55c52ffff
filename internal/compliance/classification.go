package compliance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// lookbackYears is the statutory window for supplier classification.
const lookbackYears = 3

// SupplyVolume is one organization's sales volume for a vehicle class and
// model year. Volume is never negative.
type SupplyVolume struct {
	OrganizationID uuid.UUID
	VehicleClass   VehicleClass
	ModelYear      ModelYear
	Volume         int64
}

// VolumeFetcher is the unified supply-volume accessor. Implementations route
// each queried model year to the legacy or current store at the cutover
// boundary; the branch never leaks to callers.
type VolumeFetcher interface {
	FetchVolumes(ctx context.Context, vehicleClass VehicleClass, modelYear ModelYear, organizationID uuid.UUID) ([]SupplyVolume, error)
}

// Classification is the outcome of the 3-year lookback. An empty Volumes
// slice means the supplier has no classification data for the window; the
// caller must not default it to small-volume.
type Classification struct {
	PrecedingModelYears []ModelYear
	Volumes             []SupplyVolume
	Tier                SupplierTier
}

// Classifier determines a supplier's volume-based class from the trailing
// 3-model-year sales history. Pure read; no side effects.
type Classifier struct {
	Volumes VolumeFetcher
}

// Classify walks backward from complianceModelYear exactly 3 steps,
// collecting the preceding years most-recent first, and fetches each year's
// positive volumes through the unified accessor. A compliance year with
// fewer than 3 predecessors fails with a ConfigurationError rather than
// silently truncating the window.
func (c *Classifier) Classify(ctx context.Context, vehicleClass VehicleClass, complianceModelYear ModelYear, organizationID uuid.UUID) (*Classification, error) {
	if !vehicleClass.Valid() {
		return nil, &DataIntegrityError{Reason: fmt.Sprintf("unknown vehicle class %q", vehicleClass)}
	}
	years, err := complianceModelYear.Preceding(lookbackYears)
	if err != nil {
		return nil, err
	}

	volumes := make([]SupplyVolume, 0, lookbackYears)
	for _, my := range years {
		rows, err := c.Volumes.FetchVolumes(ctx, vehicleClass, my, organizationID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Volume < 0 {
				return nil, &DataIntegrityError{Reason: fmt.Sprintf("negative supply volume %d for org %s model year %s", row.Volume, organizationID, my)}
			}
			// Zero-volume years are excluded entirely; the accessor
			// filters them, this guards alternative implementations.
			if row.Volume == 0 {
				continue
			}
			volumes = append(volumes, row)
		}
	}

	return &Classification{
		PrecedingModelYears: years,
		Volumes:             volumes,
		Tier:                tierFor(volumes),
	}, nil
}

// tierFor derives the supplier size tier from the average annual volume
// over the lookback window. No volumes means no classification data.
func tierFor(volumes []SupplyVolume) SupplierTier {
	if len(volumes) == 0 {
		return TierUnclassified
	}
	var total int64
	for _, v := range volumes {
		total += v.Volume
	}
	avg := decimal.NewFromInt(total).DivRound(decimal.NewFromInt(lookbackYears), 4)
	switch {
	case avg.GreaterThanOrEqual(decimal.NewFromInt(largeTierThreshold)):
		return TierLarge
	case avg.GreaterThanOrEqual(decimal.NewFromInt(mediumTierThreshold)):
		return TierMedium
	default:
		return TierSmall
	}
}
