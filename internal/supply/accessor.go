// Package supply provides the unified supply-volume accessor over the two
// physically distinct stores: the legacy sales-volume table (authoritative
// before the cutover model year) and the current supply-volume table
// (authoritative from the cutover onward). Callers never see the branch.
package supply

import (
	"context"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Accessor implements compliance.VolumeFetcher against GORM.
type Accessor struct {
	DB *gorm.DB
}

// FetchVolumes returns the positive supply volumes for one organization,
// vehicle class and model year, routed to the store that is authoritative
// for that model year.
func (a *Accessor) FetchVolumes(ctx context.Context, vehicleClass compliance.VehicleClass, modelYear compliance.ModelYear, organizationID uuid.UUID) ([]compliance.SupplyVolume, error) {
	q := a.DB.WithContext(ctx).
		Where("org_id = ? AND vehicle_class = ? AND model_year = ? AND volume > 0",
			organizationID, vehicleClass.String(), modelYear.Year())

	if modelYear < compliance.CutoverModelYear {
		var rows []domain.LegacySalesVolume
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]compliance.SupplyVolume, 0, len(rows))
		for _, r := range rows {
			out = append(out, compliance.SupplyVolume{
				OrganizationID: r.OrgID,
				VehicleClass:   compliance.VehicleClass(r.VehicleClass),
				ModelYear:      compliance.ModelYear(r.ModelYear),
				Volume:         r.Volume,
			})
		}
		return out, nil
	}

	var rows []domain.SupplyVolume
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]compliance.SupplyVolume, 0, len(rows))
	for _, r := range rows {
		out = append(out, compliance.SupplyVolume{
			OrganizationID: r.OrgID,
			VehicleClass:   compliance.VehicleClass(r.VehicleClass),
			ModelYear:      compliance.ModelYear(r.ModelYear),
			Volume:         r.Volume,
		})
	}
	return out, nil
}
