package compliance

import (
	"github.com/shopspring/decimal"
)

// requiredUnitsScale fixes the rounding policy for obligations: the product
// of volume and ratio is rounded half-up to 2 decimal places. The result
// feeds statutory penalty calculations, so the policy is deliberate and
// must not change silently.
const requiredUnitsScale = 2

// RequiredUnits computes the number of ZEV units a supplier must hold for a
// reportable sales volume. Lookup order: special ratio table first, general
// table second; when neither publishes a ratio the obligation is zero (most
// vehicle-class/ZEV-class combinations have no published ratio). Pure
// function of its table inputs and arguments.
func RequiredUnits(vehicleClass VehicleClass, zevClass ZevClass, modelYear ModelYear, reportableVolume int64) decimal.Decimal {
	ratio, ok := ComplianceRatio(vehicleClass, zevClass, modelYear)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromInt(reportableVolume).Mul(ratio).Round(requiredUnitsScale)
}
