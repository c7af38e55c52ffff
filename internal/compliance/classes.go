package compliance

// VehicleClass categorizes vehicles for compliance purposes. Only the
// reportable class currently carries compliance-ratio obligations.
type VehicleClass string

const (
	VehicleClassReportable VehicleClass = "reportable"
	VehicleClassExempt     VehicleClass = "exempt"
)

func (v VehicleClass) Valid() bool {
	switch v {
	case VehicleClassReportable, VehicleClassExempt:
		return true
	}
	return false
}

func (v VehicleClass) String() string {
	return string(v)
}

// ZevClass is the credit category of a ZEV unit. Class A carries a distinct,
// lower compliance-ratio schedule than the general schedule.
type ZevClass string

const (
	ZevClassA           ZevClass = "A"
	ZevClassB           ZevClass = "B"
	ZevClassUnspecified ZevClass = "unspecified"
)

func (z ZevClass) Valid() bool {
	switch z {
	case ZevClassA, ZevClassB, ZevClassUnspecified:
		return true
	}
	return false
}

func (z ZevClass) String() string {
	return string(z)
}

// SupplierTier is the volume-based size class of a supplier, derived from
// its trailing 3-model-year sales history.
type SupplierTier string

const (
	TierUnclassified SupplierTier = "unclassified"
	TierSmall        SupplierTier = "small"
	TierMedium       SupplierTier = "medium"
	TierLarge        SupplierTier = "large"
)

// Average annual volume thresholds for the medium and large tiers.
const (
	mediumTierThreshold = 1000
	largeTierThreshold  = 5000
)
