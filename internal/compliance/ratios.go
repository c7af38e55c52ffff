package compliance

import (
	"github.com/shopspring/decimal"
)

// Compliance ratios are statute-derived constants. The general table maps
// (vehicle class, model year) to the fraction of reportable sales volume a
// supplier must cover with ZEV units; the special table overrides it for
// specific ZEV classes (currently only class A under the reportable vehicle
// class). Values are decimal strings parsed exactly once at package init;
// they never pass through binary floating point.

var generalRatioStrings = map[VehicleClass]map[ModelYear]string{
	VehicleClassReportable: {
		MY2020: "0.095",
		MY2021: "0.120",
		MY2022: "0.145",
		MY2023: "0.170",
		MY2024: "0.195",
		MY2025: "0.220",
		MY2026: "0.263",
		MY2027: "0.424",
		MY2028: "0.586",
		MY2029: "0.747",
		MY2030: "0.909",
		MY2031: "0.927",
		MY2032: "0.945",
		MY2033: "0.964",
		MY2034: "0.982",
		MY2035: "1.000",
	},
}

var specialRatioStrings = map[VehicleClass]map[ZevClass]map[ModelYear]string{
	VehicleClassReportable: {
		ZevClassA: {
			MY2026: "0.152",
			MY2027: "0.267",
			MY2028: "0.384",
			MY2029: "0.501",
			MY2030: "0.618",
			MY2031: "0.676",
			MY2032: "0.734",
			MY2033: "0.791",
			MY2034: "0.849",
			MY2035: "0.908",
		},
	},
}

var (
	generalRatios map[VehicleClass]map[ModelYear]decimal.Decimal
	specialRatios map[VehicleClass]map[ZevClass]map[ModelYear]decimal.Decimal
)

func init() {
	generalRatios = make(map[VehicleClass]map[ModelYear]decimal.Decimal, len(generalRatioStrings))
	for vc, byYear := range generalRatioStrings {
		m := make(map[ModelYear]decimal.Decimal, len(byYear))
		for my, s := range byYear {
			m[my] = decimal.RequireFromString(s)
		}
		generalRatios[vc] = m
	}

	specialRatios = make(map[VehicleClass]map[ZevClass]map[ModelYear]decimal.Decimal, len(specialRatioStrings))
	for vc, byClass := range specialRatioStrings {
		cm := make(map[ZevClass]map[ModelYear]decimal.Decimal, len(byClass))
		for zc, byYear := range byClass {
			m := make(map[ModelYear]decimal.Decimal, len(byYear))
			for my, s := range byYear {
				m[my] = decimal.RequireFromString(s)
			}
			cm[zc] = m
		}
		specialRatios[vc] = cm
	}
}

// ComplianceRatio resolves the ratio for a (vehicle class, ZEV class, model
// year) triple. The special table wins when it has an entry; otherwise the
// general table applies. Absence from both tables means no ratio is
// published, reported via ok=false; callers treat that as a zero
// obligation, not an error.
func ComplianceRatio(vehicleClass VehicleClass, zevClass ZevClass, modelYear ModelYear) (decimal.Decimal, bool) {
	if byClass, ok := specialRatios[vehicleClass]; ok {
		if byYear, ok := byClass[zevClass]; ok {
			if ratio, ok := byYear[modelYear]; ok {
				return ratio, true
			}
		}
	}
	if byYear, ok := generalRatios[vehicleClass]; ok {
		if ratio, ok := byYear[modelYear]; ok {
			return ratio, true
		}
	}
	return decimal.Zero, false
}
