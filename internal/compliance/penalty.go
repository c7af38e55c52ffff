package compliance

import (
	"github.com/shopspring/decimal"
)

// Per-unit-shortfall penalty in dollars, by model year. The table is sparse:
// rates past MY2026 have not been published. An absent year yields no
// penalty (zero) until the statute defines one.
var penaltyRateStrings = map[ModelYear]string{
	MY2020: "5000.00",
	MY2021: "5000.00",
	MY2022: "5000.00",
	MY2023: "5000.00",
	MY2024: "5000.00",
	MY2025: "5000.00",
	MY2026: "5000.00",
}

var penaltyRates map[ModelYear]decimal.Decimal

func init() {
	penaltyRates = make(map[ModelYear]decimal.Decimal, len(penaltyRateStrings))
	for my, s := range penaltyRateStrings {
		penaltyRates[my] = decimal.RequireFromString(s)
	}
}

// PenaltyRate returns the per-unit penalty for a model year, with ok=false
// when no rate is defined.
func PenaltyRate(modelYear ModelYear) (decimal.Decimal, bool) {
	rate, ok := penaltyRates[modelYear]
	return rate, ok
}

// PenaltyForShortfall computes the dollar penalty for a unit shortfall in a
// model year. Negative or zero shortfalls and years without a published
// rate produce a zero penalty.
func PenaltyForShortfall(modelYear ModelYear, shortfall decimal.Decimal) decimal.Decimal {
	if shortfall.Sign() <= 0 {
		return decimal.Zero
	}
	rate, ok := penaltyRates[modelYear]
	if !ok {
		return decimal.Zero
	}
	return shortfall.Mul(rate).Round(2)
}
