package compliance

import "fmt"

// ModelYear is the time axis for every statute table and ledger entry.
// The enumeration is totally ordered and gapless between MinModelYear and
// MaxModelYear.
type ModelYear int

const (
	MY2019 ModelYear = 2019 + iota
	MY2020
	MY2021
	MY2022
	MY2023
	MY2024
	MY2025
	MY2026
	MY2027
	MY2028
	MY2029
	MY2030
	MY2031
	MY2032
	MY2033
	MY2034
	MY2035
)

const (
	MinModelYear = MY2019
	MaxModelYear = MY2035
)

// CutoverModelYear separates the legacy sales-volume schema (authoritative
// for model years before it) from the current supply-volume schema. Statute
// amendments could shift this boundary, so it is a named constant.
const CutoverModelYear = MY2024

// FromYear converts a plain calendar year to a ModelYear.
func FromYear(year int) (ModelYear, error) {
	my := ModelYear(year)
	if !my.Valid() {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("model year %d outside supported range %d-%d", year, int(MinModelYear), int(MaxModelYear))}
	}
	return my, nil
}

// Year returns the plain calendar year.
func (m ModelYear) Year() int {
	return int(m)
}

func (m ModelYear) Valid() bool {
	return m >= MinModelYear && m <= MaxModelYear
}

func (m ModelYear) String() string {
	return fmt.Sprintf("%d", int(m))
}

// Next returns the successor model year.
func (m ModelYear) Next() (ModelYear, error) {
	if m >= MaxModelYear {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("no model year after %s", m)}
	}
	return m + 1, nil
}

// Prev returns the predecessor model year.
func (m ModelYear) Prev() (ModelYear, error) {
	if m <= MinModelYear {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("no model year before %s", m)}
	}
	return m - 1, nil
}

// Preceding returns the n model years immediately before m, most-recent
// first. Fails when fewer than n predecessors exist in the enumeration;
// a short window is never returned silently.
func (m ModelYear) Preceding(n int) ([]ModelYear, error) {
	if !m.Valid() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid model year %d", int(m))}
	}
	years := make([]ModelYear, 0, n)
	cur := m
	for i := 0; i < n; i++ {
		prev, err := cur.Prev()
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("insufficient model-year history: %s has %d predecessors, need %d", m, i, n)}
		}
		years = append(years, prev)
		cur = prev
	}
	return years, nil
}
