package models

import "fmt"

// Period identifies one billing cycle.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Valid reports whether the period is a plausible year/month pair.
func (p Period) Valid() bool {
	return p.Year >= 2000 && p.Year <= 2100 && p.Month >= 1 && p.Month <= 12
}

// Prev returns the preceding period, rolling the year back across January.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
