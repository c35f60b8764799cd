/*
Package fhsz computes fiili hizmet süresi zammı (şua) entitlements from
monthly timesheets.

PURPOSE:
  Radiation workers earn additional service days as their cumulative
  exposed-work hours climb a statutory stepped table. This package turns
  per-person, per-month puantaj rows into cumulative yearly series and
  entitlement day counts, in two query modes: the annual summary and the
  monthly cumulative report.

THE STEPPED TABLE:
  Two parallel ordered vectors: hour thresholds and day awards. T(h) is
  the award at the greatest threshold not exceeding h. Below 50 hours the
  award is 0; from 1450 hours it stays at 30 (the statute ends there).

NUMERIC HANDLING:
  Cells arrive as strings with comma decimals ("80,5"). Hours are decimal
  values with one fractional digit; arithmetic uses decimal.Decimal so a
  twelve-month sum is exact. Non-numeric and negative cells coerce to 0
  silently, matching how the sheets have always been filled in.

SEE ALSO:
  - columns.go: header alias resolution and parsing
  - engine.go: the two report projections
*/
package fhsz

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STEPPED TABLE - statutory hour thresholds and day awards
// =============================================================================

var thresholds = []int{
	0, 50, 100, 150, 200, 250, 300, 350, 400, 450,
	500, 550, 600, 650, 700, 750, 800, 850, 900, 950,
	1000, 1100, 1200, 1300, 1400, 1450,
}

var awards = []int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9,
	10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
	20, 25, 26, 28, 29, 30,
}

var decimalThresholds = func() []decimal.Decimal {
	out := make([]decimal.Decimal, len(thresholds))
	for i, t := range thresholds {
		out[i] = decimal.NewFromInt(int64(t))
	}
	return out
}()

// EntitledDays returns T(h): the award of the greatest threshold <= h.
// Negative hours award 0.
func EntitledDays(h decimal.Decimal) int {
	if h.IsNegative() {
		return 0
	}
	// Upper-bound search: first index whose threshold exceeds h.
	lo, hi := 0, len(decimalThresholds)
	for lo < hi {
		mid := (lo + hi) / 2
		if decimalThresholds[mid].GreaterThan(h) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == 0 {
		return 0
	}
	return awards[lo-1]
}
