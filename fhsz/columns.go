package fhsz

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// HEADER ALIASES - the puantaj sheet has drifted over the years
// =============================================================================
// Several header variants exist for the same logical field. Aliases are
// centralized here; resolution picks the first alias present in the row.

var (
	aliasYear     = []string{"Ait_yil", "Ait_Yil", "Yil"}
	aliasMonth    = []string{"Donem", "1. Dönem", "Ay"}
	aliasTC       = []string{"TC_Kimlik", "TC Kimlik No"}
	aliasName     = []string{"Adi_Soyadi", "Adı Soyadı"}
	aliasHours    = []string{"Fiili Çalışma (saat)", "Fiili_calisma_(saat)", "Fiili_Calisma_Saat"}
	aliasPresent  = []string{"Calisilan_Gun", "Çalışılan Gün"}
	aliasLeave    = []string{"Izinli_Gun", "İzinli Gün"}
	aliasClass    = []string{"Hizmet_Sinifi", "Hizmet Sınıfı"}
)

// resolve returns the value of the first alias present in the record.
// Presence means the header exists, even when the cell is empty.
func resolve(rec sheets.Record, aliases []string) string {
	for _, name := range aliases {
		if v, ok := rec[name]; ok {
			return v
		}
	}
	return ""
}

// =============================================================================
// NUMERIC PARSING AND RENDERING
// =============================================================================

// ParseHours coerces a cell to non-negative decimal hours. Comma decimals
// are accepted; non-numeric (including "nan") and negative cells coerce
// to zero silently.
func ParseHours(cell string) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ",", "."))
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// parseInt coerces a cell to a non-negative int, zero on failure.
func parseInt(cell string) int {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// RenderHours formats hours for report cells: integers without a decimal,
// fractional values to one decimal, invalid source cells ("nan") empty.
func RenderHours(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	return FormatHours(ParseHours(s))
}

// FormatHours renders a decimal hour value: "350" or "80.5".
func FormatHours(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(0)
	}
	return d.StringFixed(1)
}
