package fhsz_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/radkit/radpersonel/fhsz"
)

func days(h float64) int {
	return fhsz.EntitledDays(decimal.NewFromFloat(h))
}

// =============================================================================
// STEPPED TABLE
// =============================================================================

func TestEntitledDays_AtThresholds(t *testing.T) {
	// The statutory boundary cases, including the irregular upper steps.
	tests := []struct {
		hours float64
		want  int
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{99.9, 1},
		{100, 2},
		{349, 6},
		{350, 7},
		{999, 19},
		{1000, 20},
		{1099, 20},
		{1100, 25},
		{1199, 25},
		{1200, 26},
		{1399, 28},
		{1400, 29},
		{1449, 29},
		{1450, 30},
		{9999, 30},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, days(tc.hours), "T(%v)", tc.hours)
	}
}

func TestEntitledDays_NegativeIsZero(t *testing.T) {
	assert.Equal(t, 0, days(-10))
}

func TestEntitledDays_Monotone(t *testing.T) {
	// PROPERTY: T never decreases as hours grow.
	prev := 0
	for h := 0; h <= 1600; h++ {
		d := days(float64(h))
		assert.GreaterOrEqual(t, d, prev, "T must be monotone at h=%d", h)
		prev = d
	}
	assert.Equal(t, 30, prev)
}

func TestEntitledDays_JustBelowEachThreshold(t *testing.T) {
	// PROPERTY: immediately below a threshold the previous award applies.
	// 0.1 hours is the finest granularity the timesheets carry.
	thresholds := []float64{50, 100, 500, 1000, 1100, 1450}
	prevAward := []int{0, 1, 9, 19, 20, 29}
	for i, th := range thresholds {
		assert.Equal(t, prevAward[i], days(th-0.1), "T(%v-0.1)", th)
	}
}

// =============================================================================
// PARSING AND RENDERING
// =============================================================================

func TestParseHours(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"80", "80"},
		{"80,5", "80.5"},
		{"80.5", "80.5"},
		{" 120 ", "120"},
		{"", "0"},
		{"nan", "0"},
		{"NaN", "0"},
		{"abc", "0"},
		{"-5", "0"},
	}
	for _, tc := range tests {
		got := fhsz.ParseHours(tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "ParseHours(%q) = %s", tc.in, got)
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "350", fhsz.FormatHours(decimal.NewFromInt(350)))
	assert.Equal(t, "80.5", fhsz.FormatHours(decimal.RequireFromString("80.5")))
	assert.Equal(t, "80.5", fhsz.FormatHours(decimal.RequireFromString("80.50")))
}

func TestRenderHours(t *testing.T) {
	assert.Equal(t, "", fhsz.RenderHours("nan"))
	assert.Equal(t, "", fhsz.RenderHours(""))
	assert.Equal(t, "120", fhsz.RenderHours("120"))
	assert.Equal(t, "80.5", fhsz.RenderHours("80,5"))
}
