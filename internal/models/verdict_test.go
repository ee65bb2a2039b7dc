package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdict_Normalized(t *testing.T) {
	tests := []struct {
		name          string
		verdict       Verdict
		wantTier      Complexity
		wantHours     float64
	}{
		{
			name:      "should keep hours inside the low range",
			verdict:   Verdict{Complexity: ComplexityLow, EstimatedHours: 4},
			wantTier:  ComplexityLow,
			wantHours: 4,
		},
		{
			name:      "should clamp low verdict with inflated hours to the range maximum",
			verdict:   Verdict{Complexity: ComplexityLow, EstimatedHours: 20},
			wantTier:  ComplexityLow,
			wantHours: 6,
		},
		{
			name:      "should clamp high verdict with deflated hours to the range minimum",
			verdict:   Verdict{Complexity: ComplexityHigh, EstimatedHours: 2},
			wantTier:  ComplexityHigh,
			wantHours: 15,
		},
		{
			name:      "should coerce an unrecognized tier to medium",
			verdict:   Verdict{Complexity: "Gigantic", EstimatedHours: 10},
			wantTier:  ComplexityMedium,
			wantHours: 10,
		},
		{
			name:      "should coerce and clamp together",
			verdict:   Verdict{Complexity: "???", EstimatedHours: 100},
			wantTier:  ComplexityMedium,
			wantHours: 15,
		},
		{
			name:      "should lift zero hours to the tier minimum",
			verdict:   Verdict{Complexity: ComplexityMedium, EstimatedHours: 0},
			wantTier:  ComplexityMedium,
			wantHours: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.verdict.Normalized()

			assert.Equal(t, tt.wantTier, got.Complexity)
			assert.Equal(t, tt.wantHours, got.EstimatedHours)
		})
	}
}

func TestDefaultVerdict(t *testing.T) {
	t.Run("should be a medium estimate flagged for manual review", func(t *testing.T) {
		v := DefaultVerdict()

		assert.Equal(t, ComplexityMedium, v.Complexity)
		assert.Equal(t, 8.0, v.EstimatedHours)
		assert.Equal(t, DefaultReasoning, v.Reasoning)
	})

	t.Run("should already be normalized", func(t *testing.T) {
		v := DefaultVerdict()
		assert.Equal(t, v, v.Normalized())
	})
}

func TestComplexity_HoursRange(t *testing.T) {
	t.Run("should fall back to the medium range for unknown tiers", func(t *testing.T) {
		lo, hi := ComplexityUnknown.HoursRange()

		assert.Equal(t, 6.0, lo)
		assert.Equal(t, 15.0, hi)
	})
}
