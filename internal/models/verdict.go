package models

// Complexity is the closed classification taxonomy. Unknown is reserved for
// issues whose analysis failed entirely; the classifier itself never emits it.
type Complexity string

const (
	ComplexityLow     Complexity = "Low"
	ComplexityMedium  Complexity = "Medium"
	ComplexityHigh    Complexity = "High"
	ComplexityUnknown Complexity = "Unknown"
)

// hoursRanges bounds the estimated effort per tier, in hours.
var hoursRanges = map[Complexity][2]float64{
	ComplexityLow:    {1, 6},
	ComplexityMedium: {6, 15},
	ComplexityHigh:   {15, 25},
}

// Valid reports whether c is one of the three classifiable tiers.
func (c Complexity) Valid() bool {
	_, ok := hoursRanges[c]
	return ok
}

// HoursRange returns the closed [min, max] effort interval for the tier.
// Unknown tiers fall back to the Medium interval.
func (c Complexity) HoursRange() (float64, float64) {
	r, ok := hoursRanges[c]
	if !ok {
		r = hoursRanges[ComplexityMedium]
	}
	return r[0], r[1]
}

// Verdict is the classification result for a single issue.
type Verdict struct {
	Complexity     Complexity `json:"complexity"`
	EstimatedHours float64    `json:"estimated_hours"`
	Reasoning      string     `json:"reasoning"`
}

// Normalized coerces the verdict into the taxonomy: an unrecognized tier
// becomes Medium and the hours are clamped to the tier's interval.
func (v Verdict) Normalized() Verdict {
	if !v.Complexity.Valid() {
		v.Complexity = ComplexityMedium
	}

	minHours, maxHours := v.Complexity.HoursRange()
	if v.EstimatedHours < minHours {
		v.EstimatedHours = minHours
	} else if v.EstimatedHours > maxHours {
		v.EstimatedHours = maxHours
	}

	return v
}

// DefaultReasoning is attached to verdicts produced without a model answer.
const DefaultReasoning = "Default estimate applied. Manual review recommended."

// DefaultVerdict is returned whenever classification fails for any reason;
// the classifier never propagates errors to its callers.
func DefaultVerdict() Verdict {
	return Verdict{
		Complexity:     ComplexityMedium,
		EstimatedHours: 8.0,
		Reasoning:      DefaultReasoning,
	}
}
