package analysis

import "math"

// DefaultProportionThreshold is the largest value read as a 0..1 proportion.
// Values in (1, 1.5] absorb rounding noise from exports that emit 1.0000001-style proportions.
const DefaultProportionThreshold = 1.5

// PercentPolicy decides how ambiguous-scale percentages are canonicalized.
type PercentPolicy struct {
	// ProportionThreshold: values <= threshold are multiplied by 100.
	// Zero means DefaultProportionThreshold.
	ProportionThreshold float64
}

// DefaultPercentPolicy returns the policy used when nothing is configured.
func DefaultPercentPolicy() PercentPolicy {
	return PercentPolicy{ProportionThreshold: DefaultProportionThreshold}
}

func (p PercentPolicy) threshold() float64 {
	if p.ProportionThreshold <= 0 {
		return DefaultProportionThreshold
	}
	return p.ProportionThreshold
}

// Normalize puts n on the 0..100 display scale. Null stays null.
func (p PercentPolicy) Normalize(n Num) Num {
	if !n.Valid {
		return None
	}
	if n.Value <= p.threshold() {
		return finite(trimNoise(n.Value * 100))
	}
	return n
}

// NormalizePercent applies the default policy.
func NormalizePercent(n Num) Num {
	return DefaultPercentPolicy().Normalize(n)
}

// CoercePercent coerces raw and normalizes it under p.
func (p PercentPolicy) CoercePercent(raw any) Num {
	return p.Normalize(Coerce(raw))
}

// trimNoise drops binary floating point residue such as 0.42*100 = 42.00000000000001.
// Magnitudes past 1e6 carry no such residue worth trimming and would overflow v*1e9.
func trimNoise(v float64) float64 {
	if math.Abs(v) > 1e6 {
		return v
	}
	return math.Round(v*1e9) / 1e9
}
