package models

import "fmt"

// RiskTolerance selects how aggressively the caller wants to trade.
type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

// RiskProfile is the policy derived from a tolerance: the minimum confidence
// a signal needs before that tier would act on it, and the ceiling on how
// much of the available funds a single trade may use.
type RiskProfile struct {
	MinConfidence   int
	MaxTradePercent int
}

var riskProfiles = map[RiskTolerance]RiskProfile{
	ToleranceConservative: {MinConfidence: 80, MaxTradePercent: 20},
	ToleranceModerate:     {MinConfidence: 60, MaxTradePercent: 40},
	ToleranceAggressive:   {MinConfidence: 50, MaxTradePercent: 60},
}

// ProfileFor maps a tolerance to its policy. Unknown values are rejected;
// silently defaulting would misrepresent the caller's risk posture.
func ProfileFor(t RiskTolerance) (RiskProfile, error) {
	p, ok := riskProfiles[t]
	if !ok {
		return RiskProfile{}, fmt.Errorf("unknown risk tolerance %q", t)
	}
	return p, nil
}

// ConfidenceMultiplier scales fallback confidence by tolerance.
func (t RiskTolerance) ConfidenceMultiplier() float64 {
	switch t {
	case ToleranceConservative:
		return 0.9
	case ToleranceAggressive:
		return 1.1
	default:
		return 1.0
	}
}
