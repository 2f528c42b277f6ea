package models

import "time"

// Action is the recommended trade direction.
type Action string

const (
	ActionBuyGold  Action = "BUY_GOLD"
	ActionSellGold Action = "SELL_GOLD"
	ActionHold     Action = "HOLD"
)

// ValidAction reports whether s is a known action value.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionBuyGold, ActionSellGold, ActionHold:
		return true
	}
	return false
}

// RiskLevel grades how risky a recommendation is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// NormalizeRiskLevel maps arbitrary model output to a known level,
// defaulting to medium.
func NormalizeRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s)
	}
	return RiskMedium
}

// TradingSignal is a confidence-scored recommendation. Created fresh per
// computation and never mutated afterwards.
type TradingSignal struct {
	ID                   string    `json:"id"`
	Action               Action    `json:"action"`
	Confidence           int       `json:"confidence"`
	Reasoning            string    `json:"reasoning"`
	SuggestedAmount      float64   `json:"suggestedAmount"`
	SuggestedPercent     float64   `json:"suggestedPercentage"`
	TargetGoldAllocation float64   `json:"targetGoldAllocation"`
	RiskLevel            RiskLevel `json:"riskLevel"`
	GoldPrice            float64   `json:"goldPrice"`
	CreatedAt            time.Time `json:"createdAt"`
	ExpiresAt            time.Time `json:"expiresAt"`
}

// ClampPercent forces v into [0,100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampConfidence forces v into [0,100] and rounds to an int.
func ClampConfidence(v float64) int {
	return int(ClampPercent(v) + 0.5)
}

// Round2 rounds a USD amount to cents.
func Round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
