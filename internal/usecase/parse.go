package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"GoldGate/internal/domain/models"
)

// modelSignal is the shape expected from the recommendation model. Pointer
// fields distinguish "absent" from zero values; action, confidence and
// reasoning are mandatory, the sizing fields get lenient defaults.
type modelSignal struct {
	Action               *string  `json:"action"`
	Confidence           *float64 `json:"confidence"`
	Reasoning            *string  `json:"reasoning"`
	SuggestedPercent     *float64 `json:"suggestedPercentage"`
	TargetGoldAllocation *float64 `json:"targetGoldAllocation"`
	RiskLevel            string   `json:"riskLevel"`
}

// extractJSON returns the first balanced top-level JSON object in s. Models
// wrap their answer in prose or code fences often enough that a plain
// Unmarshal of the whole response is useless.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// parseModelOutput extracts and schema-checks the model's response. Any
// failure is reported with enough detail to log; callers fall back rather
// than surface it.
func parseModelOutput(raw string) (modelSignal, error) {
	doc, ok := extractJSON(raw)
	if !ok {
		return modelSignal{}, fmt.Errorf("no JSON object in response")
	}

	var sig modelSignal
	if err := json.Unmarshal([]byte(doc), &sig); err != nil {
		return modelSignal{}, fmt.Errorf("unmarshal response: %w", err)
	}

	if sig.Action == nil {
		return modelSignal{}, fmt.Errorf("missing action")
	}
	if !models.ValidAction(*sig.Action) {
		return modelSignal{}, fmt.Errorf("unknown action %q", *sig.Action)
	}
	if sig.Confidence == nil {
		return modelSignal{}, fmt.Errorf("missing confidence")
	}
	if sig.Reasoning == nil || strings.TrimSpace(*sig.Reasoning) == "" {
		return modelSignal{}, fmt.Errorf("missing reasoning")
	}

	return sig, nil
}
