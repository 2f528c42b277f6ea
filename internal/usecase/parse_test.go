package usecase

import (
	"strings"
	"testing"
)

func TestExtractJSONPlain(t *testing.T) {
	doc, ok := extractJSON(`{"action":"HOLD"}`)
	if !ok || doc != `{"action":"HOLD"}` {
		t.Fatalf("got %q ok=%v", doc, ok)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	raw := "Here is my analysis:\n```json\n{\"action\":\"BUY_GOLD\",\"confidence\":80}\n```\nGood luck!"
	doc, ok := extractJSON(raw)
	if !ok {
		t.Fatalf("expected extraction")
	}
	if doc != `{"action":"BUY_GOLD","confidence":80}` {
		t.Fatalf("got %q", doc)
	}
}

func TestExtractJSONNested(t *testing.T) {
	raw := `prefix {"a":{"b":1},"c":"}"} suffix {"second":true}`
	doc, ok := extractJSON(raw)
	if !ok {
		t.Fatalf("expected extraction")
	}
	if doc != `{"a":{"b":1},"c":"}"}` {
		t.Fatalf("should stop at first balanced object, got %q", doc)
	}
}

func TestExtractJSONEscapedQuote(t *testing.T) {
	raw := `{"reasoning":"he said \"buy\" loudly"}`
	doc, ok := extractJSON(raw)
	if !ok || doc != raw {
		t.Fatalf("got %q ok=%v", doc, ok)
	}
}

func TestExtractJSONNone(t *testing.T) {
	if _, ok := extractJSON("no structured data here"); ok {
		t.Fatalf("expected no extraction")
	}
	if _, ok := extractJSON(`{"unclosed":`); ok {
		t.Fatalf("unbalanced object must not extract")
	}
}

func TestParseModelOutputValid(t *testing.T) {
	raw := `{"action":"BUY_GOLD","confidence":82,"reasoning":"inflation hedge","suggestedPercentage":25,"targetGoldAllocation":50,"riskLevel":"low"}`
	sig, err := parseModelOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if *sig.Action != "BUY_GOLD" || *sig.Confidence != 82 {
		t.Fatalf("bad parse %+v", sig)
	}
	if sig.TargetGoldAllocation == nil || *sig.TargetGoldAllocation != 50 {
		t.Fatalf("target missing")
	}
	if sig.SuggestedPercent == nil || *sig.SuggestedPercent != 25 {
		t.Fatalf("percent missing")
	}
}

func TestParseModelOutputOptionalSizingFields(t *testing.T) {
	sig, err := parseModelOutput(`{"action":"HOLD","confidence":60,"reasoning":"mixed conditions"}`)
	if err != nil {
		t.Fatalf("sizing fields are optional: %v", err)
	}
	if sig.SuggestedPercent != nil || sig.TargetGoldAllocation != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestParseModelOutputMissingFields(t *testing.T) {
	cases := []string{
		`{"confidence":80,"reasoning":"x"}`,                       // no action
		`{"action":"BUY_GOLD","reasoning":"x"}`,                   // no confidence
		`{"action":"BUY_GOLD","confidence":80}`,                   // no reasoning
		`{"action":"BUY_GOLD","confidence":80,"reasoning":"   "}`, // blank reasoning
		`{"action":"SHORT_GOLD","confidence":80,"reasoning":"x"}`, // bad action
		`{"action":"BUY_GOLD","confidence":"high","reasoning":"x"}`,
	}

	for _, raw := range cases {
		if _, err := parseModelOutput(raw); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestParseModelOutputProseOnly(t *testing.T) {
	_, err := parseModelOutput("I think you should buy gold because inflation is high.")
	if err == nil || !strings.Contains(err.Error(), "no JSON") {
		t.Fatalf("got %v", err)
	}
}
