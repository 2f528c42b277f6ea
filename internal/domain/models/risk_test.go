package models

import "testing"

func TestProfileForKnownTolerances(t *testing.T) {
	cases := []struct {
		tolerance RiskTolerance
		minConf   int
		maxTrade  int
	}{
		{ToleranceConservative, 80, 20},
		{ToleranceModerate, 60, 40},
		{ToleranceAggressive, 50, 60},
	}

	for _, c := range cases {
		p, err := ProfileFor(c.tolerance)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", c.tolerance, err)
		}
		if p.MinConfidence != c.minConf {
			t.Fatalf("%s: min confidence %d, want %d", c.tolerance, p.MinConfidence, c.minConf)
		}
		if p.MaxTradePercent != c.maxTrade {
			t.Fatalf("%s: max trade %d, want %d", c.tolerance, p.MaxTradePercent, c.maxTrade)
		}
	}
}

func TestProfileForUnknownTolerance(t *testing.T) {
	if _, err := ProfileFor("yolo"); err == nil {
		t.Fatalf("expected error for unknown tolerance")
	}
}

func TestConfidenceMultiplier(t *testing.T) {
	if got := ToleranceConservative.ConfidenceMultiplier(); got != 0.9 {
		t.Fatalf("conservative multiplier %v", got)
	}
	if got := ToleranceModerate.ConfidenceMultiplier(); got != 1.0 {
		t.Fatalf("moderate multiplier %v", got)
	}
	if got := ToleranceAggressive.ConfidenceMultiplier(); got != 1.1 {
		t.Fatalf("aggressive multiplier %v", got)
	}
}

func TestNormalizeRiskLevel(t *testing.T) {
	if got := NormalizeRiskLevel("low"); got != RiskLow {
		t.Fatalf("got %s", got)
	}
	if got := NormalizeRiskLevel("extreme"); got != RiskMedium {
		t.Fatalf("unknown level should default to medium, got %s", got)
	}
	if got := NormalizeRiskLevel(""); got != RiskMedium {
		t.Fatalf("empty level should default to medium, got %s", got)
	}
}

func TestClampConfidence(t *testing.T) {
	if got := ClampConfidence(120); got != 100 {
		t.Fatalf("got %d", got)
	}
	if got := ClampConfidence(-5); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := ClampConfidence(72.6); got != 73 {
		t.Fatalf("got %d", got)
	}
}

func TestDerivePortfolio(t *testing.T) {
	p := DerivePortfolio(1000, 40, 2000)

	if p.USDCAmount != 600 {
		t.Fatalf("usdc %v", p.USDCAmount)
	}
	if p.GoldAmount != 0.2 {
		t.Fatalf("gold %v", p.GoldAmount)
	}
}

func TestAvailableFunds(t *testing.T) {
	p := DerivePortfolio(1000, 40, 2000)

	if got := p.AvailableFunds(ActionBuyGold, 2000); got != 600 {
		t.Fatalf("buy funds %v", got)
	}
	if got := p.AvailableFunds(ActionSellGold, 2000); got != 400 {
		t.Fatalf("sell funds %v", got)
	}
	if got := p.AvailableFunds(ActionHold, 2000); got != 0 {
		t.Fatalf("hold funds %v", got)
	}
}
