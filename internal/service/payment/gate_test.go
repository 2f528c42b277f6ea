package payment

import (
	"context"
	"testing"

	"GoldGate/internal/domain/models"
	"GoldGate/pkg/cache"
	"GoldGate/pkg/config"
	applogger "GoldGate/pkg/logger"
)

const payTo = "0xAbCd000000000000000000000000000000000001"

func testGate(t *testing.T, skip bool) *Gate {
	t.Helper()

	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Payment.SkipVerification = skip
	cfg.Payment.PriceMinorUnits = 10000
	cfg.Payment.Currency = "USDC"
	cfg.Payment.PayTo = payTo
	cfg.Payment.Network = "base-sepolia"

	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewGate(cfg, cache.NewMemoryCache(), NoopVerifier{}, l)
}

func proof(amount string) *models.PaymentProof {
	return &models.PaymentProof{
		TransactionHash: "0xdeadbeef",
		From:            "0x1111111111111111111111111111111111111111",
		To:              payTo,
		Amount:          amount,
		Token:           "USDC",
	}
}

func TestCheckBypass(t *testing.T) {
	g := testGate(t, true)

	res, appErr := g.Check(context.Background(), "", nil)
	if appErr != nil {
		t.Fatalf("unexpected error %v", appErr)
	}
	if !res.Paid {
		t.Fatalf("bypass should mark request paid")
	}
}

func TestCheckNoProof(t *testing.T) {
	g := testGate(t, false)

	_, appErr := g.Check(context.Background(), "", nil)
	if appErr == nil {
		t.Fatalf("expected payment required")
	}
	if appErr.Code != CodePaymentRequired {
		t.Fatalf("code %s", appErr.Code)
	}
	if appErr.Status != 402 {
		t.Fatalf("status %d", appErr.Status)
	}
}

func TestCheckMalformedHeader(t *testing.T) {
	g := testGate(t, false)

	_, appErr := g.Check(context.Background(), "not-json", nil)
	if appErr == nil || appErr.Code != CodeInvalidReceipt {
		t.Fatalf("got %v", appErr)
	}
}

func TestCheckMissingFields(t *testing.T) {
	g := testGate(t, false)

	p := proof("10000")
	p.TransactionHash = ""

	_, appErr := g.Check(context.Background(), "", p)
	if appErr == nil || appErr.Code != CodeInvalidReceipt {
		t.Fatalf("got %v", appErr)
	}
}

func TestCheckBadAmount(t *testing.T) {
	g := testGate(t, false)

	for _, amount := range []string{"abc", "-5", "1.5"} {
		_, appErr := g.Check(context.Background(), "", proof(amount))
		if appErr == nil || appErr.Code != CodeInvalidReceipt {
			t.Fatalf("amount %q: got %v", amount, appErr)
		}
	}
}

func TestCheckInsufficientAmount(t *testing.T) {
	g := testGate(t, false)

	_, appErr := g.Check(context.Background(), "", proof("9999"))
	if appErr == nil || appErr.Code != CodeInsufficientPayment {
		t.Fatalf("got %v", appErr)
	}
}

func TestCheckWrongDestination(t *testing.T) {
	g := testGate(t, false)

	p := proof("10000")
	p.To = "0x2222222222222222222222222222222222222222"

	_, appErr := g.Check(context.Background(), "", p)
	if appErr == nil || appErr.Code != CodeWrongDestination {
		t.Fatalf("got %v", appErr)
	}
}

func TestCheckDestinationCaseInsensitive(t *testing.T) {
	g := testGate(t, false)

	p := proof("10000")
	p.To = "0XABCD000000000000000000000000000000000001"

	res, appErr := g.Check(context.Background(), "", p)
	if appErr != nil {
		t.Fatalf("address case must not matter: %v", appErr)
	}
	if !res.Paid {
		t.Fatalf("expected paid")
	}
}

func TestCheckExactAmountAccepted(t *testing.T) {
	g := testGate(t, false)

	res, appErr := g.Check(context.Background(), "", proof("10000"))
	if appErr != nil {
		t.Fatalf("unexpected error %v", appErr)
	}
	if !res.Paid || res.Proof == nil {
		t.Fatalf("expected verified result")
	}
}

func TestCheckReplayRejected(t *testing.T) {
	g := testGate(t, false)

	p := proof("20000")
	if _, appErr := g.Check(context.Background(), "", p); appErr != nil {
		t.Fatalf("first use must pass: %v", appErr)
	}

	_, appErr := g.Check(context.Background(), "", p)
	if appErr == nil || appErr.Code != CodeInvalidReceipt {
		t.Fatalf("second use of same tx must fail, got %v", appErr)
	}
}

func TestReleaseAllowsRetry(t *testing.T) {
	g := testGate(t, false)

	p := proof("30000")
	res, appErr := g.Check(context.Background(), "", p)
	if appErr != nil {
		t.Fatalf("first use must pass: %v", appErr)
	}

	g.Release(context.Background(), res.Proof)

	if _, appErr := g.Check(context.Background(), "", p); appErr != nil {
		t.Fatalf("released receipt must be usable again: %v", appErr)
	}
}

func TestDescriptor(t *testing.T) {
	g := testGate(t, false)

	hdr := g.Descriptor("/api/signal")
	if len(hdr.Accepts) != 1 {
		t.Fatalf("accepts %d", len(hdr.Accepts))
	}
	d := hdr.Accepts[0]
	if d.MaxAmountRequired != "10000" || d.PayTo != payTo || d.Resource != "/api/signal" {
		t.Fatalf("bad descriptor %+v", d)
	}
}

func TestPriceDisplay(t *testing.T) {
	g := testGate(t, false)

	if got := g.PriceDisplay(); got != "0.01" {
		t.Fatalf("price %q", got)
	}
}
