package usecase

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"GoldGate/internal/domain/models"
	"GoldGate/pkg/cache"
)

type fixedMarket struct {
	snap models.MarketSnapshot
}

func (m fixedMarket) Snapshot() models.MarketSnapshot { return m.snap }

type recordingPublisher struct {
	ch chan models.TradingSignal
}

func (p *recordingPublisher) PublishSignal(_ context.Context, sig models.TradingSignal) error {
	p.ch <- sig
	return nil
}

func holdMarket() fixedMarket {
	return fixedMarket{snap: models.MarketSnapshot{
		GoldPrice:     2000,
		GoldChange24h: 0.5,
		InflationRate: 3.0,
		USDStrength:   104,
		Sentiment:     models.SentimentNeutral,
		Timestamp:     time.Now(),
	}}
}

func signalRequest(address string) models.SignalRequest {
	return models.SignalRequest{
		UserAddress:    address,
		PortfolioValue: 10000,
		GoldPercentage: 50,
		RiskTolerance:  "moderate",
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) *SignalService {
	t.Helper()
	advisor := NewAdvisor(nil, testLogger(t), WithAdvisorRand(rand.New(rand.NewSource(1))))
	return NewSignalService(advisor, holdMarket(), cache.NewMemoryCache(), testLogger(t), opts...)
}

func TestGetCachesPerAddress(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if first.Cached {
		t.Fatalf("first request must be fresh")
	}

	second, err := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !second.Cached {
		t.Fatalf("second request must hit the cache")
	}
	if second.Signal.ID != first.Signal.ID {
		t.Fatalf("cached signal differs: %s vs %s", second.Signal.ID, first.Signal.ID)
	}
	if second.Signal.Confidence != first.Signal.Confidence {
		t.Fatalf("cached confidence differs")
	}
}

func TestGetCacheKeyIsCaseInsensitive(t *testing.T) {
	svc := newTestService(t)

	first, _ := svc.Get(context.Background(), signalRequest("0xAbC"), true)
	second, _ := svc.Get(context.Background(), signalRequest("0xABC"), true)

	if !second.Cached || second.Signal.ID != first.Signal.ID {
		t.Fatalf("address case must not split the cache")
	}
}

func TestGetSeparateAddressesSeparateSignals(t *testing.T) {
	svc := newTestService(t)

	first, _ := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	second, _ := svc.Get(context.Background(), signalRequest("0xBBB"), true)

	if second.Cached {
		t.Fatalf("different address must not reuse cache")
	}
	if second.Signal.ID == first.Signal.ID {
		t.Fatalf("expected distinct signals")
	}
}

func TestGetCacheExpires(t *testing.T) {
	svc := newTestService(t, WithCacheTTL(5*time.Millisecond))

	first, _ := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	time.Sleep(20 * time.Millisecond)

	second, err := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if second.Cached {
		t.Fatalf("entry should have expired")
	}
	if second.Signal.ID == first.Signal.ID {
		t.Fatalf("expected a fresh signal after expiry")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	svc := newTestService(t)

	first, _ := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	second, _ := svc.Get(context.Background(), signalRequest("0xBBB"), true)

	hist := svc.History()
	if hist.Total != 2 {
		t.Fatalf("total %d", hist.Total)
	}
	if hist.Signals[0].ID != second.Signal.ID || hist.Signals[1].ID != first.Signal.ID {
		t.Fatalf("history order wrong")
	}
}

func TestHistoryIgnoresCacheHits(t *testing.T) {
	svc := newTestService(t)

	_, _ = svc.Get(context.Background(), signalRequest("0xAAA"), true)
	_, _ = svc.Get(context.Background(), signalRequest("0xAAA"), true)

	if hist := svc.History(); hist.Total != 1 {
		t.Fatalf("cache hit must not append history, total %d", hist.Total)
	}
}

func TestGetPublishesSignal(t *testing.T) {
	pub := &recordingPublisher{ch: make(chan models.TradingSignal, 1)}
	svc := newTestService(t, WithPublisher(pub))

	resp, err := svc.Get(context.Background(), signalRequest("0xAAA"), true)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	select {
	case got := <-pub.ch:
		if got.ID != resp.Signal.ID {
			t.Fatalf("published wrong signal")
		}
	case <-time.After(time.Second):
		t.Fatalf("signal was not published")
	}
}

func TestPreviewWithholdsReasoning(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Preview(context.Background(), "0.01", "USDC")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if !models.ValidAction(resp.Preview.Action) {
		t.Fatalf("action %q", resp.Preview.Action)
	}
	if resp.Preview.Price != "0.01" || resp.Preview.Currency != "USDC" {
		t.Fatalf("price info missing: %+v", resp.Preview)
	}
	if resp.Preview.Reasoning == "" {
		t.Fatalf("teaser should explain how to get the reasoning")
	}

	// previews never pollute the paid history
	if hist := svc.History(); hist.Total != 0 {
		t.Fatalf("preview leaked into history")
	}
}
