package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"GoldGate/internal/domain/models"
	domsvc "GoldGate/internal/domain/service"
	"GoldGate/internal/service/metrics"
	"GoldGate/pkg/cache"
	applogger "GoldGate/pkg/logger"
)

const historyKeep = 50

// cachedSignal is what goes into the store: signal plus the market data it
// was computed from, so a cache hit replays both.
type cachedSignal struct {
	Signal     models.TradingSignal  `json:"signal"`
	MarketData models.MarketSnapshot `json:"marketData"`
}

// SignalService orchestrates one paid signal request: cache lookup, market
// snapshot, engine call, cache write, history append, audit publish.
type SignalService struct {
	advisor   *Advisor
	market    domsvc.MarketSource
	store     cache.Store
	ttl       time.Duration
	publisher domsvc.SignalPublisher
	logger    *applogger.Logger

	mu      sync.Mutex
	history []models.TradingSignal
}

// ServiceOption configures SignalService.
type ServiceOption func(*SignalService)

// WithCacheTTL sets how long a generated signal is served from cache.
func WithCacheTTL(d time.Duration) ServiceOption {
	return func(s *SignalService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithPublisher attaches an audit publisher for generated signals.
func WithPublisher(p domsvc.SignalPublisher) ServiceOption {
	return func(s *SignalService) { s.publisher = p }
}

// NewSignalService wires the orchestrator.
func NewSignalService(advisor *Advisor, market domsvc.MarketSource, store cache.Store, logger *applogger.Logger, opts ...ServiceOption) *SignalService {
	s := &SignalService{
		advisor: advisor,
		market:  market,
		store:   store,
		ttl:     15 * time.Minute,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get serves a signal for a verified request. The cache is consulted first;
// within the TTL the same caller gets the identical signal back.
func (s *SignalService) Get(ctx context.Context, req models.SignalRequest, paid bool) (models.SignalResponse, error) {
	key := cacheKey(req.UserAddress)

	if raw, err := s.store.Get(ctx, key); err == nil {
		var hit cachedSignal
		if err := json.Unmarshal(raw, &hit); err == nil {
			metrics.SignalCache.WithLabelValues("hit").Inc()
			return models.SignalResponse{
				Signal:     hit.Signal,
				MarketData: hit.MarketData,
				Paid:       paid,
				Cached:     true,
			}, nil
		}
		s.logger.Warn("dropping undecodable cache entry", applogger.String("key", key))
		_ = s.store.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Store trouble degrades to a fresh computation.
		s.logger.Warn("signal cache read failed", applogger.Error(err))
	}
	metrics.SignalCache.WithLabelValues("miss").Inc()

	market := s.market.Snapshot()
	portfolio := models.DerivePortfolio(req.PortfolioValue, req.GoldPercentage, market.GoldPrice)
	if req.USDCAmount != nil {
		portfolio.USDCAmount = *req.USDCAmount
	}
	if req.GoldAmount != nil {
		portfolio.GoldAmount = *req.GoldAmount
	}

	sig, err := s.advisor.Generate(ctx, market, portfolio, models.RiskTolerance(req.RiskTolerance))
	if err != nil {
		return models.SignalResponse{}, err
	}

	if raw, err := json.Marshal(cachedSignal{Signal: sig, MarketData: market}); err == nil {
		if err := s.store.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn("signal cache write failed", applogger.Error(err))
		}
	}

	s.remember(sig)
	s.publish(sig)

	return models.SignalResponse{
		Signal:     sig,
		MarketData: market,
		Paid:       paid,
		Cached:     false,
	}, nil
}

// Preview serves the free teaser: the rule-table action with the reasoning
// withheld. No cache involvement, nothing is remembered.
func (s *SignalService) Preview(ctx context.Context, price, currency string) (models.PreviewResponse, error) {
	market := s.market.Snapshot()

	// A neutral mid-size portfolio keeps the teaser representative without
	// leaking any caller state.
	portfolio := models.DerivePortfolio(10000, 50, market.GoldPrice)

	sig, err := s.advisor.Generate(ctx, market, portfolio, models.ToleranceModerate)
	if err != nil {
		return models.PreviewResponse{}, err
	}

	return models.PreviewResponse{
		Preview: models.SignalPreview{
			Action:    string(sig.Action),
			Reasoning: "Full reasoning available after payment",
			Price:     price,
			Currency:  currency,
		},
		MarketData: market,
	}, nil
}

// History returns recently generated signals, newest first.
func (s *SignalService) History() models.HistoryResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.TradingSignal, len(s.history))
	for i, sig := range s.history {
		out[len(s.history)-1-i] = sig
	}
	return models.HistoryResponse{Signals: out, Total: len(out)}
}

func (s *SignalService) remember(sig models.TradingSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, sig)
	if len(s.history) > historyKeep {
		s.history = s.history[len(s.history)-historyKeep:]
	}
}

// publish ships the signal to the audit topic. Fire and forget; a broker
// outage must not delay or fail the response.
func (s *SignalService) publish(sig models.TradingSignal) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishSignal(ctx, sig); err != nil {
			s.logger.Warn("signal publish failed", applogger.Error(err), applogger.String("signal_id", sig.ID))
		}
	}()
}

func cacheKey(address string) string {
	return "signal:" + strings.ToLower(address)
}
