package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"GoldGate/internal/domain/models"
	domsvc "GoldGate/internal/domain/service"
	"GoldGate/internal/service/metrics"
	applogger "GoldGate/pkg/logger"
)

// Model failures are absorbed into the fallback path; these sentinels exist
// for logging and tests, they never reach an HTTP response.
var (
	ErrModelUnavailable     = errors.New("recommendation model unavailable")
	ErrModelResponseInvalid = errors.New("recommendation model response invalid")
)

// fallbackConfidenceCap bounds heuristic confidence after the tolerance
// multiplier is applied. A rule table should never look more certain than
// the model.
const fallbackConfidenceCap = 95

// Advisor turns one market snapshot plus the caller's portfolio into a
// trading signal. The model path is best-effort; the rule table always
// produces an answer.
type Advisor struct {
	model     domsvc.RecommendationModel
	timeout   time.Duration
	signalTTL time.Duration
	logger    *applogger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// AdvisorOption configures Advisor.
type AdvisorOption func(*Advisor)

// WithModelTimeout bounds one completion call.
func WithModelTimeout(d time.Duration) AdvisorOption {
	return func(a *Advisor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithSignalTTL sets how long a signal stays valid.
func WithSignalTTL(d time.Duration) AdvisorOption {
	return func(a *Advisor) {
		if d > 0 {
			a.signalTTL = d
		}
	}
}

// WithAdvisorRand injects the randomness source so tests can fix the seed.
func WithAdvisorRand(rng *rand.Rand) AdvisorOption {
	return func(a *Advisor) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// NewAdvisor builds the engine. A nil model means fallback-only operation.
func NewAdvisor(model domsvc.RecommendationModel, logger *applogger.Logger, opts ...AdvisorOption) *Advisor {
	a := &Advisor{
		model:     model,
		timeout:   10 * time.Second,
		signalTTL: 15 * time.Minute,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate computes a signal. It returns an error only for invalid input;
// model failures degrade to the rule table.
func (a *Advisor) Generate(ctx context.Context, market models.MarketSnapshot, portfolio models.PortfolioSnapshot, tolerance models.RiskTolerance) (models.TradingSignal, error) {
	profile, err := models.ProfileFor(tolerance)
	if err != nil {
		return models.TradingSignal{}, err
	}

	if a.model != nil {
		sig, err := a.fromModel(ctx, market, portfolio, tolerance, profile)
		if err == nil {
			return sig, nil
		}

		reason := "unavailable"
		if errors.Is(err, ErrModelResponseInvalid) {
			reason = "invalid_response"
		}
		metrics.ModelFallbacks.WithLabelValues(reason).Inc()
		a.logger.Warn("model path failed, using rule table", applogger.Error(err))
	}

	return a.fallback(market, portfolio, tolerance, profile), nil
}

func (a *Advisor) fromModel(ctx context.Context, market models.MarketSnapshot, portfolio models.PortfolioSnapshot, tolerance models.RiskTolerance, profile models.RiskProfile) (models.TradingSignal, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.model.Complete(ctx, BuildPrompt(market, portfolio, tolerance, profile))
	if err != nil {
		return models.TradingSignal{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	parsed, err := parseModelOutput(raw)
	if err != nil {
		return models.TradingSignal{}, fmt.Errorf("%w: %v", ErrModelResponseInvalid, err)
	}

	// Models regularly drop the sizing fields; a zero-sized paid trade would
	// be worse than a conventional default.
	percent := 20.0
	if parsed.SuggestedPercent != nil {
		percent = *parsed.SuggestedPercent
	}
	target := 50.0
	if parsed.TargetGoldAllocation != nil {
		target = *parsed.TargetGoldAllocation
	}

	return a.finalize(draft{
		action:     models.Action(*parsed.Action),
		confidence: *parsed.Confidence,
		reasoning:  *parsed.Reasoning,
		percent:    percent,
		target:     target,
		risk:       models.NormalizeRiskLevel(parsed.RiskLevel),
	}, market, portfolio, profile), nil
}

// draft is a recommendation before clamping and sizing.
type draft struct {
	action     models.Action
	confidence float64
	reasoning  string
	percent    float64
	target     float64
	risk       models.RiskLevel
}

// fallback is the deterministic rule table used when the model cannot
// answer. Rules are checked in order; the first match wins.
func (a *Advisor) fallback(market models.MarketSnapshot, portfolio models.PortfolioSnapshot, tolerance models.RiskTolerance, profile models.RiskProfile) models.TradingSignal {
	var d draft
	switch {
	case market.InflationRate > 3.5 && portfolio.GoldPercent < 40:
		d = draft{
			action:     models.ActionBuyGold,
			confidence: 72 + a.jitter(18),
			reasoning: fmt.Sprintf("Inflation at %.1f%% favors hard assets and the portfolio holds only %.0f%% gold. Increasing allocation hedges purchasing power.",
				market.InflationRate, portfolio.GoldPercent),
			percent: 25,
			target:  50,
			risk:    models.RiskLow,
		}
	case market.GoldChange24h > 3 && portfolio.GoldPercent > 55:
		d = draft{
			action:     models.ActionSellGold,
			confidence: 65 + a.jitter(15),
			reasoning: fmt.Sprintf("Gold rallied %.1f%% in 24h and the portfolio is overweight at %.0f%%. Taking profit rebalances toward target.",
				market.GoldChange24h, portfolio.GoldPercent),
			percent: 20,
			target:  45,
			risk:    models.RiskMedium,
		}
	case market.GoldChange24h < -3 && portfolio.GoldPercent < 45:
		d = draft{
			action:     models.ActionBuyGold,
			confidence: 68 + a.jitter(12),
			reasoning: fmt.Sprintf("Gold dipped %.1f%% in 24h, a buying opportunity while the allocation sits at %.0f%%.",
				market.GoldChange24h, portfolio.GoldPercent),
			percent: 15,
			target:  50,
			risk:    models.RiskMedium,
		}
	default:
		d = draft{
			action:     models.ActionHold,
			confidence: 55 + a.jitter(25),
			reasoning: fmt.Sprintf("Market conditions are mixed (%s sentiment, %.1f%% 24h move). Current %.0f%% gold allocation remains appropriate.",
				market.Sentiment, market.GoldChange24h, portfolio.GoldPercent),
			percent: 0,
			target:  portfolio.GoldPercent,
			risk:    models.RiskLow,
		}
	}

	d.confidence = d.confidence * tolerance.ConfidenceMultiplier()
	if d.confidence > fallbackConfidenceCap {
		d.confidence = fallbackConfidenceCap
	}

	return a.finalize(d, market, portfolio, profile)
}

// finalize clamps a draft and sizes the trade against available funds.
func (a *Advisor) finalize(d draft, market models.MarketSnapshot, portfolio models.PortfolioSnapshot, profile models.RiskProfile) models.TradingSignal {
	percent := models.ClampPercent(d.percent)
	if percent > float64(profile.MaxTradePercent) {
		percent = float64(profile.MaxTradePercent)
	}
	if d.action == models.ActionHold {
		percent = 0
	}

	now := time.Now()
	return models.TradingSignal{
		ID:                   uuid.NewString(),
		Action:               d.action,
		Confidence:           models.ClampConfidence(d.confidence),
		Reasoning:            strings.TrimSpace(d.reasoning),
		SuggestedAmount:      models.Round2(portfolio.AvailableFunds(d.action, market.GoldPrice) * percent / 100),
		SuggestedPercent:     percent,
		TargetGoldAllocation: models.ClampPercent(d.target),
		RiskLevel:            d.risk,
		GoldPrice:            models.Round2(market.GoldPrice),
		CreatedAt:            now,
		ExpiresAt:            now.Add(a.signalTTL),
	}
}

func (a *Advisor) jitter(span float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64() * span
}

// BuildPrompt renders the completion prompt. The JSON contract at the end is
// the part the parser depends on.
func BuildPrompt(market models.MarketSnapshot, portfolio models.PortfolioSnapshot, tolerance models.RiskTolerance, profile models.RiskProfile) string {
	var sb strings.Builder
	sb.WriteString("You are a gold trading advisor. Analyze the market and portfolio below and recommend one action.\n\n")
	fmt.Fprintf(&sb, "Market:\n- Gold price: $%.2f/oz\n- 24h change: %.2f%%\n- Inflation rate: %.2f%%\n- USD index: %.2f\n- Sentiment: %s\n\n",
		market.GoldPrice, market.GoldChange24h, market.InflationRate, market.USDStrength, market.Sentiment)
	fmt.Fprintf(&sb, "Portfolio:\n- Total value: $%.2f\n- USDC: $%.2f\n- Gold: %.4f oz\n- Gold allocation: %.1f%%\n\n",
		portfolio.TotalValue, portfolio.USDCAmount, portfolio.GoldAmount, portfolio.GoldPercent)
	fmt.Fprintf(&sb, "Risk tolerance: %s (act only above %d%% confidence, trade at most %d%% of available funds).\n\n",
		tolerance, profile.MinConfidence, profile.MaxTradePercent)
	sb.WriteString("Respond with ONLY a JSON object, no markdown:\n")
	sb.WriteString(`{"action":"BUY_GOLD|SELL_GOLD|HOLD","confidence":0-100,"reasoning":"...","suggestedPercentage":0-100,"targetGoldAllocation":0-100,"riskLevel":"low|medium|high"}`)
	return sb.String()
}
