package market

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"GoldGate/internal/domain/models"
)

// Provider produces synthetic market indicators and maintains a bounded
// price history ring. A real deployment would swap this for an external
// feed; only the output contract matters to the rest of the service.
type Provider struct {
	mu          sync.Mutex
	rng         *rand.Rand
	basePrice   float64
	baseInfl    float64
	baseUSD     float64
	current     float64
	lastUpdate  time.Time
	history     []models.PricePoint
	historySize int
	updateEvery time.Duration
}

// Option configures Provider.
type Option func(*Provider)

// WithBasePrice sets the anchor gold price.
func WithBasePrice(p float64) Option {
	return func(m *Provider) {
		if p > 0 {
			m.basePrice = p
		}
	}
}

// WithBaseIndicators sets the inflation and USD-strength anchors.
func WithBaseIndicators(inflation, usdIndex float64) Option {
	return func(m *Provider) {
		if inflation > 0 {
			m.baseInfl = inflation
		}
		if usdIndex > 0 {
			m.baseUSD = usdIndex
		}
	}
}

// WithHistorySize bounds the price history ring.
func WithHistorySize(n int) Option {
	return func(m *Provider) {
		if n > 0 {
			m.historySize = n
		}
	}
}

// WithUpdateInterval sets how often the walked price moves.
func WithUpdateInterval(d time.Duration) Option {
	return func(m *Provider) {
		if d > 0 {
			m.updateEvery = d
		}
	}
}

// WithRand injects the randomness source so tests can fix the seed.
func WithRand(rng *rand.Rand) Option {
	return func(m *Provider) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// NewProvider creates a provider seeded from the clock.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		basePrice:   2150.50,
		baseInfl:    3.2,
		baseUSD:     104.5,
		historySize: 100,
		updateEvery: time.Minute,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.current = p.basePrice
	p.lastUpdate = time.Now()

	// Seed the ring with one synthetic point per day so period queries
	// have something to return from the start.
	now := time.Now()
	for i := 30; i >= 0; i-- {
		p.history = append(p.history, models.PricePoint{
			Timestamp: now.Add(-time.Duration(i) * 24 * time.Hour),
			Price:     p.basePrice + (p.rng.Float64()-0.5)*100,
		})
	}

	return p
}

// Snapshot returns current market indicators. One snapshot feeds exactly one
// signal computation.
func (p *Provider) Snapshot() models.MarketSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.walkLocked()

	sentiments := []models.Sentiment{models.SentimentBullish, models.SentimentBearish, models.SentimentNeutral}
	return models.MarketSnapshot{
		GoldPrice:     p.current + (p.rng.Float64()-0.5)*50,
		GoldChange24h: p.change24hLocked(),
		InflationRate: p.baseInfl + (p.rng.Float64()-0.5)*0.5,
		USDStrength:   p.baseUSD + (p.rng.Float64()-0.5)*2,
		Sentiment:     sentiments[p.rng.Intn(len(sentiments))],
		Timestamp:     time.Now(),
	}
}

// CurrentPrice returns the walked price and its change against the previous
// history point.
func (p *Provider) CurrentPrice() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.walkLocked()
	return models.Round2(p.current), models.Round2(p.change24hLocked())
}

// History returns price points for the requested period (1d, 7d, 30d).
func (p *Provider) History(period string) []models.PricePoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.history)
	var keep int
	switch period {
	case "1d":
		keep = 24
	case "30d":
		keep = n
	default: // 7d
		keep = 7
	}
	if keep > n {
		keep = n
	}

	out := make([]models.PricePoint, keep)
	copy(out, p.history[n-keep:])
	return out
}

// Stats summarizes the full history window.
func (p *Provider) Stats() models.PriceStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	prices := make([]float64, len(p.history))
	for i, pt := range p.history {
		prices[i] = pt.Price
	}

	avg := mean(prices)
	trend := "bearish"
	if p.current > avg {
		trend = "bullish"
	}
	return models.PriceStats{
		CurrentPrice: models.Round2(p.current),
		AvgPrice:     models.Round2(avg),
		High:         models.Round2(maxOf(prices)),
		Low:          models.Round2(minOf(prices)),
		Volatility:   volatility(prices),
		Trend:        trend,
	}
}

// walkLocked advances the random walk at most once per update interval and
// appends to the ring.
func (p *Provider) walkLocked() {
	now := time.Now()
	if now.Sub(p.lastUpdate) < p.updateEvery {
		return
	}
	p.current += (p.rng.Float64() - 0.5) * 5
	p.lastUpdate = now
	p.history = append(p.history, models.PricePoint{Timestamp: now, Price: p.current})
	if len(p.history) > p.historySize {
		p.history = p.history[len(p.history)-p.historySize:]
	}
}

func (p *Provider) change24hLocked() float64 {
	if len(p.history) < 2 {
		return 0
	}
	prev := p.history[len(p.history)-2].Price
	if prev == 0 {
		return 0
	}
	return (p.current - prev) / prev * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// volatility is the relative standard deviation of prices, in percent.
func volatility(xs []float64) float64 {
	m := mean(xs)
	if m == 0 || len(xs) == 0 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		d := x - m
		sq += d * d
	}
	return models.Round2(math.Sqrt(sq/float64(len(xs))) / m * 100)
}
