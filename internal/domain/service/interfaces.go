package service

import (
	"context"

	"GoldGate/internal/domain/models"
)

// RecommendationModel is the upstream text-completion service. The engine
// owns all parsing and validation of the raw response.
type RecommendationModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MarketSource produces the indicators a signal computation runs on.
type MarketSource interface {
	Snapshot() models.MarketSnapshot
}

// Ledger is the read-only on-chain vault view. This subsystem never writes
// to it.
type Ledger interface {
	PortfolioBreakdown(ctx context.Context, address string) (models.PortfolioBreakdown, error)
}

// ReceiptVerifier optionally confirms a referenced transaction on-chain.
// The default implementation is a no-op; a well-formed receipt is accepted
// optimistically.
type ReceiptVerifier interface {
	Confirm(ctx context.Context, txHash string) error
}

// SignalPublisher emits generated signals for downstream consumers.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, sig models.TradingSignal) error
}
