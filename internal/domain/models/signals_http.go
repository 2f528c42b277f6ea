package models

// Requests and responses for the signal HTTP endpoints. Defined in domain
// for consistency and reuse.

type SignalRequest struct {
	UserAddress    string  `json:"userAddress" validate:"required,eth_addr"`
	PortfolioValue float64 `json:"portfolioValue" validate:"gte=0"`
	GoldPercentage float64 `json:"goldPercentage" validate:"gte=0,lte=100"`
	RiskTolerance  string  `json:"riskTolerance" validate:"required,oneof=conservative moderate aggressive"`
	// Explicit holdings override the value/percentage derivation when given.
	USDCAmount   *float64      `json:"usdcAmount,omitempty" validate:"omitempty,gte=0"`
	GoldAmount   *float64      `json:"goldAmount,omitempty" validate:"omitempty,gte=0"`
	PaymentProof *PaymentProof `json:"paymentProof,omitempty"`
}

type SignalResponse struct {
	Signal     TradingSignal  `json:"signal"`
	MarketData MarketSnapshot `json:"marketData"`
	Paid       bool           `json:"paid"`
	Cached     bool           `json:"cached"`
}

// PaymentRequiredBody is the 402 response payload.
type PaymentRequiredBody struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
	PayTo    string `json:"payTo"`
	Message  string `json:"message"`
}

// SignalPreview is the free teaser served without payment.
type SignalPreview struct {
	Action    string `json:"action"`
	Reasoning string `json:"reasoning"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
}

type PreviewResponse struct {
	Preview    SignalPreview  `json:"preview"`
	MarketData MarketSnapshot `json:"marketData"`
}

type HistoryResponse struct {
	Signals []TradingSignal `json:"signals"`
	Total   int             `json:"total"`
}

type PriceHistoryRequest struct {
	Period string `query:"period" json:"period" default:"7d" validate:"oneof=1d 7d 30d"`
}
