package models

// PortfolioBreakdown mirrors the vault's getPortfolioBreakdown view: raw
// holdings plus USD valuations and allocation percentages.
type PortfolioBreakdown struct {
	Address        string  `json:"address"`
	USDCAmount     float64 `json:"usdcAmount"`
	USDCValueUSD   float64 `json:"usdcValueUSD"`
	GoldAmount     float64 `json:"goldAmount"`
	GoldValueUSD   float64 `json:"goldValueUSD"`
	TotalValueUSD  float64 `json:"totalValueUSD"`
	USDCPercentage float64 `json:"usdcPercentage"`
	GoldPercentage float64 `json:"goldPercentage"`
}
