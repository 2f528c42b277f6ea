package models

// PortfolioSnapshot is the caller's position at request time. Supplied per
// request; this subsystem never mutates it.
type PortfolioSnapshot struct {
	TotalValue  float64 `json:"totalValue"`
	USDCAmount  float64 `json:"usdcAmount"`
	GoldAmount  float64 `json:"goldAmount"`
	GoldPercent float64 `json:"goldPercentage"`
}

// DerivePortfolio splits a total value into USDC and gold holdings using the
// current allocation and gold price.
func DerivePortfolio(totalValue, goldPercent, goldPrice float64) PortfolioSnapshot {
	p := PortfolioSnapshot{
		TotalValue:  totalValue,
		GoldPercent: goldPercent,
	}
	p.USDCAmount = totalValue * (100 - goldPercent) / 100
	if goldPrice > 0 {
		p.GoldAmount = totalValue * goldPercent / 100 / goldPrice
	}
	return p
}

// AvailableFunds returns the budget a given action may spend from: the USDC
// balance for buys, the USD value of the gold holding for sells, zero for
// holds.
func (p PortfolioSnapshot) AvailableFunds(action Action, goldPrice float64) float64 {
	switch action {
	case ActionBuyGold:
		return p.USDCAmount
	case ActionSellGold:
		return p.GoldAmount * goldPrice
	default:
		return 0
	}
}
