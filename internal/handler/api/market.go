package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"GoldGate/internal/domain/models"
	xhttp "GoldGate/pkg/http"
)

// CurrentPrice returns the walked spot price.
func (h *Handler) CurrentPrice(c echo.Context) error {
	price, change := h.market.CurrentPrice()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"price":     price,
		"change24h": change,
		"currency":  "USD",
		"unit":      "oz",
		"timestamp": time.Now().UTC(),
	})
}

// PriceHistory returns price points for a period (1d, 7d, 30d).
func (h *Handler) PriceHistory(c echo.Context) error {
	req := new(models.PriceHistoryRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	points := h.market.History(req.Period)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"period": req.Period,
		"points": points,
		"count":  len(points),
	})
}

// PriceStats summarizes the history window.
func (h *Handler) PriceStats(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.market.Stats())
}

// PriceStream upgrades to a websocket and pushes price ticks.
func (h *Handler) PriceStream(c echo.Context) error {
	return h.stream.Handle(c)
}
