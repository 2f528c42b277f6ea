package api

import (
	"time"

	"github.com/labstack/echo/v4"

	domsvc "GoldGate/internal/domain/service"
	"GoldGate/internal/service/feed"
	"GoldGate/internal/service/market"
	"GoldGate/internal/service/payment"
	"GoldGate/internal/usecase"
	"GoldGate/pkg/config"
	xhttp "GoldGate/pkg/http"
	applogger "GoldGate/pkg/logger"
)

// Handler exposes the signal API over HTTP.
type Handler struct {
	cfg     *config.Config
	gate    *payment.Gate
	signals *usecase.SignalService
	market  *market.Provider
	ledger  domsvc.Ledger
	stream  *feed.Stream
	logger  *applogger.Logger
	started time.Time
}

// NewHandler wires the API handler.
func NewHandler(
	cfg *config.Config,
	gate *payment.Gate,
	signals *usecase.SignalService,
	marketProvider *market.Provider,
	ledger domsvc.Ledger,
	stream *feed.Stream,
	logger *applogger.Logger,
) *Handler {
	return &Handler{
		cfg:     cfg,
		gate:    gate,
		signals: signals,
		market:  marketProvider,
		ledger:  ledger,
		stream:  stream,
		logger:  logger,
		started: time.Now(),
	}
}

// RegisterRoutes mounts all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/signal", h.GetSignal)
	api.GET("/signal/preview", h.PreviewSignal)
	api.GET("/signals/history", h.SignalHistory)

	api.GET("/price", h.CurrentPrice)
	api.GET("/price/history", h.PriceHistory)
	api.GET("/price/stats", h.PriceStats)
	api.GET("/price/stream", h.PriceStream)

	api.GET("/portfolio", h.Portfolio)
	api.GET("/health", h.Health)
}

// Health reports liveness and basic runtime facts.
func (h *Handler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":        "ok",
		"environment":   h.cfg.Environment,
		"cacheBackend":  h.cfg.Cache.Backend,
		"uptimeSeconds": int(time.Since(h.started).Seconds()),
		"timestamp":     time.Now().UTC(),
	})
}

var _ xhttp.Handler = (*Handler)(nil)
