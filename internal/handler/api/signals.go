package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"GoldGate/internal/domain/models"
	"GoldGate/internal/service/metrics"
	xhttp "GoldGate/pkg/http"
	applogger "GoldGate/pkg/logger"
)

// receiptHeader carries the x402 payment receipt on paid endpoints.
const receiptHeader = "X-402-Receipt"

// GetSignal is the paid endpoint: verify payment, then serve a fresh or
// cached signal.
func (h *Handler) GetSignal(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.SignalLatency.WithLabelValues("/api/signal").Observe(time.Since(start).Seconds())
	}()

	req := new(models.SignalRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	result, appErr := h.gate.Check(c.Request().Context(), c.Request().Header.Get(receiptHeader), req.PaymentProof)
	if appErr != nil {
		return h.paymentRequired(c, appErr)
	}

	resp, err := h.signals.Get(c.Request().Context(), *req, result.Paid)
	if err != nil {
		// The payment went through but we produced nothing; un-burn the
		// receipt so a retry is not rejected as a replay.
		h.gate.Release(c.Request().Context(), result.Proof)
		h.logger.Error("signal generation failed", applogger.Error(err),
			applogger.String("user", req.UserAddress))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not generate signal").WithError(err))
	}

	return xhttp.SuccessResponse(c, resp)
}

// paymentRequired writes the 402 challenge: descriptor headers plus a body
// that tells the caller what to pay and where.
func (h *Handler) paymentRequired(c echo.Context, appErr *xhttp.AppError) error {
	body := h.gate.RequiredBody()

	c.Response().Header().Set("X-402-Required", appErr.Code)
	c.Response().Header().Set("X-402-Price", body.Price)
	c.Response().Header().Set("X-402-Address", body.PayTo)

	return xhttp.PaymentRequiredResponse(c, map[string]interface{}{
		"error":   appErr,
		"payment": body,
		"accepts": h.gate.Descriptor(c.Request().URL.Path).Accepts,
	})
}

// PreviewSignal is the free teaser: action without reasoning.
func (h *Handler) PreviewSignal(c echo.Context) error {
	body := h.gate.RequiredBody()

	resp, err := h.signals.Preview(c.Request().Context(), body.Price, body.Currency)
	if err != nil {
		h.logger.Error("signal preview failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not generate preview").WithError(err))
	}

	return xhttp.SuccessResponse(c, resp)
}

// SignalHistory lists recently generated signals, newest first.
func (h *Handler) SignalHistory(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.signals.History())
}

type portfolioRequest struct {
	Address string `query:"address" validate:"required,eth_addr"`
}

// Portfolio returns the caller's on-chain vault breakdown.
func (h *Handler) Portfolio(c echo.Context) error {
	req := new(portfolioRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	breakdown, err := h.ledger.PortfolioBreakdown(c.Request().Context(), req.Address)
	if err != nil {
		h.logger.Error("portfolio lookup failed", applogger.Error(err),
			applogger.String("address", req.Address))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not read portfolio").WithError(err))
	}

	return xhttp.SuccessResponse(c, breakdown)
}
