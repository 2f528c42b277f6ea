package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"GoldGate/internal/domain/models"
	domsvc "GoldGate/internal/domain/service"
	"GoldGate/internal/service/metrics"
	"GoldGate/pkg/cache"
	"GoldGate/pkg/config"
	xhttp "GoldGate/pkg/http"
	applogger "GoldGate/pkg/logger"
)

// Reason codes surfaced to callers on 402 responses.
const (
	CodePaymentRequired     = "ERR_PAYMENT_REQUIRED"
	CodeInvalidReceipt      = "ERR_INVALID_RECEIPT"
	CodeInsufficientPayment = "ERR_INSUFFICIENT_PAYMENT"
	CodeWrongDestination    = "ERR_WRONG_DESTINATION"
)

// Gate validates x402 payment receipts before a signal is released.
// Per-request state machine: no proof -> payment required; proof ->
// structural, amount and destination checks -> verified or rejected.
type Gate struct {
	price      int64
	currency   string
	payTo      string
	token      string
	network    string
	bypass     bool
	receiptTTL time.Duration
	receipts   cache.Store
	verifier   domsvc.ReceiptVerifier
	logger     *applogger.Logger
}

// NewGate builds the payment gate. The bypass flag is the single auditable
// switch that disables verification; it is never inferred from anything
// else.
func NewGate(cfg *config.Config, receipts cache.Store, verifier domsvc.ReceiptVerifier, l *applogger.Logger) *Gate {
	ttl := cfg.Payment.ReceiptTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Gate{
		price:      cfg.Payment.PriceMinorUnits,
		currency:   cfg.Payment.Currency,
		payTo:      cfg.Payment.PayTo,
		token:      cfg.Payment.Token,
		network:    cfg.Payment.Network,
		bypass:     cfg.Payment.SkipVerification,
		receiptTTL: ttl,
		receipts:   receipts,
		verifier:   verifier,
		logger:     l,
	}
}

// Result is the gate's verdict for one request.
type Result struct {
	Paid  bool
	Proof *models.PaymentProof
}

// Check runs the gate for a request. rawReceipt is the X-402-Receipt header
// value; bodyProof, when present, takes precedence. A nil error means the
// request may proceed to signal generation.
func (g *Gate) Check(ctx context.Context, rawReceipt string, bodyProof *models.PaymentProof) (Result, *xhttp.AppError) {
	if g.bypass {
		metrics.PaymentOutcomes.WithLabelValues("bypassed").Inc()
		return Result{Paid: true}, nil
	}

	proof := bodyProof
	if proof == nil && rawReceipt != "" {
		var p models.PaymentProof
		if err := json.Unmarshal([]byte(rawReceipt), &p); err != nil {
			metrics.PaymentOutcomes.WithLabelValues("invalid").Inc()
			return Result{}, xhttp.PaymentRequiredError(CodeInvalidReceipt, "receipt is not valid JSON")
		}
		proof = &p
	}

	if proof == nil {
		metrics.PaymentOutcomes.WithLabelValues("required").Inc()
		return Result{}, xhttp.PaymentRequiredError(CodePaymentRequired,
			fmt.Sprintf("pay %s %s to access this signal", g.PriceDisplay(), g.currency))
	}

	if appErr := g.verify(ctx, proof); appErr != nil {
		return Result{}, appErr
	}

	metrics.PaymentOutcomes.WithLabelValues("verified").Inc()
	return Result{Paid: true, Proof: proof}, nil
}

func (g *Gate) verify(ctx context.Context, proof *models.PaymentProof) *xhttp.AppError {
	// Structural validation first.
	if proof.TransactionHash == "" || proof.From == "" || proof.Amount == "" {
		metrics.PaymentOutcomes.WithLabelValues("invalid").Inc()
		return xhttp.PaymentRequiredError(CodeInvalidReceipt, "receipt is missing required fields")
	}

	amount, err := strconv.ParseInt(proof.Amount, 10, 64)
	if err != nil || amount < 0 {
		metrics.PaymentOutcomes.WithLabelValues("invalid").Inc()
		return xhttp.PaymentRequiredError(CodeInvalidReceipt, "receipt amount must be a non-negative integer")
	}

	if amount < g.price {
		metrics.PaymentOutcomes.WithLabelValues("insufficient").Inc()
		return xhttp.PaymentRequiredError(CodeInsufficientPayment,
			fmt.Sprintf("payment of %d below required %d minor units", amount, g.price)).
			WithParam("required", g.price)
	}

	if g.payTo != "" && !strings.EqualFold(proof.To, g.payTo) {
		metrics.PaymentOutcomes.WithLabelValues("wrong_destination").Inc()
		return xhttp.PaymentRequiredError(CodeWrongDestination, "payment sent to wrong address")
	}

	// Optional on-chain confirmation hook.
	if g.verifier != nil {
		if err := g.verifier.Confirm(ctx, proof.TransactionHash); err != nil {
			metrics.PaymentOutcomes.WithLabelValues("invalid").Inc()
			return xhttp.PaymentRequiredError(CodeInvalidReceipt, "transaction could not be confirmed").WithError(err)
		}
	}

	// Single use: the same transaction reference cannot buy two signals.
	if g.receipts != nil {
		fresh, err := g.receipts.SetNX(ctx, "receipt:"+strings.ToLower(proof.TransactionHash), []byte("1"), g.receiptTTL)
		if err != nil {
			if g.logger != nil {
				g.logger.Warn("receipt store error", applogger.Error(err))
			}
		} else if !fresh {
			metrics.PaymentOutcomes.WithLabelValues("replayed").Inc()
			return xhttp.PaymentRequiredError(CodeInvalidReceipt, "receipt already used")
		}
	}

	return nil
}

// Release forgets a burned receipt. Called when the service fails after
// verification, so the caller can retry with the same proof instead of
// paying twice.
func (g *Gate) Release(ctx context.Context, proof *models.PaymentProof) {
	if g.receipts == nil || proof == nil || proof.TransactionHash == "" {
		return
	}
	if err := g.receipts.Delete(ctx, "receipt:"+strings.ToLower(proof.TransactionHash)); err != nil && g.logger != nil {
		g.logger.Warn("receipt release failed", applogger.Error(err))
	}
}

// Descriptor returns the machine-readable payment challenge for a resource.
func (g *Gate) Descriptor(resource string) models.X402Header {
	return models.X402Header{
		Accepts: []models.PaymentDescriptor{
			{
				Scheme:            "exact",
				Network:           g.network,
				MaxAmountRequired: strconv.FormatInt(g.price, 10),
				Resource:          resource,
				Description:       fmt.Sprintf("AI Trading Signal - %s %s", g.PriceDisplay(), g.currency),
				PayTo:             g.payTo,
			},
		},
	}
}

// RequiredBody is the 402 response payload mirroring the header descriptor.
func (g *Gate) RequiredBody() models.PaymentRequiredBody {
	return models.PaymentRequiredBody{
		Price:    g.PriceDisplay(),
		Currency: g.currency,
		PayTo:    g.payTo,
		Message:  fmt.Sprintf("Pay %s %s to access this AI signal", g.PriceDisplay(), g.currency),
	}
}

// PriceDisplay renders the price in whole token units (USDC has 6 decimals).
func (g *Gate) PriceDisplay() string {
	return strconv.FormatFloat(float64(g.price)/1e6, 'f', -1, 64)
}

// NoopVerifier accepts any transaction reference. On-chain confirmation is a
// deliberate non-requirement; this keeps the hook explicit instead of
// scattering nil checks.
type NoopVerifier struct{}

func (NoopVerifier) Confirm(context.Context, string) error { return nil }
