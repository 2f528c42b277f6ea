package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"GoldGate/internal/service/feed"
	"GoldGate/internal/service/ledger"
	"GoldGate/internal/service/market"
	"GoldGate/internal/service/payment"
	"GoldGate/internal/usecase"
	"GoldGate/pkg/cache"
	"GoldGate/pkg/config"
	applogger "GoldGate/pkg/logger"
)

const userAddr = "0x1111111111111111111111111111111111111111"

func testConfig(skipPayment bool) *config.Config {
	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Payment.SkipVerification = skipPayment
	cfg.Payment.PriceMinorUnits = 10000
	cfg.Payment.Currency = "USDC"
	cfg.Payment.PayTo = "0xAbCd000000000000000000000000000000000001"
	cfg.Cache.Backend = "memory"
	return cfg
}

func newTestServer(t *testing.T, skipPayment bool) *echo.Echo {
	t.Helper()

	cfg := testConfig(skipPayment)
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := cache.NewMemoryCache()
	gate := payment.NewGate(cfg, store, payment.NoopVerifier{}, l)
	provider := market.NewProvider()
	advisor := usecase.NewAdvisor(nil, l)
	signals := usecase.NewSignalService(advisor, provider, store, l)
	stream := feed.NewStream(provider, l)

	h := NewHandler(cfg, gate, signals, provider, ledger.NewClient(cfg), stream, l)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signalBody() string {
	return `{"userAddress":"` + userAddr + `","portfolioValue":10000,"goldPercentage":50,"riskTolerance":"moderate"}`
}

func TestSignalWithoutPaymentReturns402(t *testing.T) {
	e := newTestServer(t, false)

	rec := do(e, http.MethodPost, "/api/signal", signalBody())
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("X-402-Required"); got != payment.CodePaymentRequired {
		t.Fatalf("X-402-Required %q", got)
	}
	if rec.Header().Get("X-402-Price") == "" || rec.Header().Get("X-402-Address") == "" {
		t.Fatalf("missing price headers")
	}

	var body struct {
		Data struct {
			Payment struct {
				Price string `json:"price"`
				PayTo string `json:"payTo"`
			} `json:"payment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Payment.Price == "" || body.Data.Payment.PayTo == "" {
		t.Fatalf("payment instructions missing: %s", rec.Body.String())
	}
}

func TestSignalWithBypassReturns200(t *testing.T) {
	e := newTestServer(t, true)

	rec := do(e, http.MethodPost, "/api/signal", signalBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Signal struct {
				ID         string `json:"id"`
				Action     string `json:"action"`
				Confidence int    `json:"confidence"`
			} `json:"signal"`
			Paid   bool `json:"paid"`
			Cached bool `json:"cached"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Signal.ID == "" || body.Data.Signal.Action == "" {
		t.Fatalf("incomplete signal: %s", rec.Body.String())
	}
	if !body.Data.Paid {
		t.Fatalf("bypass should report paid")
	}

	// same caller inside the TTL gets the cached signal
	rec = do(e, http.MethodPost, "/api/signal", signalBody())
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Data.Cached {
		t.Fatalf("expected cache hit")
	}
}

func TestSignalValidation(t *testing.T) {
	e := newTestServer(t, true)

	cases := []string{
		`{}`,
		`{"userAddress":"not-an-address","portfolioValue":1,"goldPercentage":50,"riskTolerance":"moderate"}`,
		`{"userAddress":"` + userAddr + `","portfolioValue":1,"goldPercentage":150,"riskTolerance":"moderate"}`,
		`{"userAddress":"` + userAddr + `","portfolioValue":1,"goldPercentage":50,"riskTolerance":"reckless"}`,
	}

	for _, body := range cases {
		if rec := do(e, http.MethodPost, "/api/signal", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status %d", body, rec.Code)
		}
	}
}

func TestRejectedPaymentLeavesNoCacheEntry(t *testing.T) {
	e := newTestServer(t, false)

	wrongDest := `{"userAddress":"` + userAddr + `","portfolioValue":10000,"goldPercentage":50,"riskTolerance":"moderate",` +
		`"paymentProof":{"transactionHash":"0x01","from":"` + userAddr + `","to":"0x9999999999999999999999999999999999999999","amount":"10000","token":"USDC"}}`
	rec := do(e, http.MethodPost, "/api/signal", wrongDest)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("X-402-Required"); got != payment.CodeWrongDestination {
		t.Fatalf("X-402-Required %q", got)
	}

	// a later valid payment must compute fresh, proving the rejected
	// request wrote nothing
	valid := `{"userAddress":"` + userAddr + `","portfolioValue":10000,"goldPercentage":50,"riskTolerance":"moderate",` +
		`"paymentProof":{"transactionHash":"0x02","from":"` + userAddr + `","to":"0xAbCd000000000000000000000000000000000001","amount":"10000","token":"USDC"}}`
	rec = do(e, http.MethodPost, "/api/signal", valid)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Cached bool `json:"cached"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Cached {
		t.Fatalf("rejected payment must not have populated the cache")
	}
}

func TestPreviewIsFree(t *testing.T) {
	e := newTestServer(t, false)

	rec := do(e, http.MethodGet, "/api/signal/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var body struct {
		Data struct {
			Preview struct {
				Action    string `json:"action"`
				Reasoning string `json:"reasoning"`
			} `json:"preview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Preview.Action == "" {
		t.Fatalf("missing action")
	}
	if strings.Contains(strings.ToLower(body.Data.Preview.Reasoning), "inflation") {
		t.Fatalf("preview leaked reasoning: %s", body.Data.Preview.Reasoning)
	}
}

func TestPriceEndpoints(t *testing.T) {
	e := newTestServer(t, true)

	if rec := do(e, http.MethodGet, "/api/price", ""); rec.Code != http.StatusOK {
		t.Fatalf("/api/price status %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/price/stats", ""); rec.Code != http.StatusOK {
		t.Fatalf("/api/price/stats status %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/price/history?period=1d", ""); rec.Code != http.StatusOK {
		t.Fatalf("/api/price/history status %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/price/history?period=2y", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad period should 400, got %d", rec.Code)
	}
}

func TestPortfolioValidatesAddress(t *testing.T) {
	e := newTestServer(t, true)

	if rec := do(e, http.MethodGet, "/api/portfolio?address=nope", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/portfolio?address="+userAddr, ""); rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, true)

	rec := do(e, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body %s", rec.Body.String())
	}
}
