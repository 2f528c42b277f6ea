package ledger

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"GoldGate/internal/domain/models"
	domsvc "GoldGate/internal/domain/service"
	"GoldGate/pkg/config"
	xhttp "GoldGate/pkg/http"

	"golang.org/x/crypto/sha3"
)

// Client reads portfolio state from the on-chain vault over JSON-RPC. It is
// strictly read-only; trade execution never goes through this service.
type Client struct {
	rpcURL string
	vault  string
	client *xhttp.Client
}

// NewClient builds a ledger client. When no vault address is configured the
// client serves a deterministic mock breakdown so the rest of the service
// stays usable in development.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Ledger.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		rpcURL: cfg.Ledger.RPCURL,
		vault:  cfg.Ledger.VaultAddress,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// PortfolioBreakdown calls the vault's getPortfolioBreakdown(address) view.
func (c *Client) PortfolioBreakdown(ctx context.Context, address string) (models.PortfolioBreakdown, error) {
	if c.vault == "" || c.rpcURL == "" {
		return mockBreakdown(address), nil
	}

	data, err := encodeCall("getPortfolioBreakdown(address)", address)
	if err != nil {
		return models.PortfolioBreakdown{}, err
	}

	var resp rpcResponse
	err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     c.rpcURL,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body: rpcRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "eth_call",
			Params: []interface{}{
				map[string]string{"to": c.vault, "data": data},
				"latest",
			},
		},
	}, &resp)
	if err != nil {
		return models.PortfolioBreakdown{}, fmt.Errorf("eth_call: %w", err)
	}
	if resp.Error != nil {
		return models.PortfolioBreakdown{}, fmt.Errorf("eth_call: %s", resp.Error.Message)
	}

	words, err := decodeWords(resp.Result, 7)
	if err != nil {
		return models.PortfolioBreakdown{}, fmt.Errorf("decode breakdown: %w", err)
	}

	return models.PortfolioBreakdown{
		Address:        address,
		USDCAmount:     fromUnits(words[0], 6),
		USDCValueUSD:   fromUnits(words[1], 6),
		GoldAmount:     fromUnits(words[2], 18),
		GoldValueUSD:   fromUnits(words[3], 6),
		TotalValueUSD:  fromUnits(words[4], 6),
		USDCPercentage: fromUnits(words[5], 0),
		GoldPercentage: fromUnits(words[6], 0),
	}, nil
}

// encodeCall builds calldata for a single-address-argument view function.
func encodeCall(signature, address string) (string, error) {
	addr := strings.TrimPrefix(strings.ToLower(address), "0x")
	if len(addr) != 40 {
		return "", fmt.Errorf("invalid address %q", address)
	}
	if _, err := hex.DecodeString(addr); err != nil {
		return "", fmt.Errorf("invalid address %q", address)
	}

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	selector := hex.EncodeToString(h.Sum(nil)[:4])

	return "0x" + selector + strings.Repeat("0", 24) + addr, nil
}

// decodeWords splits an eth_call result into n 32-byte big.Int words.
func decodeWords(result string, n int) ([]*big.Int, error) {
	raw := strings.TrimPrefix(result, "0x")
	if len(raw) < n*64 {
		return nil, fmt.Errorf("short result: %d hex chars, want %d", len(raw), n*64)
	}

	words := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		w, ok := new(big.Int).SetString(raw[i*64:(i+1)*64], 16)
		if !ok {
			return nil, fmt.Errorf("bad word %d", i)
		}
		words[i] = w
	}
	return words, nil
}

// fromUnits converts a uint256 with the given decimals to float64.
func fromUnits(v *big.Int, decimals int) float64 {
	f := new(big.Float).SetInt(v)
	if decimals > 0 {
		scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
		f.Quo(f, scale)
	}
	out, _ := f.Float64()
	return out
}

func mockBreakdown(address string) models.PortfolioBreakdown {
	return models.PortfolioBreakdown{
		Address:        address,
		USDCAmount:     600,
		USDCValueUSD:   600,
		GoldAmount:     0.1860,
		GoldValueUSD:   400,
		TotalValueUSD:  1000,
		USDCPercentage: 60,
		GoldPercentage: 40,
	}
}

var _ domsvc.Ledger = (*Client)(nil)
