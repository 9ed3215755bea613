package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// InitResult is what a gateway returns after initializing a charge.
type InitResult struct {
	Reference        string
	ClientSecret     string
	AuthorizationURL string
}

// VerifyResult is the provider's authoritative status for a charge.
type VerifyResult struct {
	Status string // success | failed | anything else is still pending
}

// Gateway is the provider-facing side of the payment bridge. One variant is
// selected at startup: the live Paystack gateway when a secret key is
// configured, the mock gateway otherwise.
type Gateway interface {
	Name() string
	// Live reports whether charges go to a real provider.
	Live() bool
	Initialize(ctx context.Context, amountMinor int64, email string) (*InitResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// ── Paystack ─────────────────────────────────────────────────────────────────

// Provider calls are bounded by the client timeout; a timeout is an unknown
// outcome to be reconciled via Verify, never assumed failed on their side.
const providerTimeout = 10 * time.Second

type paystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackGateway creates the live gateway.
func NewPaystackGateway(secretKey, baseURL string) Gateway {
	return &paystackGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: providerTimeout},
	}
}

func (g *paystackGateway) Name() string { return "paystack" }
func (g *paystackGateway) Live() bool   { return true }

func (g *paystackGateway) Initialize(ctx context.Context, amountMinor int64, email string) (*InitResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount": amountMinor,
		"email":  email,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := g.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", resp.Message)
	}
	return &InitResult{
		Reference:        resp.Data.Reference,
		ClientSecret:     resp.Data.AccessCode,
		AuthorizationURL: resp.Data.AuthorizationURL,
	}, nil
}

func (g *paystackGateway) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := g.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return nil, err
	}
	return &VerifyResult{Status: resp.Data.Status}, nil
}

func (g *paystackGateway) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("paystack returned %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// ── Mock ─────────────────────────────────────────────────────────────────────

// mockGateway backs the offline demo path: no provider call is made and
// charges are reported captured immediately.
type mockGateway struct{}

// NewMockGateway creates the offline gateway.
func NewMockGateway() Gateway { return &mockGateway{} }

func (g *mockGateway) Name() string { return "mock" }
func (g *mockGateway) Live() bool   { return false }

func (g *mockGateway) Initialize(ctx context.Context, amountMinor int64, email string) (*InitResult, error) {
	return &InitResult{Reference: "mock_" + uuid.NewString()}, nil
}

func (g *mockGateway) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	return &VerifyResult{Status: "success"}, nil
}
