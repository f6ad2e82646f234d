// Package payment talks to the order/payment gateway that turns a cart's
// aggregated item tokens into a payable order reference.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Gateway obtains an order reference for a list of "<itemId>_<count>"
// tokens. The reference is opaque; the register only renders it as a QR
// code and stores it on the completed order.
type Gateway interface {
	CreateOrderReference(ctx context.Context, items []string) (string, error)
}

// HTTPGateway is a Gateway backed by the real payment service, authenticated
// with OAuth2 client credentials.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
}

// HTTPGatewayConfig holds configuration for the HTTP gateway
type HTTPGatewayConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewHTTPGateway creates a gateway client against the configured payment service
func NewHTTPGateway(cfg HTTPGatewayConfig) *HTTPGateway {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	client := cc.Client(context.Background())
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}

	return &HTTPGateway{
		client:  client,
		baseURL: cfg.BaseURL,
	}
}

type createOrderRequest struct {
	Items []string `json:"items"`
}

type createOrderResponse struct {
	OrderURL string `json:"order_url"`
}

// CreateOrderReference posts the aggregated items and returns the order URL
func (g *HTTPGateway) CreateOrderReference(ctx context.Context, items []string) (string, error) {
	body, err := json.Marshal(createOrderRequest{Items: items})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, payload)
	}

	var result createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("payment gateway response invalid: %w", err)
	}
	if result.OrderURL == "" {
		return "", fmt.Errorf("payment gateway returned an empty order url")
	}

	return result.OrderURL, nil
}

// MockGateway fabricates order references locally. Used when no gateway
// credentials are configured, so a register can run against nothing.
type MockGateway struct {
	baseURL string
}

// NewMockGateway creates a mock gateway rooted at baseURL
func NewMockGateway(baseURL string) *MockGateway {
	if baseURL == "" {
		baseURL = "https://www.pos.jeneser.wang"
	}
	return &MockGateway{baseURL: baseURL}
}

// CreateOrderReference returns a locally fabricated order URL
func (g *MockGateway) CreateOrderReference(ctx context.Context, items []string) (string, error) {
	return fmt.Sprintf("%s/orders/%d", g.baseURL, time.Now().UnixNano()), nil
}

// NewGatewayFromConfig returns the HTTP gateway when credentials are
// configured and falls back to the mock otherwise.
func NewGatewayFromConfig(cfg HTTPGatewayConfig) Gateway {
	if cfg.TokenURL == "" || cfg.ClientID == "" {
		return NewMockGateway(cfg.BaseURL)
	}
	return NewHTTPGateway(cfg)
}
