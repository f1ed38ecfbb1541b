package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type ChargeInput struct {
	Phone     string  `json:"phone"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Reference string  `json:"reference"`
}

type ChargeResult struct {
	Success     bool    `json:"success"`
	ProviderRef *string `json:"provider_ref,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Gateway is the payment-provider charge capability. The real provider
// confirms asynchronously through the payments webhook; Charge only reports
// whether the charge request was accepted.
type Gateway interface {
	Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error)
}

var gateway Gateway

func GetGateway() Gateway {
	if gateway != nil {
		return gateway
	}
	if os.Getenv("GATEWAY_MODE") == "sandbox" {
		gateway = &sandboxGateway{}
		return gateway
	}
	gateway = &httpGateway{
		baseURL: os.Getenv("GATEWAY_BASE_URL"),
		apiKey:  os.Getenv("GATEWAY_API_KEY"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	return gateway
}

// NewGateway Replace gateway instance with custom implementation
func NewGateway(g Gateway) Gateway {
	gateway = g
	return gateway
}

type httpGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func (g *httpGateway) Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/charges", g.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))
	res, err := g.client.Do(req)
	if err != nil {
		log.Printf("[gateway] Error on charge request [%s]: %s\n", input.Reference, err.Error())
		return nil, err
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var result ChargeResult
	if err := json.Unmarshal(resBody, &result); err != nil {
		log.Printf("[gateway] Error decoding charge response: %s\n", err.Error())
		return nil, err
	}
	if res.StatusCode >= http.StatusBadRequest {
		result.Success = false
	}
	return &result, nil
}

// sandboxGateway accepts every charge without calling out. Confirmation still
// arrives through the webhook, so local flows exercise the same paths.
type sandboxGateway struct{}

func (g *sandboxGateway) Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error) {
	ref := fmt.Sprintf("sandbox_%s", input.Reference)
	log.Printf("[gateway] sandbox charge accepted: %s %s %.2f\n", input.Reference, input.Phone, input.Amount)
	return &ChargeResult{Success: true, ProviderRef: &ref, Message: "accepted"}, nil
}
