package maudclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trialsage/internal/bootstrap/config"
	"trialsage/internal/errs"
)

// ErrUpstream marks any failure of the remote validation service so callers
// can degrade to cached results.
var ErrUpstream = errors.New("validation upstream unavailable")

type ValidationRequest struct {
	Service   string         `json:"service"`
	TargetID  string         `json:"targetId"`
	Payload   map[string]any `json:"payload"`
	Requested string         `json:"requested"`
}

type ValidationResponse struct {
	Outcome  string          `json:"outcome"`
	Details  json.RawMessage `json:"details"`
	Verified string          `json:"verified"`
}

// Client talks to the MAUD validation REST API with bearer-token auth and a
// tenant header.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(cfg config.MAUDConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Validate(ctx context.Context, tenantID string, req ValidationRequest) (ValidationResponse, error) {
	if ctx == nil {
		return ValidationResponse{}, errors.New("context is required")
	}
	if c.baseURL == "" {
		return ValidationResponse{}, fmt.Errorf("%w: no base url configured", ErrUpstream)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return ValidationResponse{}, errs.Wrap(err, "marshal validation request")
	}

	url := fmt.Sprintf("%s/api/validate/%s/%s", c.baseURL, req.Service, req.TargetID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ValidationResponse{}, errs.Wrap(err, "build validation request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-Id", tenantID)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return ValidationResponse{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ValidationResponse{}, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ValidationResponse{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out ValidationResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return ValidationResponse{}, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return out, nil
}
