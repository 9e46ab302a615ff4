package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vaultagent/internal/config"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorPreview = 512
)

// Client talks to the vault canister over its HTTP gateway. Every tool maps
// to one POST with a JSON body; the canister is addressed by a Host header of
// the form "<canister-id>.localhost".
type Client struct {
	baseURL    string
	canisterID string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a backend client from config.
func NewClient(cfg config.BackendConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		canisterID: cfg.CanisterID,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
}

// Call posts body to path and returns the raw JSON response. Any non-2xx
// status or transport failure is an error; the caller decides how to fold
// that into a tool result.
func (c *Client) Call(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.canisterID != "" {
		req.Host = c.canisterID + ".localhost"
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("backend call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(data)
		if len(preview) > maxErrorPreview {
			preview = preview[:maxErrorPreview]
		}
		return nil, fmt.Errorf("backend %s returned status %d: %s", path, resp.StatusCode, preview)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("backend %s returned non-JSON body", path)
	}

	return json.RawMessage(data), nil
}

// CheckAdmin asks the backend whether the principal has admin privileges.
// This is the check behind the authorization cache.
func (c *Client) CheckAdmin(ctx context.Context, principal string) (bool, error) {
	raw, err := c.Call(ctx, "/admin-check", map[string]string{"principal": principal})
	if err != nil {
		return false, err
	}

	var result struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, fmt.Errorf("decode admin check response: %w", err)
	}
	return result.IsAdmin, nil
}
