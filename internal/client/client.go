// Package client provides a Go client for the structproof server.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raphaelgruber/structproof/internal/metrics"
	"github.com/raphaelgruber/structproof/internal/proof"
)

// Client talks to a structproof server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client.
// If baseURL is empty, uses STRUCTPROOF_SERVER_URL env var or defaults to
// localhost:8590. Timeout can be configured via STRUCTPROOF_CLIENT_TIMEOUT.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("STRUCTPROOF_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8590"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := time.Minute
	if t := os.Getenv("STRUCTPROOF_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ValidateOptions are optional per-request policy overrides. Nil fields fall
// back to the server's defaults.
type ValidateOptions struct {
	EntropyThreshold   *float64
	Mode               *string
	DivisorEchoEnabled *bool
	TimeoutMs          *int64
}

// ValidateResult mirrors the server's validation response.
type ValidateResult struct {
	StructurallyValid  bool                   `json:"is_structurally_valid"`
	EntropyScore       float64                `json:"entropy_score"`
	VerificationTimeMs int64                  `json:"verification_time_ms"`
	StructuralProof    *proof.StructuralProof `json:"structural_proof,omitempty"`
}

type validatePayload struct {
	Payload     string   `json:"payload"`
	Threshold   *float64 `json:"entropy_threshold,omitempty"`
	Mode        *string  `json:"validation_mode,omitempty"`
	DivisorEcho *bool    `json:"divisor_echo_enabled,omitempty"`
	TimeoutMs   *int64   `json:"verification_timeout_ms,omitempty"`
}

func validateBody(data []byte, opts *ValidateOptions) validatePayload {
	body := validatePayload{
		Payload: base64.StdEncoding.EncodeToString(data),
	}
	if opts != nil {
		body.Threshold = opts.EntropyThreshold
		body.Mode = opts.Mode
		body.DivisorEcho = opts.DivisorEchoEnabled
		body.TimeoutMs = opts.TimeoutMs
	}
	return body
}

// Validate runs structural validation on data server-side.
func (c *Client) Validate(ctx context.Context, data []byte, opts *ValidateOptions) (*ValidateResult, error) {
	var result ValidateResult
	if err := c.post(ctx, "/v1/validate", validateBody(data, opts), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Prove asks the server for a structural proof of data. A nil proof with a
// nil error means the data did not pass the divisor-echo test.
func (c *Client) Prove(ctx context.Context, data []byte) (*proof.StructuralProof, error) {
	body := map[string]string{
		"payload": base64.StdEncoding.EncodeToString(data),
	}

	var resp struct {
		Proven bool                   `json:"proven"`
		Proof  *proof.StructuralProof `json:"proof"`
	}
	if err := c.post(ctx, "/v1/prove", body, &resp); err != nil {
		return nil, err
	}
	return resp.Proof, nil
}

// Verify checks a proof against a threshold server-side.
func (c *Client) Verify(ctx context.Context, p *proof.StructuralProof, threshold float64) (bool, error) {
	body := map[string]any{
		"proof":     p,
		"threshold": threshold,
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := c.post(ctx, "/v1/verify", body, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// Stats fetches the server's runtime metrics snapshot.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.get(ctx, "/v1/stats", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s", resp.Status)
	}
	return nil
}

// ValidateStream opens the websocket endpoint and validates each payload in
// turn over a single connection. The onResult callback is invoked per
// payload; return an error from onResult to abort.
func (c *Client) ValidateStream(
	ctx context.Context,
	payloads [][]byte,
	opts *ValidateOptions,
	onResult func(result *ValidateResult) error,
) error {
	wsURL := c.baseURL
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)

	u, err := url.Parse(wsURL + "/v1/stream")
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	defer conn.Close()

	for _, data := range payloads {
		if err := conn.WriteJSON(validateBody(data, opts)); err != nil {
			return fmt.Errorf("send payload: %w", err)
		}

		var msg struct {
			ValidateResult
			Error string `json:"error,omitempty"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read result: %w", err)
		}
		if msg.Error != "" {
			return fmt.Errorf("server error: %s", msg.Error)
		}

		if err := onResult(&msg.ValidateResult); err != nil {
			return err
		}
	}

	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error: %s", apiErr.Error)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
