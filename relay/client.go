// Package relay talks to the meta-transaction relayer's /meta endpoints.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/0rca-network/opskit/internal/logger"
	"github.com/0rca-network/opskit/internal/utils/safecast"
	"github.com/0rca-network/opskit/types"
)

// RequestIDHeader carries a per request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client is a minimal HTTP client for the relayer API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the timeout of the underlying http.Client. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for the relayer at baseURL, e.g. "http://144.126.253.20".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Nonce fetches the forwarder nonce of addr from GET /meta/nonce/{address}.
func (c *Client) Nonce(ctx context.Context, addr common.Address) (uint64, error) {
	var resp types.NonceResponse
	if err := c.getJSON(ctx, "/meta/nonce/"+url.PathEscape(addr.Hex()), &resp); err != nil {
		return 0, err
	}

	nonce, err := safecast.AnyToUint64(resp.Nonce)
	if err != nil {
		return 0, fmt.Errorf("invalid nonce in response: %w", err)
	}

	return nonce, nil
}

// Domain fetches the EIP-712 domain and types from GET /meta/domain.
func (c *Client) Domain(ctx context.Context) (*types.DomainResponse, error) {
	var resp types.DomainResponse
	if err := c.getJSON(ctx, "/meta/domain", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Relay POSTs payload to /meta/relay. Every HTTP status is returned as a Response; only
// transport failures and undecodable 402 bodies are errors.
func (c *Client) Relay(ctx context.Context, payload types.RelayPayload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/meta/relay", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	code, respBody, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	return newResponse(code, respBody)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	code, body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if code < 200 || code > 299 {
		return NewStatusError(req.Method, req.URL.String(), code, body)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (int, []byte, error) {
	lggr := logger.LoggerFrom(ctx)
	lggr.Debugf("%s %s (request id %s)", req.Method, req.URL, req.Header.Get(RequestIDHeader))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s response: %w", req.URL, err)
	}
	lggr.Debugf("%s %s -> %d", req.Method, req.URL, resp.StatusCode)

	return resp.StatusCode, body, nil
}
