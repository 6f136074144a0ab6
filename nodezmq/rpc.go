// Package nodezmq is a Node implementation for monerod: JSON-RPC for
// synchronous global-index lookups, backed by a ZMQ subscriber for chain
// and pool notifications. It is a wiring example exercising the domain
// stack's transport dependencies; consumer package correctness does not
// depend on it.
package nodezmq

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

const EndpointJSONRPC = "/json_rpc"

type requestEnvelope struct {
	ID      string `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type responseEnvelope struct {
	ID      string          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// Client is a minimal monerod JSON-RPC client: one method, one endpoint,
// no connection pooling beyond what http.Client already provides.
type Client struct {
	url        string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(url string, opts ...ClientOption) (*Client, error) {
	c := &Client{url: url, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// JSONRPC performs one JSON-RPC 2.0 call against the daemon's /json_rpc
// endpoint, decoding result into out if non-nil.
func (c *Client) JSONRPC(ctx context.Context, method string, params, out any) error {
	body, err := json.Marshal(requestEnvelope{ID: "0", JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("nodezmq: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+EndpointJSONRPC, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("nodezmq: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nodezmq: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("nodezmq: non-2xx status %d", resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("nodezmq: decode: %w", err)
	}

	if envelope.Error != nil {
		return fmt.Errorf("nodezmq: rpc error: %w", envelope.Error)
	}

	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Result, out)
}
