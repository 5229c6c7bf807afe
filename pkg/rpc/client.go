package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout is how long a single round trip to the node may
	// take before the transport gives up on it.
	//
	DefaultTimeout = 30 * time.Second

	// clientID is the id sent in every json-rpc request envelope.
	//
	clientID = "utxo-exporter"
)

// Client is a "raw" json-rpc client for UTXO-model nodes (bitcoind and
// compatible daemons).
//
// It performs exactly one network round trip per Call - retrying is the
// business of whoever consumes it (see `pkg/retry`).
//
type Client struct {
	address  *url.URL
	username string
	password string
	timeout  time.Duration

	http *http.Client
}

// Option is a type used by functional arguments to override the client's
// default behavior.
//
type Option func(c *Client)

// WithBasicAuth configures the credentials submitted via http basic auth
// on every request.
//
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient overrides the default http client used for submitting
// requests to the node.
//
func WithHTTPClient(v *http.Client) Option {
	return func(c *Client) {
		c.http = v
	}
}

// WithTimeout overrides the default per-request timeout. It applies
// regardless of the order it is passed in relative to WithHTTPClient.
//
func WithTimeout(v time.Duration) Option {
	return func(c *Client) {
		c.timeout = v
	}
}

// NewClient instantiates a new client that submits calls to `address`,
// e.g., `http://localhost:8332`.
//
func NewClient(address string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("url parse '%s': %w", address, err)
	}

	c := &Client{
		address: parsed,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	if c.timeout != 0 {
		c.http.Timeout = c.timeout
	}

	return c, nil
}

// requestEnvelope is the json-rpc 1.0 request body understood by bitcoind
// and friends.
//
type requestEnvelope struct {
	ID     string        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// responseEnvelope is the corresponding response body.
//
// `result` is kept raw so that each caller can decode it against its own
// schema.
//
type responseEnvelope struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *ResponseError  `json:"error"`
}

// ResponseError is the error object of a json-rpc response.
//
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call performs a single json-rpc method invocation against the node,
// decoding the result into `out` (unless `out` is nil).
//
// Failures are always surfaced as `*rpc.Error` so that callers can tell
// apart transport blips, protocol violations, and credential problems.
//
func (c *Client) Call(
	ctx context.Context, method string, params []interface{}, out interface{},
) error {
	if params == nil {
		params = []interface{}{}
	}

	body, err := json.Marshal(&requestEnvelope{
		ID:     clientID,
		Method: method,
		Params: params,
	})
	if err != nil {
		return &Error{
			Kind:   ErrorKindProtocol,
			Method: method,
			Err:    fmt.Errorf("marshal request: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.address.String(), bytes.NewReader(body),
	)
	if err != nil {
		return &Error{
			Kind:   ErrorKindTransport,
			Method: method,
			Err:    fmt.Errorf("new request: %w", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{
			Kind:   ErrorKindTransport,
			Method: method,
			Err:    fmt.Errorf("do: %w", err),
		}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{
			Kind:   ErrorKindAuth,
			Method: method,
			Err:    fmt.Errorf("credentials rejected: %s", resp.Status),
		}
	}

	// bitcoind reports rpc-level errors with a non-200 status but still
	// ships the json-rpc error object in the body, so decoding comes
	// before any status check.
	envelope := &responseEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(envelope); err != nil {
		return &Error{
			Kind:   ErrorKindProtocol,
			Method: method,
			Err:    fmt.Errorf("decode response (status %s): %w", resp.Status, err),
		}
	}

	if envelope.Error != nil {
		return &Error{
			Kind:   ErrorKindProtocol,
			Method: method,
			Err:    envelope.Error,
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return &Error{
			Kind:   ErrorKindProtocol,
			Method: method,
			Err:    fmt.Errorf("unmarshal result: %w", err),
		}
	}

	return nil
}
