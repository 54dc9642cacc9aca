// Package logseq talks to a running Logseq instance through its HTTP API
// server. Every call is a POST of {"method", "args"} to a single endpoint.
package logseq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/nt/pkg/core"
)

// DefaultEndpoint is the address of the Logseq API server on a desktop install.
const DefaultEndpoint = "http://127.0.0.1:12315/api"

// Config holds the connection settings.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
	// ReadOnly rejects every mutating call with core.ErrReadOnly.
	ReadOnly   bool
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements core.Graph over the Logseq HTTP API.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger

	mu      sync.Mutex
	calls   int
	lastErr error
	lastAt  *time.Time
}

// NewClient creates a client. The endpoint defaults to DefaultEndpoint.
func NewClient(config Config) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{config: config, http: httpClient, logger: logger}
}

type request struct {
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

// Call invokes method with args and decodes the result into out (when
// non-nil). A JSON null result leaves out untouched.
func (c *Client) Call(ctx context.Context, method string, out any, args ...any) error {
	err := c.call(ctx, method, out, args)
	c.record(err)
	return err
}

func (c *Client) call(ctx context.Context, method string, out any, args []any) error {
	body, err := json.Marshal(request{Method: method, Args: args})
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	c.logger.Debug("logseq call", "method", method, "args", len(args))
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &core.RemoteError{Method: method, Status: resp.StatusCode, Message: msg}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s: %w", method, core.ErrBadResponse)
	}

	if data[0] == '{' {
		var failure struct {
			Error any `json:"error"`
		}
		if err := json.Unmarshal(data, &failure); err == nil && failure.Error != nil {
			if msg := fmt.Sprint(failure.Error); msg != "" {
				return &core.RemoteError{Method: method, Message: msg}
			}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", method, core.ErrBadResponse, err)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, method string, out any, args ...any) error {
	if c.config.ReadOnly {
		return fmt.Errorf("%s: %w", method, core.ErrReadOnly)
	}
	return c.Call(ctx, method, out, args...)
}

func (c *Client) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.calls++
	c.lastAt = &now
	if err != nil && !errors.Is(err, context.Canceled) {
		c.lastErr = err
	}
}

// ClientState exposes call counters for observability.
type ClientState struct {
	Endpoint  string     `json:"endpoint"`
	ReadOnly  bool       `json:"read_only"`
	Calls     int        `json:"calls"`
	LastCall  *time.Time `json:"last_call,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ClientState{
		Endpoint: c.config.Endpoint,
		ReadOnly: c.config.ReadOnly,
		Calls:    c.calls,
		LastCall: c.lastAt,
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "logseq"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
