// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package convex provides a minimal HTTP client for calling functions on a Convex deployment.
// It speaks the public Convex HTTP function API: a JSON POST to /api/mutation carrying the
// function path and Convex-encoded arguments, answered by a success or error envelope.
//
// Only what the seed runner needs is implemented: mutations, optional identity or
// deployment-key authorization, decoding of Convex-encoded result values and
// forwarding of server-side log lines.
package convex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultClientID is sent in the Convex-Client header unless overridden.
const DefaultClientID = "go-convex-seed"

// statusFunctionError is the HTTP status Convex uses for a function that threw.
const statusFunctionError = 560

// LogHandler receives server-side console output attached to a function response.
type LogHandler func(kind, path string, line LogLine)

// Client calls functions on one Convex deployment over HTTP.
// It holds no per-call state and is safe to reuse, but the seed runner issues a single call.
type Client struct {
	// address is the deployment URL without a trailing slash (e.g., "https://happy-otter-123.convex.cloud")
	address string
	// client is the underlying HTTP client; a zero Timeout leaves timing to the transport
	client *http.Client
	// token is a user identity token sent as a Bearer credential
	token string
	// adminKey is a deployment key; it takes precedence over token
	adminKey string
	// clientID is sent in the Convex-Client header
	clientID string
	// onLog receives log lines returned by the deployment
	onLog LogHandler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithAuth authenticates calls as a user with an identity token (OpenID Connect JWT).
func WithAuth(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithAdminAuth authenticates calls with a deployment key, which also permits internal functions.
// It takes precedence over WithAuth when both are given.
func WithAdminAuth(key string) Option {
	return func(c *Client) {
		c.adminKey = strings.TrimSpace(key)
	}
}

// WithClientID overrides the Convex-Client header value.
func WithClientID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.clientID = id
		}
	}
}

// WithLogHandler registers a handler for server-side log lines.
func WithLogHandler(h LogHandler) Option {
	return func(c *Client) {
		c.onLog = h
	}
}

// New creates a client bound to the deployment at address.
// The address is validated the same way the official clients do before any request is made.
func New(address string, opts ...Option) (*Client, error) {
	if err := ValidateDeploymentURL(address); err != nil {
		return nil, err
	}
	c := &Client{
		address:  strings.TrimRight(strings.TrimSpace(address), "/"),
		client:   &http.Client{},
		clientID: DefaultClientID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// authorization returns the Authorization header value, or "" when unauthenticated.
func (c *Client) authorization() string {
	switch {
	case c.adminKey != "":
		return "Convex " + c.adminKey
	case c.token != "":
		return "Bearer " + c.token
	default:
		return ""
	}
}

// Address returns the deployment URL the client is bound to.
func (c *Client) Address() string { return c.address }

// Mutation runs the mutation at path (e.g., "seed:seedData") with args and returns its decoded result.
// A function that throws yields a *FunctionError; a non-success HTTP exchange yields an *HTTPError.
func (c *Client) Mutation(ctx context.Context, path string, args map[string]any) (any, error) {
	return c.call(ctx, "mutation", path, args)
}

// requestBody is the JSON envelope accepted by /api/{query,mutation,action}.
type requestBody struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Args   []any  `json:"args"`
}

// responseBody is the JSON envelope returned for status 200 and 560.
type responseBody struct {
	Status       string            `json:"status"`
	Value        json.RawMessage   `json:"value"`
	ErrorMessage string            `json:"errorMessage"`
	ErrorData    json.RawMessage   `json:"errorData"`
	LogLines     []json.RawMessage `json:"logLines"`
}

func (c *Client) call(ctx context.Context, kind, path string, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(requestBody{
		Path:   path,
		Format: "convex_encoded_json",
		Args:   []any{args},
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address+"/api/"+kind, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Convex-Client", c.clientID)
	if auth := c.authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != statusFunctionError {
		body, _ := io.ReadAll(resp.Body)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out responseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", kind, err)
	}

	c.forwardLogs(kind, path, out.LogLines)

	switch out.Status {
	case "success":
		return DecodeValue(out.Value)
	case "error":
		fe := &FunctionError{Path: path, Message: out.ErrorMessage}
		if len(out.ErrorData) > 0 && string(out.ErrorData) != "null" {
			if data, err := DecodeValue(out.ErrorData); err == nil {
				fe.Data = data
			}
		}
		return nil, fe
	default:
		return nil, fmt.Errorf("invalid %s response status %q", kind, out.Status)
	}
}

func (c *Client) forwardLogs(kind, path string, raw []json.RawMessage) {
	if c.onLog == nil {
		return
	}
	for _, r := range raw {
		if line, ok := parseLogLine(r); ok {
			c.onLog(kind, path, line)
		}
	}
}
