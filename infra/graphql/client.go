// infra/graphql/client.go
package graphql

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

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
)

// TokenProvider supplies the bearer token of the signed-in principal. The
// auth subsystem owns the token; the transport only attaches it.
type TokenProvider interface {
	AccessToken() string
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func() string

func (f TokenProviderFunc) AccessToken() string { return f() }

// StaticToken is a TokenProvider for a fixed token (tests, service accounts).
type StaticToken string

func (t StaticToken) AccessToken() string { return string(t) }

// Client posts queries and mutations to the single GraphQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	tokens   TokenProvider
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenProvider attaches bearer tokens to every request.
func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) { c.tokens = p }
}

// WithLogger overrides the transport logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a transport for one endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   log.New(os.Stderr, "graphql: ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request is the wire envelope for one operation.
type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// response is the standard GraphQL response envelope.
type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []responseError `json:"errors"`
}

type responseError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Run executes one operation and unmarshals the data envelope into out.
// Failures come back classified: unreachable endpoint or non-auth HTTP
// failure -> ErrTransport, permission rejection -> ErrUnauthorized, missing
// resource -> ErrNotFound, all wrapped so errors.Is works.
func (c *Client) Run(ctx context.Context, op Operation, vars map[string]any, out any) error {
	body, err := json.Marshal(request{
		Query:         op.Document,
		Variables:     vars,
		OperationName: op.Name,
	})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domainError.ErrInvalidInput, op.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domainError.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domainError.ErrTransport, op.Name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s: http %d", domainError.ErrUnauthorized, op.Name, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s: http %d", domainError.ErrTransport, op.Name, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domainError.ErrTransport, op.Name, err)
	}
	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %s: malformed response: %v", domainError.ErrTransport, op.Name, err)
	}
	if len(envelope.Errors) > 0 {
		return classify(op.Name, envelope.Errors)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %s: decode data: %v", domainError.ErrTransport, op.Name, err)
	}
	return nil
}
