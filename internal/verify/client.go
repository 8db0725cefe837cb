// Package verify talks to the news verification service.
//
// A Client is stateless between calls: one POST per Verify, no retries, no
// caching. Every failure leaves this package as either *APIError or
// *TransportError so callers never look at transport details.
package verify

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

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	VerifyPath   = "/api/news/verify"
	SimulatePath = "/api/news/verify/simulate"
)

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

type Client struct {
	BaseURL  string
	HTTP     *http.Client
	log      *zap.Logger
	validate *validator.Validate
}

// NewClient returns a client for the service at baseURL. A zero timeout leaves
// the transport default in place.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: timeout},
		log:      log,
		validate: validator.New(),
	}
}

// Endpoint returns the URL Verify posts to for the given mode.
func (c *Client) Endpoint(useMock bool) string {
	if useMock {
		return c.BaseURL + SimulatePath
	}
	return c.BaseURL + VerifyPath
}

// Verify submits text and decodes the assessment. useMock selects the
// simulation endpoint.
func (c *Client) Verify(ctx context.Context, text string, useMock bool) (*Result, error) {
	endpoint := c.Endpoint(useMock)

	payload, err := json.Marshal(Request{Text: text})
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("posting verification request",
		zap.String("endpoint", endpoint),
		zap.Bool("simulated", useMock),
		zap.Int("chars", len(text)))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.rejection(resp.StatusCode, raw)
	}

	var wire wireResult
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}
	if err := c.validate.Struct(&wire); err != nil {
		return nil, &TransportError{Op: "validate", Err: err}
	}

	return wire.normalize(), nil
}

func (c *Client) rejection(status int, raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return &TransportError{
			Op:  "decode",
			Err: fmt.Errorf("status %d with unreadable error body: %w", status, err),
		}
	}
	msg, ok := body.message()
	if !ok {
		return &TransportError{
			Op:  "decode",
			Err: fmt.Errorf("status %d without detail: %w", status, errMissingDetail),
		}
	}
	return &APIError{Status: status, Message: msg}
}

var errMissingDetail = errors.New("error body has no detail")
