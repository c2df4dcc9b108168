// Package classifier is the HTTP transport to the remote text-classification
// service. It knows the wire contract only; label translation and filtering
// of the echo key happen in the lifecycle package.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sentiview/pkg/types"
)

const defaultMaxResponseBytes int64 = 1 << 20

// Client posts text to the classification endpoint.
type Client struct {
	endpoint         string
	httpClient       *http.Client
	timeout          time.Duration
	maxResponseBytes int64
	log              zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each Predict call. Zero disables the extra deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d < 0 {
			d = 0
		}
		c.timeout = d
	}
}

// WithMaxResponseBytes caps the accepted response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n <= 0 {
			n = defaultMaxResponseBytes
		}
		c.maxResponseBytes = n
	}
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for endpoint, e.g. http://localhost:5000/predict.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:         endpoint,
		httpClient:       http.DefaultClient,
		maxResponseBytes: defaultMaxResponseBytes,
		log:              zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint returns the configured service address.
func (c *Client) Endpoint() string { return c.endpoint }

// Predict sends text to the service and returns the raw response object.
// Every failure is returned as *RequestFailedError.
func (c *Client) Predict(ctx context.Context, text string) (types.RawResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := c.do(ctx, text)
	dur := time.Since(start)
	if err != nil {
		observe("failed", dur.Seconds())
		c.log.Warn().Err(err).Dur("dur", dur).Msg("classify failed")
		return nil, err
	}
	observe("ok", dur.Seconds())
	c.log.Debug().Int("keys", len(raw)).Dur("dur", dur).Msg("classify ok")
	return raw, nil
}

func (c *Client) do(ctx context.Context, text string) (types.RawResponse, error) {
	body, err := json.Marshal(types.PredictRequest{Text: text})
	if err != nil {
		return nil, Failed(ReasonTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, Failed(ReasonTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Failed(ReasonTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxResponseBytes))
		return nil, &RequestFailedError{Reason: ReasonStatus, Status: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, &RequestFailedError{Reason: ReasonTransport, Status: resp.StatusCode, Err: err}
	}
	if int64(len(b)) > c.maxResponseBytes {
		return nil, &RequestFailedError{Reason: ReasonDecode, Status: resp.StatusCode, Err: fmt.Errorf("response exceeds %d bytes", c.maxResponseBytes)}
	}
	var raw types.RawResponse
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, &RequestFailedError{Reason: ReasonDecode, Status: resp.StatusCode, Err: err}
	}
	// "null" decodes into a nil map without error
	if raw == nil {
		return nil, &RequestFailedError{Reason: ReasonDecode, Status: resp.StatusCode, Err: fmt.Errorf("response is not a JSON object")}
	}
	return raw, nil
}
