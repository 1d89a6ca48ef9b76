// Package client implements the transport layer of the PizzaGPT API: one
// pooled HTTP session, one POST per Send, and a typed error for every
// failure.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/teilomillet/pizzagpt/config"
	"github.com/teilomillet/pizzagpt/errors"
)

var validate = validator.New()

// Client sends a prompt to the API and returns the parsed response.
// Implementations must be safe for concurrent use.
type Client interface {
	Send(ctx context.Context, prompt string) (Response, error)
}

// Verify at compile time that HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// Response is the result of one successful call. It is returned by value
// and never modified by the client afterwards.
type Response struct {
	// StatusCode is the HTTP status of the response
	StatusCode int

	// Body is the raw response body
	Body string

	// Answer is the text extracted from the first configured answer field
	Answer string

	// RequestID is the X-Request-ID sent with the request
	RequestID string

	// ReceivedAt is when the response was fully read
	ReceivedAt time.Time
}

// Stats describes pool usage since the client was created.
type Stats struct {
	// RequestsSent counts requests handed to the HTTP stack
	RequestsSent int64

	// ConnectionsOpened counts TCP connections dialed by the pool. It stays
	// at zero when a custom RoundTripper was supplied.
	ConnectionsOpened int64
}

// HTTPClient is the net/http implementation of Client. All calls share a
// single http.Client and its connection pool.
type HTTPClient struct {
	httpClient   *http.Client
	url          string
	headers      http.Header
	promptField  string
	answerFields []string
	parameters   map[string]interface{}
	maxBody      int64

	logger  *zap.Logger
	metrics *Metrics
	breaker *gobreaker.CircuitBreaker

	requests atomic.Int64
	dials    atomic.Int64
	closed   atomic.Bool
}

// New creates an HTTPClient from cfg. A nil cfg means DefaultConfig. The
// configuration is validated and copied; later changes to cfg are not seen.
func New(cfg *config.Config, opts ...Option) (*HTTPClient, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = errors.DefaultLogger
	}

	creds := o.credentials
	if creds.IsZero() {
		var err error
		if creds, err = cfg.ResolveCredentials(); err != nil {
			return nil, err
		}
	}

	c := &HTTPClient{
		url:          cfg.URL(),
		headers:      buildHeaders(cfg.Headers, creds),
		promptField:  cfg.Request.PromptField,
		answerFields: cfg.Request.AnswerFields,
		parameters:   cfg.Request.Parameters,
		maxBody:      cfg.Request.MaxResponseBytes,
		logger:       o.logger.With(zap.String("component", "pizzagpt_client")),
		metrics:      o.metrics,
	}

	rt := o.roundTripper
	if rt == nil {
		t, err := newTransport(cfg.Transport, c.onDial)
		if err != nil {
			return nil, err
		}
		rt = t
	}
	c.httpClient = &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
	}

	if cfg.CircuitBreaker.Enabled {
		c.breaker = newBreaker(cfg.CircuitBreaker, c.url, c.logger, c.metrics)
	}

	return c, nil
}

// ValidatePrompt rejects an empty prompt with a validation error.
func ValidatePrompt(prompt string) error {
	if err := validate.Var(prompt, "required"); err != nil {
		return errors.NewValidationError("prompt must not be empty", map[string]interface{}{
			"field": "prompt",
		})
	}
	return nil
}

// Send posts prompt to the API. An empty prompt fails before any network
// activity. The call makes exactly one request and never retries.
func (c *HTTPClient) Send(ctx context.Context, prompt string) (Response, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return Response{}, err
	}
	if c.closed.Load() {
		return Response{}, errors.NewError(errors.GeneralError, "client is closed", 0, nil)
	}

	requestID := uuid.New().String()
	payload, err := encodePayload(c.promptField, prompt, c.parameters)
	if err != nil {
		return Response{}, errors.NewError(errors.GeneralError, "encode request payload", 0, err)
	}

	c.logger.Debug("Sending request",
		zap.String("request_id", requestID),
		zap.String("url", c.url),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	resp, err := c.execute(ctx, requestID, payload)
	duration := time.Since(start)
	c.metrics.observe(err, duration)

	if err != nil {
		c.logger.Debug("Request failed",
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return Response{}, err
	}

	c.logger.Debug("Received response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)
	return resp, nil
}

// execute runs the round trip, through the circuit breaker when one is configured.
func (c *HTTPClient) execute(ctx context.Context, requestID string, payload []byte) (Response, error) {
	if c.breaker == nil {
		return c.roundTrip(ctx, requestID, payload)
	}

	var resp Response
	_, err := c.breaker.Execute(func() (interface{}, error) {
		var err error
		resp, err = c.roundTrip(ctx, requestID, payload)
		return nil, err
	})
	if isBreakerRejection(err) {
		return Response{}, errors.NewConnectionError(requestID, "circuit breaker rejected the request", err)
	}
	return resp, err
}

func (c *HTTPClient) roundTrip(ctx context.Context, requestID string, payload []byte) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, errors.NewError(errors.GeneralError, "build request", 0, err)
	}
	req.Header = c.headers.Clone()
	req.Header.Set("X-Request-ID", requestID)

	c.requests.Add(1)
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, errors.NewConnectionError(requestID, fmt.Sprintf("failed to connect to %s", c.url), err)
	}
	defer httpResp.Body.Close()

	// one extra byte tells an oversized body from one that fits exactly
	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		return Response{}, errors.NewConnectionError(requestID, "failed to read response body", err)
	}
	tooLarge := int64(len(raw)) > c.maxBody
	if tooLarge {
		raw = raw[:c.maxBody]
	}
	body := string(raw)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return Response{}, errors.NewResponseError(requestID, httpResp.StatusCode, errorMessage(httpResp.StatusCode, raw), body)
	}
	if tooLarge {
		return Response{}, errors.NewMalformedResponseError(requestID, httpResp.StatusCode, body,
			fmt.Errorf("response body exceeds %d bytes", c.maxBody))
	}

	answer, err := extractAnswer(raw, c.answerFields)
	if err != nil {
		return Response{}, errors.NewMalformedResponseError(requestID, httpResp.StatusCode, body, err)
	}

	return Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Answer:     answer,
		RequestID:  requestID,
		ReceivedAt: time.Now(),
	}, nil
}

func (c *HTTPClient) onDial() {
	c.dials.Add(1)
	c.metrics.connectionOpened()
}

// Stats returns pool usage counters.
func (c *HTTPClient) Stats() Stats {
	return Stats{
		RequestsSent:      c.requests.Load(),
		ConnectionsOpened: c.dials.Load(),
	}
}

// URL returns the endpoint the client posts to.
func (c *HTTPClient) URL() string {
	return c.url
}

// Close releases idle pooled connections. Send fails after Close.
func (c *HTTPClient) Close() error {
	c.closed.Store(true)
	c.httpClient.CloseIdleConnections()
	return nil
}

func buildHeaders(extra map[string]string, creds config.Credentials) http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	for k, v := range extra {
		h.Set(k, v)
	}
	h.Set("Origin", creds.Origin())
	h.Set("X-Secret", creds.SecretKey())
	return h
}
