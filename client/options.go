package client

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/teilomillet/pizzagpt/config"
)

type options struct {
	logger       *zap.Logger
	metrics      *Metrics
	roundTripper http.RoundTripper
	credentials  config.Credentials
}

// Option customizes an HTTPClient beyond what Config expresses.
type Option func(*options)

// WithLogger sets the logger. errors.DefaultLogger is used otherwise.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records Prometheus metrics for every call.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRoundTripper replaces the pooled transport built from
// Config.Transport. The client still uses a single http.Client around it.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

// WithCredentials overrides the credentials resolved from Config.
func WithCredentials(creds config.Credentials) Option {
	return func(o *options) { o.credentials = creds }
}
