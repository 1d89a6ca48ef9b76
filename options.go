package pizzagpt

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/teilomillet/pizzagpt/client"
	"github.com/teilomillet/pizzagpt/config"
)

type options struct {
	config      *config.Config
	overrides   []func(*config.Config)
	credentials config.Credentials
	logger      *zap.Logger
	metrics     *client.Metrics
	client      client.Client
	transport   http.RoundTripper
}

// Option configures a Service.
type Option func(*options)

// WithConfig starts from cfg instead of config.DefaultConfig. The other
// config options apply on top of it regardless of their order.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithEnvironment selects the deployment to talk to.
func WithEnvironment(env config.Environment) Option {
	return override(func(c *config.Config) { c.Environment = env })
}

// WithBaseURL points the service at a custom base URL.
func WithBaseURL(baseURL string) Option {
	return override(func(c *config.Config) { c.BaseURL = baseURL })
}

// WithTimeout bounds each call.
func WithTimeout(timeout time.Duration) Option {
	return override(func(c *config.Config) { c.Timeout = timeout })
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return override(func(c *config.Config) { c.Headers[key] = value })
}

// WithCredentials replaces the credentials derived from the configuration.
func WithCredentials(creds config.Credentials) Option {
	return func(o *options) { o.credentials = creds }
}

// WithLogger sets the logger used by the service and its client.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records Prometheus metrics for every call.
func WithMetrics(m *client.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClient injects the transport client. The service does not close an
// injected client, and config options have no effect on it.
func WithClient(c client.Client) Option {
	return func(o *options) { o.client = c }
}

// WithHTTPTransport replaces the pooled HTTP transport of the default client.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func override(fn func(*config.Config)) Option {
	return func(o *options) { o.overrides = append(o.overrides, fn) }
}
