// Package config provides configuration management for the PizzaGPT client.
// It covers the target deployment, request shape, connection pooling,
// optional circuit breaking and logging preferences.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/teilomillet/pizzagpt/errors"
)

var validate = validator.New()

// Config represents the complete client configuration.
// A client copies what it needs at construction, so a Config handed to a
// client can be reused or discarded without affecting it.
type Config struct {
	// Environment selects the deployment (default: production)
	Environment Environment `yaml:"environment" validate:"oneof=production staging development"`

	// BaseURL overrides the environment's base URL when set
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`

	// Endpoint is the API path segment under {base}/api/ (default: chatx-completion)
	Endpoint string `yaml:"endpoint" validate:"required"`

	// Timeout bounds a single call, connection included (default: 30s)
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`

	// Headers are added to every request
	Headers map[string]string `yaml:"headers"`

	// Credentials left empty are filled from the environment defaults
	Credentials CredentialsConfig `yaml:"credentials"`

	Request        RequestConfig        `yaml:"request"`
	Transport      TransportConfig      `yaml:"transport"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// CredentialsConfig is the file representation of Credentials.
// Use environment variables (e.g., ${PIZZAGPT_SECRET}) for secure configuration.
type CredentialsConfig struct {
	SecretKey string `yaml:"secret_key"`
	Origin    string `yaml:"origin"`
}

// RequestConfig describes the request and response payloads. The remote
// schema is not under our control, so field names live here rather than in code.
type RequestConfig struct {
	// PromptField is the JSON key carrying the prompt (default: question)
	PromptField string `yaml:"prompt_field" validate:"required"`

	// AnswerFields are tried in order when extracting the answer
	// (default: content, answer)
	AnswerFields []string `yaml:"answer_fields" validate:"min=1,dive,required"`

	// Parameters are fixed fields added to every payload
	Parameters map[string]interface{} `yaml:"parameters"`

	// MaxResponseBytes caps how much of a response body is read (default: 4MiB)
	MaxResponseBytes int64 `yaml:"max_response_bytes" validate:"gt=0"`
}

// TransportConfig captures the connection pool knobs of the underlying
// http.Transport. Zero values fall back to the defaults of DefaultConfig;
// MaxConnsPerHost defaults to zero, which means no limit.
type TransportConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" validate:"gte=0"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" validate:"gte=0"`
	DialTimeout         time.Duration `yaml:"dial_timeout" validate:"gte=0"`
	KeepAlive           time.Duration `yaml:"keep_alive" validate:"gte=0"`
	TLSHandshakeTimeout time.Duration `yaml:"tls_handshake_timeout" validate:"gte=0"`

	// ProxyURL routes requests through an HTTP proxy when set
	ProxyURL string `yaml:"proxy_url" validate:"omitempty,url"`
}

// CircuitBreakerConfig configures the optional breaker in front of the API.
// It never retries; an open breaker fails calls fast.
type CircuitBreakerConfig struct {
	// Enabled turns the breaker on (default: false)
	Enabled bool `yaml:"enabled"`

	// MaxRequests is maximum number of requests allowed to pass through when in half-open state
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval is the cyclic period of the closed state for the circuit breaker
	Interval time.Duration `yaml:"interval" validate:"gte=0"`

	// Timeout is the period of the open state until it becomes half-open
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// FailureThreshold is the number of consecutive failures needed to trip the circuit
	FailureThreshold uint32 `yaml:"failure_threshold"`
}

// WithDefaults returns t with every zero field replaced by its DefaultConfig value.
func (t TransportConfig) WithDefaults() TransportConfig {
	def := DefaultConfig().Transport
	if t.MaxIdleConns == 0 {
		t.MaxIdleConns = def.MaxIdleConns
	}
	if t.MaxIdleConnsPerHost == 0 {
		t.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}
	if t.IdleConnTimeout == 0 {
		t.IdleConnTimeout = def.IdleConnTimeout
	}
	if t.DialTimeout == 0 {
		t.DialTimeout = def.DialTimeout
	}
	if t.KeepAlive == 0 {
		t.KeepAlive = def.KeepAlive
	}
	if t.TLSHandshakeTimeout == 0 {
		t.TLSHandshakeTimeout = def.TLSHandshakeTimeout
	}
	return t
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format specifies log output format: json or text
	Format string `yaml:"format" validate:"oneof=json text"`
}

// DefaultConfig returns the configuration of the public PizzaGPT web client.
func DefaultConfig() *Config {
	return &Config{
		Environment: Production,
		Endpoint:    EndpointChatCompletion,
		Timeout:     30 * time.Second,
		Headers:     map[string]string{},

		Request: RequestConfig{
			PromptField:      "question",
			AnswerFields:     []string{"content", "answer"},
			Parameters:       map[string]interface{}{},
			MaxResponseBytes: 4 << 20, // 4MiB
		},

		Transport: TransportConfig{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DialTimeout:         5 * time.Second,
			KeepAlive:           30 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},

		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          false,
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile loads configuration from a YAML file
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from an io.Reader. Environment variables are
// expanded first, then the YAML is decoded on top of DefaultConfig and the
// result validated.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded, err := expandEnvVars(string(data))
	if err != nil {
		return nil, fmt.Errorf("expand environment variables: %w", err)
	}

	config := DefaultConfig()

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	if err := dec.Decode(config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// expandEnvVars resolves ${VAR} and ${VAR:-default} references. A default
// applies when the variable is unset or empty. Values that themselves hold
// references are expanded until nothing changes.
//
// Examples:
//   - "${PIZZAGPT_SECRET}" → "Marinara"
//   - "${TIMEOUT:-30s}" → "30s" (if TIMEOUT is unset)
func expandEnvVars(s string) (string, error) {
	if err := checkReferences(s); err != nil {
		return "", err
	}

	resolve := func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			if val := os.Getenv(key[:i]); val != "" {
				return val
			}
			return key[i+2:]
		}
		return os.Getenv(key)
	}

	result := os.Expand(s, resolve)
	// bounded so a self-referencing variable cannot loop forever
	for i := 0; i < 10; i++ {
		next := os.Expand(result, resolve)
		if next == result {
			break
		}
		result = next
	}
	return result, nil
}

// checkReferences rejects "${" without a closing brace on the same line.
func checkReferences(s string) error {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '$' || s[i+1] != '{' {
			continue
		}
		end := strings.IndexAny(s[i:], "}\n")
		if end < 0 || s[i+end] != '}' {
			return fmt.Errorf("unterminated variable reference at offset %d", i)
		}
	}
	return nil
}

// Validate checks if the configuration is valid. Failures are
// validation-kind *errors.Error values.
func (c *Config) Validate() error {
	if err := validateStruct(c, "invalid configuration"); err != nil {
		return err
	}

	if _, clash := c.Request.Parameters[c.Request.PromptField]; clash {
		return errors.NewValidationError(
			fmt.Sprintf("request parameter %q collides with the prompt field", c.Request.PromptField),
			map[string]interface{}{"field": "request.parameters"},
		)
	}
	if c.CircuitBreaker.Enabled && c.CircuitBreaker.FailureThreshold == 0 {
		return errors.NewValidationError(
			"circuit breaker failure threshold must be positive when enabled",
			map[string]interface{}{"field": "circuit_breaker.failure_threshold"},
		)
	}
	return nil
}

// validateStruct runs the struct tags of v and converts the first failure
// into a validation error naming the field and the rule.
func validateStruct(v interface{}, message string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(
			fmt.Sprintf("%s: %s failed on the '%s' rule", message, fe.Namespace(), fe.Tag()),
			map[string]interface{}{
				"field": fe.Namespace(),
				"rule":  fe.Tag(),
			},
		)
	}
	return errors.NewValidationError(fmt.Sprintf("%s: %v", message, err), nil)
}

// ResolvedBaseURL returns BaseURL when set, otherwise the environment's URL.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return c.Environment.BaseURL()
}

// URL returns the full address of the configured endpoint.
func (c *Config) URL() string {
	return c.ResolvedBaseURL() + "/api/" + strings.TrimLeft(c.Endpoint, "/")
}

// ResolveCredentials builds Credentials from the configured tokens, falling
// back to the public defaults with the resolved base URL as origin.
func (c *Config) ResolveCredentials() (Credentials, error) {
	secret := c.Credentials.SecretKey
	if secret == "" {
		secret = DefaultSecretKey
	}
	origin := c.Credentials.Origin
	if origin == "" {
		origin = c.ResolvedBaseURL()
	}
	return NewCredentials(secret, origin)
}

// Clone returns a copy that shares no maps or slices with c.
func (c *Config) Clone() *Config {
	out := *c

	out.Headers = make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		out.Headers[k] = v
	}

	out.Request.AnswerFields = append([]string(nil), c.Request.AnswerFields...)

	out.Request.Parameters = make(map[string]interface{}, len(c.Request.Parameters))
	for k, v := range c.Request.Parameters {
		out.Request.Parameters[k] = v
	}

	return &out
}
