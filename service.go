package pizzagpt

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/teilomillet/pizzagpt/client"
	"github.com/teilomillet/pizzagpt/config"
	"github.com/teilomillet/pizzagpt/errors"
)

// Service is the high-level entry point: one prompt in, one answer out.
// It is safe for concurrent use when its client is.
type Service struct {
	client client.Client
	closer io.Closer
	logger *zap.Logger
}

// New builds a Service. Without WithClient it creates a client.HTTPClient
// from the resulting configuration, which the Service then owns.
func New(opts ...Option) (*Service, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = errors.DefaultLogger
	}

	s := &Service{
		client: o.client,
		logger: o.logger.With(zap.String("component", "pizzagpt_service")),
	}
	if s.client != nil {
		return s, nil
	}

	cfg := config.DefaultConfig()
	if o.config != nil {
		cfg = o.config.Clone()
	}
	for _, fn := range o.overrides {
		fn(cfg)
	}

	clientOpts := []client.Option{
		client.WithLogger(o.logger),
		client.WithMetrics(o.metrics),
		client.WithCredentials(o.credentials),
	}
	if o.transport != nil {
		clientOpts = append(clientOpts, client.WithRoundTripper(o.transport))
	}

	c, err := client.New(cfg, clientOpts...)
	if err != nil {
		return nil, err
	}
	s.client = c
	s.closer = c
	return s, nil
}

// GetResponse sends prompt and returns the answer text. An empty prompt
// fails without reaching the client. Errors are returned as the client
// produced them.
func (s *Service) GetResponse(ctx context.Context, prompt string) (string, error) {
	resp, err := s.Query(ctx, prompt)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Query is GetResponse returning the whole response, raw body included.
func (s *Service) Query(ctx context.Context, prompt string) (client.Response, error) {
	if err := client.ValidatePrompt(prompt); err != nil {
		errors.LogError(s.logger, err)
		return client.Response{}, err
	}

	resp, err := s.client.Send(ctx, prompt)
	if err != nil {
		errors.LogError(s.logger, err)
		return client.Response{}, err
	}
	return resp, nil
}

// Close releases the client when the Service created it.
func (s *Service) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
