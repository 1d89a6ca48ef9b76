package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/teilomillet/pizzagpt/config"
)

// newTransport builds the pooled transport shared by every call. onDial
// runs once per TCP connection the pool opens.
func newTransport(cfg config.TransportConfig, onDial func()) (*http.Transport, error) {
	cfg = cfg.WithDefaults()

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err == nil && onDial != nil {
				onDial()
			}
			return conn, err
		},
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		t.Proxy = http.ProxyURL(proxyURL)
	}

	return t, nil
}
