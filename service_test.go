package pizzagpt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teilomillet/pizzagpt/client"
	"github.com/teilomillet/pizzagpt/config"
	"github.com/teilomillet/pizzagpt/errors"
	"github.com/teilomillet/pizzagpt/mocks"
)

func TestGetResponseReturnsAnswer(t *testing.T) {
	mock := mocks.NewMockClientWithAnswer("Hi there!")
	svc, err := New(WithClient(mock), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	answer, err := svc.GetResponse(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "Hi there!", answer)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, []string{"hello"}, mock.Prompts())
}

func TestGetResponseEmptyPromptSkipsClient(t *testing.T) {
	mock := mocks.NewMockClientWithAnswer("unused")
	svc, err := New(WithClient(mock), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	_, err = svc.GetResponse(context.Background(), "")
	require.Error(t, err)

	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 0, mock.Calls())
}

func TestGetResponsePropagatesErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{
			name:  "connection",
			err:   errors.NewConnectionError("req", "failed to connect", nil),
			check: errors.IsConnection,
		},
		{
			name:  "response",
			err:   errors.NewResponseError("req", http.StatusInternalServerError, "boom", `{"message":"boom"}`),
			check: errors.IsResponse,
		},
		{
			name:  "malformed",
			err:   errors.NewMalformedResponseError("req", http.StatusOK, "<html>", nil),
			check: errors.IsMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			mock := mocks.NewMockClientWithError(tt.err)
			svc, err := New(WithClient(mock), WithLogger(zap.New(core)))
			require.NoError(t, err)

			answer, err := svc.GetResponse(context.Background(), "hello")
			require.Error(t, err)

			assert.Empty(t, answer)
			assert.Same(t, tt.err, err, "errors must not be translated")
			assert.True(t, tt.check(err))
			assert.Equal(t, 1, mock.Calls(), "no retries")
			assert.Equal(t, 1, logs.Len(), "failure logged once")
		})
	}
}

func TestServiceEndToEnd(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "pizzagpt-test", r.Header.Get("X-Client"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":"Margherita"}`))
	}))
	defer srv.Close()

	svc, err := New(
		WithBaseURL(srv.URL),
		WithTimeout(5*time.Second),
		WithHeader("X-Client", "pizzagpt-test"),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	defer svc.Close()

	answer, err := svc.GetResponse(context.Background(), "best pizza?")
	require.NoError(t, err)
	assert.Equal(t, "Margherita", answer)

	resp, err := svc.Query(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"content":"Margherita"}`, resp.Body)
	assert.Equal(t, int32(2), hits.Load())
}

func TestServiceHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"statusCode":500,"message":"Internal Server Error"}`))
	}))
	defer srv.Close()

	svc, err := New(WithBaseURL(srv.URL), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.GetResponse(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.IsResponse(err))
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))
}

func TestNewOptions(t *testing.T) {
	t.Run("config options override the base config", func(t *testing.T) {
		base := config.DefaultConfig()
		base.Timeout = time.Minute

		var seen *http.Request
		rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = r
			return jsonResponse(`{"content":"ok"}`), nil
		})

		svc, err := New(
			WithEnvironment(config.Staging),
			WithConfig(base),
			WithHTTPTransport(rt),
			WithLogger(zaptest.NewLogger(t)),
		)
		require.NoError(t, err)
		defer svc.Close()

		_, err = svc.GetResponse(context.Background(), "hello")
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, "https://staging.pizzagpt.it/api/chatx-completion", seen.URL.String())
		assert.Equal(t, "https://staging.pizzagpt.it", seen.Header.Get("Origin"))
		assert.Equal(t, config.Production, base.Environment, "base config must not be modified")
	})

	t.Run("credentials", func(t *testing.T) {
		creds, err := config.NewCredentials("secret", "https://origin.test")
		require.NoError(t, err)

		var seen *http.Request
		rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = r
			return jsonResponse(`{"content":"ok"}`), nil
		})

		svc, err := New(WithCredentials(creds), WithHTTPTransport(rt), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		defer svc.Close()

		_, err = svc.GetResponse(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "secret", seen.Header.Get("X-Secret"))
		assert.Equal(t, "https://origin.test", seen.Header.Get("Origin"))
	})

	t.Run("invalid timeout", func(t *testing.T) {
		_, err := New(WithTimeout(0))
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("injected client is not closed", func(t *testing.T) {
		svc, err := New(WithClient(mocks.NewMockClientWithAnswer("x")))
		require.NoError(t, err)
		assert.NoError(t, svc.Close())
	})

	t.Run("metrics", func(t *testing.T) {
		metrics := client.NewMetrics(nil)
		rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(`{"content":"ok"}`), nil
		})
		svc, err := New(WithMetrics(metrics), WithHTTPTransport(rt), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		defer svc.Close()

		_, err = svc.GetResponse(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(client.OutcomeSuccess)))
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
