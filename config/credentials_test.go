package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/pizzagpt/errors"
)

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		origin  string
		wantErr bool
	}{
		{name: "complete", secret: "Marinara", origin: "https://www.pizzagpt.it"},
		{name: "missing secret", secret: "", origin: "https://www.pizzagpt.it", wantErr: true},
		{name: "missing origin", secret: "Marinara", origin: "", wantErr: true},
		{name: "missing both", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := NewCredentials(tt.secret, tt.origin)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
				assert.True(t, creds.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, creds.SecretKey())
			assert.Equal(t, tt.origin, creds.Origin())
		})
	}
}

func TestDefaultCredentials(t *testing.T) {
	creds, err := DefaultCredentials(Staging)
	require.NoError(t, err)
	assert.Equal(t, DefaultSecretKey, creds.SecretKey())
	assert.Equal(t, "https://staging.pizzagpt.it", creds.Origin())

	creds, err = DefaultCredentials(Environment("mars"))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.True(t, creds.IsZero())
}

func TestCredentialsStringRedactsSecret(t *testing.T) {
	creds, err := NewCredentials("top-secret", "https://example.com")
	require.NoError(t, err)
	assert.NotContains(t, creds.String(), "top-secret")
	assert.Contains(t, creds.String(), "https://example.com")
}

func TestResolveCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:9999"

	creds, err := cfg.ResolveCredentials()
	require.NoError(t, err)
	assert.Equal(t, DefaultSecretKey, creds.SecretKey())
	assert.Equal(t, "http://127.0.0.1:9999", creds.Origin())

	cfg.Credentials = CredentialsConfig{SecretKey: "Diavola", Origin: "https://pizza.example"}
	creds, err = cfg.ResolveCredentials()
	require.NoError(t, err)
	assert.Equal(t, "Diavola", creds.SecretKey())
	assert.Equal(t, "https://pizza.example", creds.Origin())
}

func TestEnvironment(t *testing.T) {
	assert.True(t, Production.Valid())
	assert.False(t, Environment("mars").Valid())
	assert.Equal(t, "", Environment("mars").BaseURL())
}
