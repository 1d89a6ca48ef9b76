package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// writeConfig replaces path in one step so the watcher never reads a half-written file.
func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestConfigWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pizzagpt.yaml")
	writeConfig(t, path, "timeout: 10s\n")

	cw, err := NewConfigWatcher(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cw.Close()

	assert.Equal(t, 10*time.Second, cw.GetCurrentConfig().Timeout)

	updates := cw.Subscribe()
	writeConfig(t, path, "timeout: 20s\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-updates:
			if cfg.Timeout == 20*time.Second {
				assert.Equal(t, 20*time.Second, cw.GetCurrentConfig().Timeout)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}

func TestConfigWatcherKeepsConfigOnInvalidUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pizzagpt.yaml")
	writeConfig(t, path, "timeout: 10s\n")

	cw, err := NewConfigWatcher(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cw.Close()

	writeConfig(t, path, "timeout: 0s\n")
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, 10*time.Second, cw.GetCurrentConfig().Timeout)
}

func TestConfigWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pizzagpt.yaml")
	writeConfig(t, path, "timeout: 10s\n")

	cw, err := NewConfigWatcher(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("timeout: 1s\n"), 0o600))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, 10*time.Second, cw.GetCurrentConfig().Timeout)
}

func TestConfigWatcherMissingFile(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestConfigWatcherCloseClosesSubscribers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pizzagpt.yaml")
	writeConfig(t, path, "")

	cw, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	updates := cw.Subscribe()
	require.NoError(t, cw.Close())

	_, open := <-updates
	assert.False(t, open)
}
