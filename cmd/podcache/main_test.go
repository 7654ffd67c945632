package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: configPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ServerStartStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	content := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
database:
  dsn: "file:%s?mode=rwc&_txlock=immediate"
  max_open_conns: 1
download:
  data_dir: %s
`, port, filepath.Join(dir, "podcache.db"), filepath.Join(dir, "data"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: configPath}) }()

	statusURL := fmt.Sprintf("http://127.0.0.1:%d/api/v1/status", port)
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(statusURL) //nolint:gosec // test url
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", status["status"])
	assert.InDelta(t, 0, status["feeds"], 0)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown timeout")
	}
	_, err = os.Stat(filepath.Join(dir, "podcache.db"))
	assert.NoError(t, err, "database created")
}

func TestRun_ListenOverride(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("database:\n  dsn: \":memory:\"\n  max_open_conns: 1\n"), 0o600))

	err := run(ctx, Opts{Config: configPath, Listen: "bad-address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad-address")
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode", func(t *testing.T) {
		assert.NotPanics(t, func() { setupLog(true) })
	})
	t.Run("normal mode", func(t *testing.T) {
		assert.NotPanics(t, func() { setupLog(false) })
	})
	t.Run("with secrets", func(t *testing.T) {
		assert.NotPanics(t, func() { setupLog(true, "secret1", "secret2") })
	})
}
