package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = "memory"
	cfg.UploadDir = t.TempDir()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	logs := &bytes.Buffer{}
	app, err := NewApp(context.Background(), memoryConfig(t), logs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}

func TestNewApp_UnknownAssetDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.AssetDriver = "tape"

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "asset store init error")
}

func TestNewApp_UnknownDatabaseDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DatabaseDriver = "sqlite"

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "db init error")
}
