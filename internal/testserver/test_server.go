package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/pirarucu/internal/app"
	"github.com/rpggio/pirarucu/internal/config"
	"github.com/rpggio/pirarucu/internal/export"
	"github.com/rpggio/pirarucu/internal/mcp"
	"github.com/rpggio/pirarucu/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is the HTTP surface of the server over an in-memory store.
type TestServer struct {
	Server    *httptest.Server
	App       *app.App
	ExportDir string
}

// New starts a server with a memory backend. The refresher is not scheduled;
// call ts.App.Refresher.Refresh to populate the cached summary.
func New(t *testing.T) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Backend = "memory"
	cfg.Export.Dir = t.TempDir()

	a, err := app.Open(context.Background(), cfg, nil)
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:  mcp.Services{Counts: a.Counts},
		Export:    a.Export,
		ExportDir: cfg.Export.Dir,
		Now:       time.Now,
	})
	downloads := export.NewHandler(a.Repository, a.Refresher, a.Export, nil)
	server := httptest.NewServer(transport.NewRouter(mcpServer, downloads, nil))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{
		Server:    server,
		App:       a,
		ExportDir: cfg.Export.Dir,
	}
}
