package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/export"
)

// CountService defines the session operations needed by MCP.
type CountService interface {
	Start(ctx context.Context, req count.StartRequest) (*count.CountSession, error)
	RecordEvent(ctx context.Context, sessionID string, minor, major int) (*count.CountEvent, error)
	Finalize(ctx context.Context, sessionID string) (*count.CountSession, error)
	Discard(ctx context.Context, sessionID string) error
	Open(ctx context.Context) []count.CountSession
	List(ctx context.Context) ([]count.CountSession, error)
	Import(ctx context.Context, payload []byte) (*count.ImportResult, error)
	Clear(ctx context.Context) error
}

// Services contains all domain services needed by MCP.
type Services struct {
	Counts CountService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Export holds the report and delimiter options shared by preview and export.
	Export export.Options
	// ExportDir receives files written by export_sessions.
	ExportDir string
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pirarucu",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{
		counts:    cfg.Services.Counts,
		opts:      cfg.Export,
		exportDir: cfg.ExportDir,
		logger:    cfg.Logger,
		now:       cfg.Now,
	})

	return server
}
