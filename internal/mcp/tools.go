package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/rpggio/pirarucu/internal/export"
	"github.com/rpggio/pirarucu/internal/format"
)

type tools struct {
	counts    CountService
	opts      export.Options
	exportDir string
	logger    *slog.Logger
	now       func() time.Time
}

// Tool inputs.

type StartSessionInput struct {
	Environment string `json:"environment" jsonschema:"observation environment, for example a lake name"`
	Sector      string `json:"sector" jsonschema:"community or sector label"`
	Counter     string `json:"counter" jsonschema:"name of the person counting"`
}

type RecordEventInput struct {
	SessionID string `json:"session_id" jsonschema:"open session id"`
	Minor     int    `json:"minor" jsonschema:"juvenile (bodeco) sightings in this interval"`
	Major     int    `json:"major" jsonschema:"adult pirarucu sightings in this interval"`
}

type SessionIDInput struct {
	SessionID string `json:"session_id" jsonschema:"session id"`
}

type ListSessionsInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"only sessions with exactly this environment"`
}

type PreviewExportInput struct {
	Delimiter string `json:"delimiter,omitempty" jsonschema:"semicolon, tab or comma; defaults to the configured delimiter"`
}

type ExportSessionsInput struct {
	Format string `json:"format,omitempty" jsonschema:"xlsx, csv or tsv; defaults to xlsx"`
}

type ImportSessionsInput struct {
	Payload string `json:"payload,omitempty" jsonschema:"JSON text of the form {\"sessions\": [...]}"`
	Path    string `json:"path,omitempty" jsonschema:"file containing the JSON payload, used when payload is empty"`
}

type ClearSessionsInput struct {
	Confirm bool `json:"confirm" jsonschema:"must be true to delete every persisted session"`
}

// Tool outputs.

type SessionOutput struct {
	Session count.CountSession `json:"session"`
}

type EventOutput struct {
	SessionID string           `json:"session_id"`
	Event     count.CountEvent `json:"event"`
}

type FinalizeOutput struct {
	Session         count.CountSession `json:"session"`
	DurationMinutes int                `json:"duration_minutes"`
	DurationLabel   string             `json:"duration_label"`
}

type AckOutput struct {
	OK bool `json:"ok"`
}

type SessionsOutput struct {
	Sessions []count.CountSession `json:"sessions"`
	Count    int                  `json:"count"`
}

type EnvironmentInfo struct {
	Environment string   `json:"environment"`
	Sessions    int      `json:"sessions"`
	TotalMinor  int      `json:"total_minor"`
	TotalMajor  int      `json:"total_major"`
	Total       int      `json:"total"`
	Counters    []string `json:"counters"`
}

type EnvironmentsOutput struct {
	Environments []EnvironmentInfo `json:"environments"`
}

type PreviewOutput struct {
	Summary report.Summary `json:"summary"`
	Text    string         `json:"text"`
}

type ExportOutput struct {
	Path    string         `json:"path"`
	Format  string         `json:"format"`
	Summary report.Summary `json:"summary"`
}

type ImportOutput struct {
	Result count.ImportResult `json:"result"`
}

var errConfirmRequired = errors.New("confirm must be true")

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_session",
		Description: "Start a timed observation session for one counter in one environment",
	}, t.startSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_event",
		Description: "Record the minor and major counts seen in one interval of an open session",
	}, t.recordEvent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "finalize_session",
		Description: "Close an open session, set its end time and persist it",
	}, t.finalizeSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "discard_session",
		Description: "Drop an open session without persisting it",
	}, t.discardSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_open_sessions",
		Description: "List sessions that are started but not yet finalized",
	}, t.listOpenSessions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sessions",
		Description: "List persisted sessions, optionally for one environment",
	}, t.listSessions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_environments",
		Description: "List environments with their session count, totals and counters",
	}, t.listEnvironments)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "preview_export",
		Description: "Summarize persisted sessions and render them as delimited text",
	}, t.previewExport)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_sessions",
		Description: "Write the export file for all persisted sessions and return its path",
	}, t.exportSessions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_sessions",
		Description: "Merge sessions from a JSON payload; sessions with known ids are skipped",
	}, t.importSessions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_sessions",
		Description: "Delete every persisted session and the cached summary",
	}, t.clearSessions)
}

func (t *tools) startSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartSessionInput) (*sdkmcp.CallToolResult, SessionOutput, error) {
	sess, err := t.counts.Start(ctx, count.StartRequest{
		Environment: in.Environment,
		Sector:      in.Sector,
		Counter:     in.Counter,
	})
	if err != nil {
		return nil, SessionOutput{}, toolError(err)
	}
	return nil, SessionOutput{Session: *sess}, nil
}

func (t *tools) recordEvent(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecordEventInput) (*sdkmcp.CallToolResult, EventOutput, error) {
	event, err := t.counts.RecordEvent(ctx, in.SessionID, in.Minor, in.Major)
	if err != nil {
		return nil, EventOutput{}, toolError(err)
	}
	return nil, EventOutput{SessionID: in.SessionID, Event: *event}, nil
}

func (t *tools) finalizeSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDInput) (*sdkmcp.CallToolResult, FinalizeOutput, error) {
	sess, err := t.counts.Finalize(ctx, in.SessionID)
	if err != nil {
		return nil, FinalizeOutput{}, toolError(err)
	}
	minutes := format.DurationMinutes(sess.StartTime, sess.EndTime)
	return nil, FinalizeOutput{
		Session:         *sess,
		DurationMinutes: minutes,
		DurationLabel:   format.FormatDuration(minutes),
	}, nil
}

func (t *tools) discardSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDInput) (*sdkmcp.CallToolResult, AckOutput, error) {
	if err := t.counts.Discard(ctx, in.SessionID); err != nil {
		return nil, AckOutput{}, toolError(err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (t *tools) listOpenSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, SessionsOutput, error) {
	sessions := t.counts.Open(ctx)
	return nil, SessionsOutput{Sessions: sessions, Count: len(sessions)}, nil
}

func (t *tools) listSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListSessionsInput) (*sdkmcp.CallToolResult, SessionsOutput, error) {
	sessions, err := t.counts.List(ctx)
	if err != nil {
		return nil, SessionsOutput{}, toolError(err)
	}
	if in.Environment != "" {
		filtered := make([]count.CountSession, 0, len(sessions))
		for _, sess := range sessions {
			if sess.Environment == in.Environment {
				filtered = append(filtered, sess)
			}
		}
		sessions = filtered
	}
	if sessions == nil {
		sessions = []count.CountSession{}
	}
	return nil, SessionsOutput{Sessions: sessions, Count: len(sessions)}, nil
}

func (t *tools) listEnvironments(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, EnvironmentsOutput, error) {
	sessions, err := t.counts.List(ctx)
	if err != nil {
		return nil, EnvironmentsOutput{}, toolError(err)
	}
	groups := report.GroupByEnvironment(sessions)
	out := EnvironmentsOutput{Environments: make([]EnvironmentInfo, 0, len(groups))}
	for _, group := range groups {
		out.Environments = append(out.Environments, EnvironmentInfo{
			Environment: group.Environment,
			Sessions:    len(group.Sessions),
			TotalMinor:  group.TotalMinor,
			TotalMajor:  group.TotalMajor,
			Total:       group.TotalGeral,
			Counters:    group.Counters,
		})
	}
	return nil, out, nil
}

func (t *tools) previewExport(ctx context.Context, _ *sdkmcp.CallToolRequest, in PreviewExportInput) (*sdkmcp.CallToolResult, PreviewOutput, error) {
	opts := t.opts
	if in.Delimiter != "" {
		delimiter, err := export.ParseDelimiter(in.Delimiter)
		if err != nil {
			return nil, PreviewOutput{}, toolError(fmt.Errorf("%w: %w", count.ErrInvalidInput, err))
		}
		opts.Delimiter = delimiter
	}

	sessions, err := t.counts.List(ctx)
	if err != nil {
		return nil, PreviewOutput{}, toolError(err)
	}
	summary, err := report.Summarize(sessions, opts.Report)
	if err != nil {
		return nil, PreviewOutput{}, toolError(err)
	}
	text, err := export.DelimitedText(sessions, opts)
	if err != nil {
		return nil, PreviewOutput{}, toolError(err)
	}
	return nil, PreviewOutput{Summary: *summary, Text: text}, nil
}

func (t *tools) exportSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportSessionsInput) (*sdkmcp.CallToolResult, ExportOutput, error) {
	name := in.Format
	if name == "" {
		name = string(export.FormatXLSX)
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return nil, ExportOutput{}, toolError(fmt.Errorf("%w: %w", count.ErrInvalidInput, err))
	}

	sessions, err := t.counts.List(ctx)
	if err != nil {
		return nil, ExportOutput{}, toolError(err)
	}
	summary, err := report.Summarize(sessions, t.opts.Report)
	if err != nil {
		return nil, ExportOutput{}, toolError(err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, f, sessions, t.opts); err != nil {
		return nil, ExportOutput{}, toolError(err)
	}
	if err := os.MkdirAll(t.exportDir, 0o755); err != nil {
		return nil, ExportOutput{}, fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(t.exportDir, export.FileName(t.now(), f))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, ExportOutput{}, fmt.Errorf("writing export: %w", err)
	}

	t.logger.Info("export written", "path", path, "format", f, "rows", summary.RowCount)
	return nil, ExportOutput{Path: path, Format: string(f), Summary: *summary}, nil
}

func (t *tools) importSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ImportSessionsInput) (*sdkmcp.CallToolResult, ImportOutput, error) {
	payload := []byte(in.Payload)
	if strings.TrimSpace(in.Payload) == "" {
		if in.Path == "" {
			return nil, ImportOutput{}, toolError(fmt.Errorf("%w: payload or path is required", count.ErrInvalidInput))
		}
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, ImportOutput{}, fmt.Errorf("reading import file: %w", err)
		}
		payload = data
	}

	result, err := t.counts.Import(ctx, payload)
	if err != nil {
		return nil, ImportOutput{}, toolError(err)
	}
	return nil, ImportOutput{Result: *result}, nil
}

func (t *tools) clearSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClearSessionsInput) (*sdkmcp.CallToolResult, AckOutput, error) {
	if !in.Confirm {
		return nil, AckOutput{}, toolError(errConfirmRequired)
	}
	if err := t.counts.Clear(ctx); err != nil {
		return nil, AckOutput{}, toolError(err)
	}
	return nil, AckOutput{OK: true}, nil
}

// toolError prefers the coded APIError for known domain errors.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
