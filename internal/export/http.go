package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/rpggio/pirarucu/internal/repository"
)

// SessionLoader provides the snapshot an export is built from.
type SessionLoader interface {
	LoadAll(ctx context.Context) ([]count.CountSession, error)
}

// SummaryCache provides the most recently refreshed summary.
type SummaryCache interface {
	Cached(ctx context.Context) (*report.Summary, error)
}

// Handler serves export downloads over HTTP.
type Handler struct {
	sessions  SessionLoader
	summaries SummaryCache
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a download handler.
func NewHandler(sessions SessionLoader, summaries SummaryCache, opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		sessions:  sessions,
		summaries: summaries,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Register mounts the download routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/export", h.ServeExport)
	r.Get("/summary", h.ServeSummary)
}

// ServeExport streams the export artifact selected by the format query parameter.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(FormatXLSX)
	}
	f, err := ParseFormat(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessions, err := h.sessions.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("export load failed", "error", err)
		http.Error(w, "stored sessions unreadable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, f, sessions, h.opts); err != nil {
		if errors.Is(err, report.ErrEmptyDataset) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logger.Error("export failed", "format", f, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, FileName(h.now(), f)))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("export write interrupted", "error", err)
	}
}

// ServeSummary writes the cached summary as JSON.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaries.Cached(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "no summary yet", http.StatusNotFound)
			return
		}
		h.logger.Error("summary load failed", "error", err)
		http.Error(w, "summary unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

// FileName returns the artifact name for an export taken at t.
func FileName(t time.Time, f Format) string {
	return fmt.Sprintf("pirarucu-counts-%s.%s", t.Format("2006-01-02-150405"), f.Extension())
}
