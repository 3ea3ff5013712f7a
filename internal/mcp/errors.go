package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, count.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not open", RecoveryHint: "Call list_open_sessions or start_session", cause: err}
	case errors.Is(err, count.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Labels must be non-blank and counts non-negative", cause: err}
	case errors.Is(err, count.ErrMalformedPayload):
		return &APIError{Code: "MALFORMED_PAYLOAD", Message: err.Error(), RecoveryHint: "Send {\"sessions\": [...]} with an id and environment per session", cause: err}
	case errors.Is(err, count.ErrStorageRead):
		return &APIError{Code: "STORAGE_READ", Message: "stored sessions could not be read", cause: err}
	case errors.Is(err, report.ErrEmptyDataset):
		return &APIError{Code: "EMPTY_DATASET", Message: "no finalized sessions", RecoveryHint: "Finalize or import sessions first", cause: err}
	case errors.Is(err, errConfirmRequired):
		return &APIError{Code: "CONFIRMATION_REQUIRED", Message: "clear_sessions deletes all data", RecoveryHint: "Retry with confirm=true", cause: err}
	default:
		return nil
	}
}
