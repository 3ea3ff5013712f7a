package count

import "context"

// Store provides persistence for the session list.
type Store interface {
	LoadAll(ctx context.Context) ([]CountSession, error)
	AppendFinalized(ctx context.Context, sess CountSession) error
	ReplaceAll(ctx context.Context, sessions []CountSession) error
	ClearAll(ctx context.Context) error
}
