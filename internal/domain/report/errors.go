package report

import "errors"

// ErrEmptyDataset indicates a report or export was requested with no sessions.
var ErrEmptyDataset = errors.New("no sessions to report")
