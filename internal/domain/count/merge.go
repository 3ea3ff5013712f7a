package count

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Merge appends the incoming sessions whose ids are not present locally.
// Local order is kept and local data wins on id collisions. Repeated ids
// within incoming collapse to their first occurrence.
func Merge(local, incoming []CountSession) []CountSession {
	seen := make(map[string]struct{}, len(local)+len(incoming))
	merged := make([]CountSession, 0, len(local)+len(incoming))
	for _, sess := range local {
		seen[sess.ID] = struct{}{}
		merged = append(merged, sess)
	}
	for _, sess := range incoming {
		if _, ok := seen[sess.ID]; ok {
			continue
		}
		seen[sess.ID] = struct{}{}
		merged = append(merged, sess)
	}
	return merged
}

// ParsePayload validates an import payload of the form
// {"sessions": [{"id": "...", "environment": "...", ...}]} and decodes it.
// Nothing is returned unless every record passes.
func ParsePayload(data []byte) ([]CountSession, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedPayload)
	}
	raw, ok := top["sessions"]
	if !ok || !isArray(raw) {
		return nil, fmt.Errorf("%w: missing sessions array", ErrMalformedPayload)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	sessions := make([]CountSession, 0, len(records))
	for i, rec := range records {
		sess, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: sessions[%d]: %v", ErrMalformedPayload, i, err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func parseRecord(rec json.RawMessage) (CountSession, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil || fields == nil {
		return CountSession{}, fmt.Errorf("expected an object")
	}

	var id string
	if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
		return CountSession{}, fmt.Errorf("id must be a non-empty string")
	}
	var environment string
	if err := json.Unmarshal(fields["environment"], &environment); err != nil || isNull(fields["environment"]) {
		return CountSession{}, fmt.Errorf("environment must be a string")
	}
	if events, ok := fields["events"]; ok && !isArray(events) && !isNull(events) {
		return CountSession{}, fmt.Errorf("events must be an array")
	}
	minorTotal, hasMinor := fields["total_minor"]
	majorTotal, hasMajor := fields["total_major"]
	if hasMinor != hasMajor {
		return CountSession{}, fmt.Errorf("total_minor and total_major must be declared together")
	}
	if hasMinor && (isNull(minorTotal) || isNull(majorTotal)) {
		return CountSession{}, fmt.Errorf("totals must be numbers")
	}

	var sess CountSession
	if err := json.Unmarshal(rec, &sess); err != nil {
		return CountSession{}, err
	}
	if sess.Events == nil {
		sess.Events = []CountEvent{}
	}
	for i, event := range sess.Events {
		if event.Number != i+1 {
			return CountSession{}, fmt.Errorf("event %d is numbered %d", i+1, event.Number)
		}
		if event.Minor < 0 || event.Major < 0 {
			return CountSession{}, fmt.Errorf("event %d has a negative count", event.Number)
		}
	}
	if sess.TotalMinor < 0 || sess.TotalMajor < 0 {
		return CountSession{}, fmt.Errorf("totals must not be negative")
	}

	// Sessions without declared totals take them from their events.
	if !hasMinor {
		sess.RecomputeTotals()
	}
	return sess, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
