package count

// CountEvent is one timed sub-count recorded during a session.
type CountEvent struct {
	Number    int    `json:"number"`
	Minor     int    `json:"minor"`
	Major     int    `json:"major"`
	Timestamp string `json:"timestamp"`
}

// CountSession is one complete observation period.
type CountSession struct {
	ID          string       `json:"id"`
	Environment string       `json:"environment"`
	Sector      string       `json:"sector"`
	Counter     string       `json:"counter"`
	Date        string       `json:"date"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Events      []CountEvent `json:"events"`
	TotalMinor  int          `json:"total_minor"`
	TotalMajor  int          `json:"total_major"`
}

// Total returns TotalMinor + TotalMajor.
func (s *CountSession) Total() int {
	return s.TotalMinor + s.TotalMajor
}

// AddEvent appends the next numbered event and recomputes totals.
func (s *CountSession) AddEvent(minor, major int, timestamp string) CountEvent {
	event := CountEvent{
		Number:    len(s.Events) + 1,
		Minor:     minor,
		Major:     major,
		Timestamp: timestamp,
	}
	s.Events = append(s.Events, event)
	s.RecomputeTotals()
	return event
}

// RecomputeTotals sets the session totals from its events.
func (s *CountSession) RecomputeTotals() {
	minor, major := 0, 0
	for _, event := range s.Events {
		minor += event.Minor
		major += event.Major
	}
	s.TotalMinor = minor
	s.TotalMajor = major
}

// Clone returns a copy that shares no event storage with s.
func (s CountSession) Clone() CountSession {
	if s.Events != nil {
		s.Events = append([]CountEvent(nil), s.Events...)
	}
	return s
}

// StartRequest describes a new observation period.
type StartRequest struct {
	Environment string
	Sector      string
	Counter     string
}

// ImportResult reports what an import changed.
type ImportResult struct {
	Received int `json:"received"`
	Added    int `json:"added"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}
