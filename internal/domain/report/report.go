package report

import (
	"sort"
	"strings"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/format"
)

// GroupByEnvironment partitions sessions by exact environment name, keeping
// first-seen order of environments and source order of sessions.
func GroupByEnvironment(sessions []count.CountSession) []EnvironmentGroup {
	index := make(map[string]int)
	var groups []EnvironmentGroup

	for _, sess := range sessions {
		i, ok := index[sess.Environment]
		if !ok {
			i = len(groups)
			index[sess.Environment] = i
			groups = append(groups, EnvironmentGroup{Environment: sess.Environment})
		}
		g := &groups[i]
		g.Sessions = append(g.Sessions, sess)
		g.TotalMinor += sess.TotalMinor
		g.TotalMajor += sess.TotalMajor
	}

	for i := range groups {
		g := &groups[i]
		g.TotalGeral = g.TotalMinor + g.TotalMajor
		g.Counters = distinctCounters(g.Sessions)
	}
	return groups
}

func distinctCounters(sessions []count.CountSession) []string {
	seen := make(map[string]struct{}, len(sessions))
	counters := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		if _, ok := seen[sess.Counter]; ok {
			continue
		}
		seen[sess.Counter] = struct{}{}
		counters = append(counters, sess.Counter)
	}
	return counters
}

// BuildExportRows flattens a group into one row per event. Sessions are
// labelled by their 1-based position inside the group; rows are then sorted by
// counter, ordinal and event number.
func BuildExportRows(group EnvironmentGroup, order OrdinalOrder) []ExportRow {
	var rows []ExportRow
	environment := strings.ToUpper(group.Environment)

	for i, sess := range group.Sessions {
		position := i + 1
		label := format.OrdinalLabel(position)
		duration := format.FormatDuration(format.DurationMinutes(sess.StartTime, sess.EndTime))
		counter := strings.ToUpper(sess.Counter)

		for _, event := range sess.Events {
			rows = append(rows, ExportRow{
				Date:            sess.Date,
				Counter:         counter,
				Environment:     environment,
				SessionOrdinal:  label,
				SessionPosition: position,
				EventNumber:     event.Number,
				Minor:           event.Minor,
				Major:           event.Major,
				Total:           event.Minor + event.Major,
				StartTime:       sess.StartTime,
				EndTime:         sess.EndTime,
				Duration:        duration,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Counter != b.Counter {
			return a.Counter < b.Counter
		}
		if order == OrderNumeric {
			if a.SessionPosition != b.SessionPosition {
				return a.SessionPosition < b.SessionPosition
			}
		} else if a.SessionOrdinal != b.SessionOrdinal {
			return a.SessionOrdinal < b.SessionOrdinal
		}
		return a.EventNumber < b.EventNumber
	})
	return rows
}

// Build aggregates sessions into per-environment groups with rows and totals.
func Build(sessions []count.CountSession, opts Options) (*Report, error) {
	if len(sessions) == 0 {
		return nil, ErrEmptyDataset
	}

	groups := GroupByEnvironment(sessions)
	rep := &Report{Groups: make([]GroupReport, 0, len(groups))}
	for _, g := range groups {
		rows := BuildExportRows(g, opts.OrdinalOrder)
		totals := Totals{
			Sessions:   len(g.Sessions),
			Counters:   len(g.Counters),
			Rows:       len(rows),
			TotalMinor: g.TotalMinor,
			TotalMajor: g.TotalMajor,
			TotalGeral: g.TotalGeral,
		}
		rep.Groups = append(rep.Groups, GroupReport{Group: g, Rows: rows, Totals: totals})

		rep.GrandTotal.Sessions += totals.Sessions
		rep.GrandTotal.Counters += totals.Counters
		rep.GrandTotal.Rows += totals.Rows
		rep.GrandTotal.TotalMinor += totals.TotalMinor
		rep.GrandTotal.TotalMajor += totals.TotalMajor
		rep.GrandTotal.TotalGeral += totals.TotalGeral
	}
	rep.DistinctCounters = len(distinctCounters(sessions))
	return rep, nil
}

// Summarize previews an export using the same Build as the serializers.
func Summarize(sessions []count.CountSession, opts Options) (*Summary, error) {
	rep, err := Build(sessions, opts)
	if err != nil {
		return nil, err
	}
	return rep.Summary(), nil
}

// Summary condenses the report into its preview counts.
func (r *Report) Summary() *Summary {
	return &Summary{
		RowCount:         r.GrandTotal.Rows,
		EnvironmentCount: len(r.Groups),
		CounterCount:     r.DistinctCounters,
		SessionCount:     r.GrandTotal.Sessions,
		TotalMinor:       r.GrandTotal.TotalMinor,
		TotalMajor:       r.GrandTotal.TotalMajor,
		TotalGeral:       r.GrandTotal.TotalGeral,
	}
}
