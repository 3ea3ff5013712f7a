package report_test

import (
	"testing"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/stretchr/testify/require"
)

func session(id, env, counter string, minor, major int) count.CountSession {
	s := count.CountSession{
		ID:          id,
		Environment: env,
		Counter:     counter,
		Date:        "19/10/2026",
		StartTime:   "14:00:00",
		EndTime:     "14:20:00",
	}
	s.AddEvent(minor, major, "14:10:00")
	return s
}

func scenario() []count.CountSession {
	return []count.CountSession{
		session("1", "Lake A", "Ana", 3, 2),
		session("2", "Lake A", "Bruno", 1, 4),
		session("3", "Lake B", "Ana", 5, 0),
	}
}

func TestGroupByEnvironment_Scenario(t *testing.T) {
	groups := report.GroupByEnvironment(scenario())
	require.Len(t, groups, 2)

	require.Equal(t, "Lake A", groups[0].Environment)
	require.Equal(t, 4, groups[0].TotalMinor)
	require.Equal(t, 6, groups[0].TotalMajor)
	require.Equal(t, 10, groups[0].TotalGeral)
	require.Equal(t, []string{"Ana", "Bruno"}, groups[0].Counters)

	require.Equal(t, "Lake B", groups[1].Environment)
	require.Equal(t, 5, groups[1].TotalMinor)
	require.Equal(t, 0, groups[1].TotalMajor)
	require.Equal(t, 5, groups[1].TotalGeral)

	rep, err := report.Build(scenario(), report.Options{})
	require.NoError(t, err)
	require.Equal(t, 15, rep.GrandTotal.TotalGeral)
	require.Equal(t, rep.GrandTotal.TotalMinor+rep.GrandTotal.TotalMajor, rep.GrandTotal.TotalGeral)
	for _, g := range rep.Groups {
		require.Equal(t, g.Totals.TotalMinor+g.Totals.TotalMajor, g.Totals.TotalGeral)
	}
}

func TestGroupByEnvironment_ExactMatch(t *testing.T) {
	groups := report.GroupByEnvironment([]count.CountSession{
		session("1", "Lake A", "Ana", 1, 1),
		session("2", "lake a", "Ana", 1, 1),
		session("3", "Lake A ", "Ana", 1, 1),
	})
	require.Len(t, groups, 3)
}

func TestGroupByEnvironment_UsesSessionTotals(t *testing.T) {
	declared := count.CountSession{ID: "x", Environment: "E", TotalMinor: 9, TotalMajor: 1}
	groups := report.GroupByEnvironment([]count.CountSession{declared})
	require.Equal(t, 10, groups[0].TotalGeral)

	rep, err := report.Build([]count.CountSession{declared}, report.Options{})
	require.NoError(t, err)
	require.Equal(t, 0, rep.GrandTotal.Rows, "a session without events produces no rows")
	require.Equal(t, 10, rep.GrandTotal.TotalGeral)
}

func TestBuildExportRows(t *testing.T) {
	s := count.CountSession{
		ID: "1", Environment: "Lake A", Counter: "ana", Date: "19/10/2026",
		StartTime: "23:50:00", EndTime: "01:20:00",
	}
	s.AddEvent(2, 3, "23:55:00")
	s.AddEvent(0, 1, "00:30:00")

	rows := report.BuildExportRows(report.GroupByEnvironment([]count.CountSession{s})[0], report.OrderLexical)
	require.Len(t, rows, 2)
	require.Equal(t, report.ExportRow{
		Date:            "19/10/2026",
		Counter:         "ANA",
		Environment:     "LAKE A",
		SessionOrdinal:  "1º",
		SessionPosition: 1,
		EventNumber:     1,
		Minor:           2,
		Major:           3,
		Total:           5,
		StartTime:       "23:50:00",
		EndTime:         "01:20:00",
		Duration:        "1 HOUR AND 30 MINUTES",
	}, rows[0])
	require.Equal(t, 2, rows[1].EventNumber)
	require.Equal(t, "1 HOUR AND 30 MINUTES", rows[1].Duration)
}

func TestBuildExportRows_MalformedTimesDegrade(t *testing.T) {
	s := count.CountSession{ID: "1", Environment: "E", Counter: "c", StartTime: "??", EndTime: "10:00:00"}
	s.AddEvent(1, 1, "")
	rows := report.BuildExportRows(report.GroupByEnvironment([]count.CountSession{s})[0], report.OrderLexical)
	require.Equal(t, "0 MINUTES", rows[0].Duration)
}

func TestBuildExportRows_SortOrder(t *testing.T) {
	var sessions []count.CountSession
	for i := 1; i <= 10; i++ {
		counter := "Ana"
		if i == 1 {
			counter = "Zeca"
		}
		sessions = append(sessions, session(string(rune('a'+i)), "Lake", counter, i, 0))
	}
	group := report.GroupByEnvironment(sessions)[0]

	rows := report.BuildExportRows(group, report.OrderLexical)
	require.Len(t, rows, 10)
	require.Equal(t, "ANA", rows[0].Counter)
	require.Equal(t, "10º", rows[0].SessionOrdinal, "lexical order puts 10º before 2º")
	require.Equal(t, "2º", rows[1].SessionOrdinal)
	require.Equal(t, "ZECA", rows[9].Counter)
	require.Equal(t, "1º", rows[9].SessionOrdinal)

	rows = report.BuildExportRows(group, report.OrderNumeric)
	require.Equal(t, "2º", rows[0].SessionOrdinal)
	require.Equal(t, "10º", rows[8].SessionOrdinal)
}

func TestBuildExportRows_EventOrderWithinSession(t *testing.T) {
	s := count.CountSession{ID: "1", Environment: "E", Counter: "c"}
	for i := 0; i < 3; i++ {
		s.AddEvent(i, i, "")
	}
	rows := report.BuildExportRows(report.GroupByEnvironment([]count.CountSession{s})[0], report.OrderLexical)
	require.Equal(t, []int{1, 2, 3}, []int{rows[0].EventNumber, rows[1].EventNumber, rows[2].EventNumber})
}

func TestBuild_Empty(t *testing.T) {
	_, err := report.Build(nil, report.Options{})
	require.ErrorIs(t, err, report.ErrEmptyDataset)
	_, err = report.Summarize([]count.CountSession{}, report.Options{})
	require.ErrorIs(t, err, report.ErrEmptyDataset)
}

func TestSummarize(t *testing.T) {
	summary, err := report.Summarize(scenario(), report.Options{})
	require.NoError(t, err)
	require.Equal(t, &report.Summary{
		RowCount:         3,
		EnvironmentCount: 2,
		CounterCount:     2,
		SessionCount:     3,
		TotalMinor:       9,
		TotalMajor:       6,
		TotalGeral:       15,
	}, summary)

	rep, err := report.Build(scenario(), report.Options{})
	require.NoError(t, err)
	require.Len(t, rep.Rows(), summary.RowCount)
	require.Equal(t, 3, rep.GrandTotal.Counters, "grand total sums per-environment counters")
}
