package report

import "github.com/rpggio/pirarucu/internal/domain/count"

// OrdinalOrder selects how session ordinal labels compare when sorting rows.
type OrdinalOrder string

const (
	// OrderLexical compares rendered labels as text, so "10º" sorts before "2º".
	OrderLexical OrdinalOrder = "lexical"
	// OrderNumeric compares the session positions behind the labels.
	OrderNumeric OrdinalOrder = "numeric"
)

// Options tunes report construction.
type Options struct {
	OrdinalOrder OrdinalOrder
}

// EnvironmentGroup is the read-only view of the sessions in one environment.
type EnvironmentGroup struct {
	Environment string               `json:"environment"`
	Sessions    []count.CountSession `json:"sessions"`
	TotalMinor  int                  `json:"total_minor"`
	TotalMajor  int                  `json:"total_major"`
	TotalGeral  int                  `json:"total_geral"`
	Counters    []string             `json:"counters"`
}

// ExportRow is one flattened output record, one per count event.
type ExportRow struct {
	Date            string `json:"date"`
	Counter         string `json:"counter"`
	Environment     string `json:"environment"`
	SessionOrdinal  string `json:"session_ordinal"`
	SessionPosition int    `json:"-"`
	EventNumber     int    `json:"event_number"`
	Minor           int    `json:"minor"`
	Major           int    `json:"major"`
	Total           int    `json:"total"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Duration        string `json:"duration"`
}

// Totals aggregates counts for one environment or for the whole dataset.
type Totals struct {
	Sessions   int `json:"sessions"`
	Counters   int `json:"counters"`
	Rows       int `json:"rows"`
	TotalMinor int `json:"total_minor"`
	TotalMajor int `json:"total_major"`
	TotalGeral int `json:"total_geral"`
}

// GroupReport pairs an environment group with its sorted export rows.
type GroupReport struct {
	Group  EnvironmentGroup `json:"group"`
	Rows   []ExportRow      `json:"rows"`
	Totals Totals           `json:"totals"`
}

// Report is the full aggregation of a session snapshot.
type Report struct {
	Groups     []GroupReport `json:"groups"`
	GrandTotal Totals        `json:"grand_total"`
	// DistinctCounters counts counter names across every environment.
	DistinctCounters int `json:"distinct_counters"`
}

// Rows returns every export row, environment by environment in discovery order.
func (r *Report) Rows() []ExportRow {
	rows := make([]ExportRow, 0, r.GrandTotal.Rows)
	for _, g := range r.Groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

// Summary is the lightweight export preview.
type Summary struct {
	RowCount         int `json:"row_count"`
	EnvironmentCount int `json:"environment_count"`
	CounterCount     int `json:"counter_count"`
	SessionCount     int `json:"session_count"`
	TotalMinor       int `json:"total_minor"`
	TotalMajor       int `json:"total_major"`
	TotalGeral       int `json:"total_geral"`
}
