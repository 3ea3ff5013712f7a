// Package export serializes count sessions into spreadsheet and delimited
// text artifacts.
package export

import (
	"fmt"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
)

// Format names an export artifact type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatXLSX, FormatCSV, FormatTSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", name)
	}
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ParseDelimiter maps a configured delimiter name to its rune.
func ParseDelimiter(name string) (rune, error) {
	switch name {
	case "", "semicolon", ";":
		return ';', nil
	case "tab", "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	default:
		return 0, fmt.Errorf("unknown delimiter %q", name)
	}
}

// Options tunes an export.
type Options struct {
	Report report.Options
	// Delimiter separates fields in csv output. Zero means ';'. TSV always uses tab.
	Delimiter rune
}

const (
	CountsSheet  = "COUNTS"
	SummarySheet = "SUMMARY"
	// GrandTotalLabel marks the last summary row.
	GrandTotalLabel = "GRAND TOTAL"
)

// CountHeaders is the column order of the counts sheet and delimited text.
var CountHeaders = []string{
	"Date", "Counter", "Environment", "Session-Ordinal", "Event-Number",
	"Minor-Count", "Major-Count", "Total", "Start-Time", "End-Time", "Duration-Label",
}

// SummaryHeaders is the column order of the summary sheet.
var SummaryHeaders = []string{
	"Environment", "Minor-Count", "Major-Count", "Total", "Counters", "Rows",
}

var (
	countWidths   = []float64{12, 22, 22, 16, 14, 13, 13, 9, 12, 12, 26}
	summaryWidths = []float64{26, 13, 13, 10, 10, 8}
)

func build(sessions []count.CountSession, opts Options) (*report.Report, error) {
	if len(sessions) == 0 {
		return nil, report.ErrEmptyDataset
	}
	return report.Build(sessions, opts.Report)
}
