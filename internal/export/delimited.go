package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/format"
)

// BOM prefixes delimited output so spreadsheet importers detect UTF-8.
const BOM = "\uFEFF"

// DelimitedText renders the counts rows as BOM-prefixed delimited text.
func DelimitedText(sessions []count.CountSession, opts Options) (string, error) {
	var b strings.Builder
	if err := WriteDelimited(&b, sessions, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteDelimited writes the delimited rendering of sessions to w.
func WriteDelimited(w io.Writer, sessions []count.CountSession, opts Options) error {
	rep, err := build(sessions, opts)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Delimiter
	if cw.Comma == 0 {
		cw.Comma = ';'
	}
	if err := cw.Write(CountHeaders); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rep.Rows() {
		record := []string{
			row.Date,
			format.SanitizeText(row.Counter),
			format.SanitizeText(row.Environment),
			row.SessionOrdinal,
			strconv.Itoa(row.EventNumber),
			strconv.Itoa(row.Minor),
			strconv.Itoa(row.Major),
			strconv.Itoa(row.Total),
			row.StartTime,
			row.EndTime,
			row.Duration,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing rows: %w", err)
	}
	return nil
}

// Write renders sessions in the given format to w.
func Write(w io.Writer, f Format, sessions []count.CountSession, opts Options) error {
	switch f {
	case FormatXLSX:
		return WriteWorkbook(w, sessions, opts)
	case FormatTSV:
		opts.Delimiter = '\t'
	}
	return WriteDelimited(w, sessions, opts)
}
