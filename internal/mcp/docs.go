package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pirarucu/internal/export"
)

const serverInstructions = `pirarucu records timed pirarucu population counts and exports them as spreadsheets.

Core concepts:
- Session: one counter observing one environment for a period. It holds numbered events.
- Event: the minor (bodeco) and major (pirarucu) sightings of one interval.
- Environment: free-text grouping key, compared exactly (case and spacing matter).

Workflow:
1) start_session(environment, sector, counter) returns the session id.
2) record_event(session_id, minor, major) once per interval.
3) finalize_session(session_id) closes and persists it; discard_session drops it.
4) list_sessions / list_environments / preview_export to review.
5) export_sessions(format) writes xlsx, csv or tsv and returns the file path.
6) import_sessions(payload) merges sessions from another device; known ids are skipped.

Docs:
- pirarucu://docs/export-layout
- pirarucu://docs/import-format
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pirarucu://docs/export-layout",
		Name:        "docs_export_layout",
		Title:       "Export layout",
		Description: "Sheets, columns and ordering of the export workbook and delimited text.",
		Content: `# Export layout

## Sheet ` + export.CountsSheet + `

Columns: ` + strings.Join(export.CountHeaders, ", ") + `

One row per event. Counter and environment are uppercased. Rows are grouped by
environment in first-appearance order, then sorted by counter, session ordinal
label and event number. The session ordinal ("1º", "2º", ...) is the session's
position within its environment. Duration is the minutes between start and end
time, rolling over midnight.

## Sheet ` + export.SummarySheet + `

Columns: ` + strings.Join(export.SummaryHeaders, ", ") + `

One row per environment, then a final ` + export.GrandTotalLabel + ` row summing every
numeric column.

## Delimited text

UTF-8 with a byte order mark, a header line and the ` + export.CountsSheet + ` rows.
Counter and environment have punctuation removed. The delimiter is semicolon
unless configured otherwise; tsv always uses tab.
`,
	},
	{
		URI:         "pirarucu://docs/import-format",
		Name:        "docs_import_format",
		Title:       "Import payload format",
		Description: "JSON shape accepted by import_sessions and how merging works.",
		Content: `# Import payload format

` + "```json" + `
{"sessions": [
  {"id": "…", "environment": "Lago Preto", "sector": "…", "counter": "…",
   "date": "02/01/2006", "start_time": "08:00:00", "end_time": "08:20:00",
   "events": [{"number": 1, "minor": 2, "major": 1, "timestamp": "08:05:00"}],
   "total_minor": 2, "total_major": 1}
]}
` + "```" + `

- Every session needs a non-empty string id and a string environment.
- events may be omitted or null; when present they are numbered 1, 2, 3... in order.
- total_minor and total_major are given together or not at all. Totals are
  recomputed from events when both are omitted.
- Local sessions win: an incoming id that already exists is skipped.
- Duplicate ids inside one payload keep the first occurrence.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
