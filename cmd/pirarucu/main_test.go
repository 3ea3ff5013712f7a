package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/pirarucu/internal/export"
	"github.com/stretchr/testify/require"
)

const payload = `{"sessions":[
 {"id":"a","environment":"Lago Preto","sector":"Norte","counter":"Ana","date":"01/03/2024","start_time":"08:00:00","end_time":"09:30:00",
  "events":[{"number":1,"minor":2,"major":1,"timestamp":"08:05:00"},{"number":2,"minor":1,"major":0,"timestamp":"08:25:00"}]},
 {"id":"b","environment":"Rio","sector":"Norte","counter":"Bia","date":"01/03/2024","start_time":"10:00:00","end_time":"10:20:00",
  "events":[{"number":1,"minor":0,"major":5,"timestamp":"10:10:00"}]}
]}`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PIRARUCU_STORAGE", "sqlite")
	t.Setenv("PIRARUCU_DB_PATH", filepath.Join(dir, "pirarucu.db"))
	t.Setenv("PIRARUCU_EXPORT_DIR", filepath.Join(dir, "exports"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func importFixture(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	out, err := run(t, "import", path)
	require.NoError(t, err)
	require.Contains(t, out, "received 2, added 2, skipped 0, total 2")
}

func TestImportTwiceSkipsKnownIDs(t *testing.T) {
	dir := setupEnv(t)
	importFixture(t, dir)

	out, err := run(t, "import", filepath.Join(dir, "payload.json"))
	require.NoError(t, err)
	require.Contains(t, out, "added 0, skipped 2, total 2")
}

func TestSessionsAndSummary(t *testing.T) {
	dir := setupEnv(t)
	importFixture(t, dir)

	out, err := run(t, "sessions")
	require.NoError(t, err)
	require.Contains(t, out, "Lago Preto")
	require.Contains(t, out, "1 HOUR AND 30 MINUTES")

	out, err = run(t, "sessions", "--environment", "Rio")
	require.NoError(t, err)
	require.Contains(t, out, "Bia")
	require.NotContains(t, out, "Ana")

	out, err = run(t, "summary")
	require.NoError(t, err)
	require.Contains(t, out, "GRAND TOTAL")
	require.Contains(t, out, "Lago Preto")
}

func TestExport(t *testing.T) {
	dir := setupEnv(t)
	importFixture(t, dir)

	out, err := run(t, "export", "--format", "csv", "--out", "-")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, export.BOM+"Date;Counter;"))
	require.Contains(t, out, "LAGO PRETO")

	out, err = run(t, "export")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	require.Equal(t, filepath.Join(dir, "exports"), filepath.Dir(path))
	require.Equal(t, ".xlsx", filepath.Ext(path))
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "export", "--format", "pdf")
	require.Error(t, err)
}

func TestExportEmpty(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "export")
	require.NoError(t, err)
	require.Contains(t, out, "no sessions to export")
	_, err = os.Stat(filepath.Join(dir, "exports"))
	require.True(t, os.IsNotExist(err))

	out, err = run(t, "export", "--format", "tsv", "--out", "-")
	require.NoError(t, err)
	require.NotContains(t, out, export.BOM)
}

func TestClearRequiresYes(t *testing.T) {
	dir := setupEnv(t)
	importFixture(t, dir)

	_, err := run(t, "clear")
	require.ErrorContains(t, err, "--yes")

	out, err := run(t, "clear", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "cleared")

	out, err = run(t, "sessions")
	require.NoError(t, err)
	require.Contains(t, out, "no sessions")

	out, err = run(t, "summary")
	require.NoError(t, err)
	require.Contains(t, out, "no sessions")
}
