package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_KeepsNewestBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	w, file, err := newSizedLogFileWriter(path, 20, 10)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	_, err = w.Write([]byte(strings.Repeat("a", 15)))
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789", string(data))

	_, err = w.Write([]byte("xy"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789xy", string(data))
}

func TestEnsureDBDir(t *testing.T) {
	require.NoError(t, ensureDBDir(":memory:"))
	dir := filepath.Join(t.TempDir(), "nested", "data")
	require.NoError(t, ensureDBDir(filepath.Join(dir, "pirarucu.db")))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
