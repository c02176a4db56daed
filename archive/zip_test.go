package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gotest.tools/v3/fs"

	"github.com/0rca-network/opskit/internal/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()

	return logger.WithLogger(context.Background(), zaptest.NewLogger(t).Sugar())
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	out := make(map[string]string, len(r.File))
	for _, f := range r.File {
		assert.Equal(t, zip.Deflate, f.Method, f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		out[f.Name] = string(b)
	}

	return out
}

func TestZipDir_Exclusions(t *testing.T) {
	t.Parallel()

	src := fs.NewDir(t, "agent",
		fs.WithFile("a.txt", "hello agent"),
		fs.WithDir(".hidden", fs.WithFile("b.txt", "secret")),
		fs.WithDir("node_modules", fs.WithFile("c.txt", "dep")),
		fs.WithFile("agent_local.db", "sqlite"),
	)
	out := filepath.Join(t.TempDir(), "agent.zip")

	report, err := ZipDir(testContext(t), DefaultOptions(src.Path(), out))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, report.Entries)
	assert.Equal(t, map[string]string{"a.txt": "hello agent"}, readArchive(t, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), report.Size)
}

func TestZipDir_NestedPaths(t *testing.T) {
	t.Parallel()

	src := fs.NewDir(t, "agent",
		fs.WithFile(".env.example", "KEY="),
		fs.WithFile("main.py", "print('hi')"),
		fs.WithDir("agent",
			fs.WithFile("server.py", "serve()"),
			fs.WithFile("agent_server.log", "noise"),
			fs.WithDir("__pycache__", fs.WithFile("server.cpython.pyc", "bytecode")),
			fs.WithDir("tools", fs.WithFile("search.py", "search()")),
		),
		fs.WithDir("venv", fs.WithFile("pyvenv.cfg", "home")),
		fs.WithDir(".venv", fs.WithFile("pyvenv.cfg", "home")),
	)
	out := filepath.Join(t.TempDir(), "agent.zip")

	report, err := ZipDir(testContext(t), DefaultOptions(src.Path(), out))
	require.NoError(t, err)

	got := readArchive(t, out)
	want := map[string]string{
		".env.example":          "KEY=",
		"main.py":               "print('hi')",
		"agent/server.py":       "serve()",
		"agent/tools/search.py": "search()",
	}
	assert.Equal(t, want, got)

	entries := append([]string(nil), report.Entries...)
	sort.Strings(entries)
	assert.Equal(t, []string{".env.example", "agent/server.py", "agent/tools/search.py", "main.py"}, entries)
}

func TestZipDir_OutputInsideSource(t *testing.T) {
	t.Parallel()

	src := fs.NewDir(t, "agent", fs.WithFile("a.txt", "a"))
	out := src.Join("agent.zip")

	report, err := ZipDir(testContext(t), DefaultOptions(src.Path(), out))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, report.Entries)
}

func TestZipDir_Errors(t *testing.T) {
	t.Parallel()

	file := fs.NewFile(t, "not-a-dir")
	tmp := t.TempDir()

	tests := []struct {
		name    string
		give    Options
		wantErr string
	}{
		{name: "missing fields", give: Options{}, wantErr: "source and output are required"},
		{name: "missing source", give: DefaultOptions(filepath.Join(tmp, "nope"), filepath.Join(tmp, "a.zip")), wantErr: "failed to stat source"},
		{name: "source is a file", give: DefaultOptions(file.Path(), filepath.Join(tmp, "b.zip")), wantErr: "is not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ZipDir(testContext(t), tt.give)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestZipDir_CancelledRemovesPartialArchive(t *testing.T) {
	t.Parallel()

	src := fs.NewDir(t, "agent", fs.WithFile("a.txt", "a"))
	out := filepath.Join(t.TempDir(), "agent.zip")

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := ZipDir(ctx, DefaultOptions(src.Path(), out))
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
