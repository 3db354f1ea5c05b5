package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, zipFiles, dirFiles map[string]string) (string, string) {
	t.Helper()
	tmp := t.TempDir()

	zipPath := filepath.Join(tmp, "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range zipFiles {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dir := filepath.Join(tmp, "dir")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range dirFiles {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return zipPath, dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append(args, "--quiet"))
	if err := cmd.Execute(); err != nil {
		code = reportError(&errOut, err)
	}
	return out.String(), errOut.String(), code
}

func TestRunIdentical(t *testing.T) {
	files := map[string]string{"file1.txt": "Hello, World!", "folder/file2.txt": "Another file!"}
	zipPath, dir := writeFixture(t, files, files)

	stdout, stderr, code := execute(t, zipPath, dir)

	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, `
Comparison Results:

Files only in archive:
  (None)

Files only in directory:
  (None)

Files with size mismatch:
  (None)
`, stdout)
}

func TestRunDifferences(t *testing.T) {
	zipPath, dir := writeFixture(t,
		map[string]string{"file1.txt": "Different content", "zip-only.txt": "x"},
		map[string]string{"file1.txt": "Hello, World!", "dir-only.txt": "y"},
	)

	stdout, _, code := execute(t, zipPath, dir)
	assert.Equal(t, 0, code, "differences alone do not fail without --exit-code")
	assert.Contains(t, stdout, "  - zip-only.txt\n")
	assert.Contains(t, stdout, "  - dir-only.txt\n")
	assert.Contains(t, stdout, "  - file1.txt: archive=17 directory=13\n")

	_, _, code = execute(t, zipPath, dir, "--exit-code")
	assert.Equal(t, 1, code)
}

func TestRunJSON(t *testing.T) {
	zipPath, dir := writeFixture(t,
		map[string]string{"a.txt": "abc"},
		map[string]string{"a.txt": "xyz"},
	)
	jsonFile := filepath.Join(t.TempDir(), "out.json")

	stdout, stderr, code := execute(t, zipPath, dir, "--format", "json", "--checksum", "crc32", "--json-file", jsonFile)
	require.Equal(t, 0, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Contains(t, got["checksum_mismatch"], "a.txt")

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	assert.JSONEq(t, stdout, string(data))
}

func TestRunMissingPaths(t *testing.T) {
	zipPath, dir := writeFixture(t, nil, nil)
	missingZip := filepath.Join(t.TempDir(), "non_existent.zip")
	missingDir := filepath.Join(t.TempDir(), "non_existent_dir")

	stdout, stderr, code := execute(t, missingZip, dir)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: ZIP file '"+missingZip+"' does not exist.\n", stderr)

	stdout, stderr, code = execute(t, zipPath, missingDir)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: Directory '"+missingDir+"' does not exist.\n", stderr)
}

func TestRunInvalidZip(t *testing.T) {
	_, dir := writeFixture(t, nil, nil)
	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("plain text"), 0644))

	_, stderr, code := execute(t, bad, dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "is not a valid ZIP file")
}

func TestRunArgs(t *testing.T) {
	_, stderr, code := execute(t, "only-one-arg")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "accepts 2 arg(s)")
}

func TestRunBadFlags(t *testing.T) {
	zipPath, dir := writeFixture(t, nil, nil)

	_, stderr, code := execute(t, zipPath, dir, "--checksum", "md5")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown checksum mode")

	_, stderr, code = execute(t, zipPath, dir, "--format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format")
}

func TestRunConfigFile(t *testing.T) {
	zipPath, dir := writeFixture(t,
		map[string]string{"keep.txt": "1"},
		map[string]string{"keep.txt": "1", "build/out.o": "binary"},
	)
	cfgPath := filepath.Join(t.TempDir(), "zipcompare.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("exclude:\n  - \"build/\"\nformat: json\n"), 0644))

	stdout, stderr, code := execute(t, zipPath, dir, "--config", cfgPath)
	require.Equal(t, 0, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, []any{}, got["only_in_directory"])
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "differences print nothing",
			err:  fmt.Errorf("run: %w", errDifferences),
			want: "",
		},
		{
			name: "unexpected error prints the wrapped chain",
			err:  fmt.Errorf("failed to verify checksums: %w", errors.New("open file: permission denied")),
			want: "Error: failed to verify checksums: open file: permission denied\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, 1, reportError(&buf, tt.err))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
