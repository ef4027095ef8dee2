package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFiles materializes a fixture tree: keys are slash-separated relative
// paths, values file contents. Returns the root.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// chdir switches into dir for the duration of the test, restoring the
// previous working directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}

// testConfig returns a Config with the defaults a plain `concat <dir>` run
// would resolve to, minus purge and output-path concerns.
func testConfig(inputs ...string) *Config {
	return &Config{
		Inputs:         inputs,
		FileInputs:     map[string]bool{},
		Recursive:      true,
		ExcludeNonText: true,
		ExtInclude:     map[string]bool{},
		ExtExclude:     map[string]bool{},
		ShowTitle:      true,
		ShowParams:     true,
		ShowDirList:    true,
		ShowPaths:      true,
		Format:         FormatXML,
	}
}

// relPaths projects matched files onto their relative display paths.
func relPaths(files []matchedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

// stubTreeRenderer returns canned text for every root.
type stubTreeRenderer struct {
	text string
	err  error
}

func (s stubTreeRenderer) RenderTree(string, bool) (string, error) {
	return s.text, s.err
}
