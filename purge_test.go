package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeCaches(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"pkg/__pycache__/mod.cpython-312.pyc": "x",
		"pkg/mod.py":                          "x",
		".pytest_cache/v/cache/lastfailed":    "{}",
		"stray.pyc":                           "x",
	})

	cfg := testConfig(root)
	purgeCaches(cfg)

	assert.NoDirExists(t, filepath.Join(root, "pkg", "__pycache__"))
	assert.NoDirExists(t, filepath.Join(root, ".pytest_cache"))
	assert.NoFileExists(t, filepath.Join(root, "stray.pyc"))
	assert.FileExists(t, filepath.Join(root, "pkg", "mod.py"))
}

func TestPurgeSkipsFileInputs(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a"})
	file := filepath.Join(root, "a.py")

	cfg := testConfig(file)
	cfg.FileInputs = map[string]bool{file: true}
	purgeCaches(cfg)

	require.FileExists(t, file)
}

func TestPurgeToleratesMissingRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "gone"))
	purgeCaches(cfg) // must only warn

	_, err := os.Stat(cfg.Inputs[0])
	assert.True(t, os.IsNotExist(err))
}
