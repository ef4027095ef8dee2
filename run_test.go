package main

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProducesXMLDocument(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py":     "print('a')\n",
		"sub/b.py": "print('b')\n",
	})
	outDir := t.TempDir()

	cfg := testConfig(root)
	require.NoError(t, cfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(cfg, stubTreeRenderer{}))

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.NoError(t, xml.Unmarshal(data, new(struct {
		XMLName xml.Name `xml:"concatOutput"`
	})))
	assert.Contains(t, string(data), "<filename>a.py</filename>")
}

func TestRunIsDeterministic(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"file1.py":  "a",
		"file2.py":  "b",
		"file10.py": "c",
		"sub/x.py":  "x",
	})
	outDir := t.TempDir()

	run := func() []byte {
		cfg := testConfig(root)
		cfg.ShowTree = true
		require.NoError(t, cfg.resolveOutputPath("", outDir))
		require.NoError(t, runConcat(cfg, stubTreeRenderer{text: "tree"}))
		data, err := os.ReadFile(cfg.OutputPath)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, run(), run())
}

func TestRunZeroMatchesStillWritesValidDocument(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a"})
	outDir := t.TempDir()

	cfg := testConfig(root)
	cfg.Format = FormatText
	cfg.ExcludeGlobs = []string{"*.py"}
	require.NoError(t, cfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(cfg, stubTreeRenderer{}))

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), noFilesMessage)
}

func TestRunRemovesStaleOtherFormatOutput(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a"})
	outDir := t.TempDir()

	// First run in XML, second in text: the XML default-named file must go.
	xmlCfg := testConfig(root)
	require.NoError(t, xmlCfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(xmlCfg, stubTreeRenderer{}))
	require.FileExists(t, xmlCfg.OutputPath)

	textCfg := testConfig(root)
	textCfg.Format = FormatText
	require.NoError(t, textCfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(textCfg, stubTreeRenderer{}))

	assert.FileExists(t, textCfg.OutputPath)
	assert.NoFileExists(t, xmlCfg.OutputPath)
}

func TestRunOutputNotSelfIngested(t *testing.T) {
	// Output written into the scanned directory must not appear in a
	// subsequent run's matches.
	root := writeFiles(t, map[string]string{"a.py": "a"})

	cfg := testConfig(root)
	cfg.Format = FormatText
	require.NoError(t, cfg.resolveOutputPath("", root))
	require.NoError(t, runConcat(cfg, stubTreeRenderer{}))

	again := testConfig(root)
	again.Format = FormatText
	require.NoError(t, again.resolveOutputPath("", root))
	require.NoError(t, runConcat(again, stubTreeRenderer{}))

	data, err := os.ReadFile(again.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Files matched: 1")
}

func TestRunCreatesOutputDirectory(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a"})
	outDir := filepath.Join(t.TempDir(), "deep", "nested")

	cfg := testConfig(root)
	require.NoError(t, cfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(cfg, stubTreeRenderer{}))

	assert.FileExists(t, cfg.OutputPath)
}

func TestRunPurgesCachesBeforeScan(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py":                  "a",
		"__pycache__/a.pyc.txt": "cached",
	})
	outDir := t.TempDir()

	cfg := testConfig(root)
	cfg.PurgeCaches = true
	require.NoError(t, cfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(cfg, stubTreeRenderer{}))

	assert.NoDirExists(t, filepath.Join(root, "__pycache__"))
	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "cached")
}

func TestRunNoLeftoverTempFiles(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a"})
	outDir := t.TempDir()

	cfg := testConfig(root)
	require.NoError(t, cfg.resolveOutputPath("", outDir))
	require.NoError(t, runConcat(cfg, stubTreeRenderer{}))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(cfg.OutputPath), entries[0].Name())
}
