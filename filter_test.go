package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runChain(cfg *Config) ([]matchedFile, []skipRecord) {
	return newFilterChain(cfg).Apply(discover(cfg))
}

func TestFilterExtensionAllowList(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py":       "a",
		".hidden.py": "h",
		"sub/b.py":   "b",
		"notes.md":   "n",
	})

	cfg := testConfig(root)
	cfg.ExtInclude = map[string]bool{".py": true}
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{"a.py", "sub/b.py"}, relPaths(matched))
}

func TestFilterExcludePrecedesInclude(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a", "b.md": "b"})

	cfg := testConfig(root)
	cfg.ExtInclude = map[string]bool{".py": true, ".md": true}
	cfg.ExtExclude = map[string]bool{".py": true}
	matched, skipped := runChain(cfg)

	assert.Equal(t, []string{"b.md"}, relPaths(matched))
	require.Len(t, skipped, 1)
	assert.Equal(t, skipIgnoredExtension, skipped[0].reason)
}

func TestFilterExcludeGlobEmptiesResult(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py":     "a",
		"sub/b.py": "b",
	})

	cfg := testConfig(root)
	cfg.ExcludeGlobs = []string{"*.py"}
	matched, _ := runChain(cfg)

	assert.Empty(t, matched)
}

func TestFilterBareExcludeMatchesAnyDepth(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"config.json":     "{}",
		"a/b/config.json": "{}",
		"keep.json":       "{}",
	})

	cfg := testConfig(root)
	cfg.ExcludeGlobs = []string{rewriteBareExclude("config.json")}
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{"keep.json"}, relPaths(matched))
}

func TestFilterPathedExcludeMatchesOnlyThatPath(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/config.json": "{}",
		"config.json":     "{}",
	})

	cfg := testConfig(root)
	cfg.ExcludeGlobs = []string{"src/config.json"}
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{"config.json"}, relPaths(matched))
}

func TestFilterExplicitInputWaivesHidden(t *testing.T) {
	root := writeFiles(t, map[string]string{".env": "SECRET=1"})
	path := filepath.Join(root, ".env")

	cfg := testConfig(path)
	cfg.FileInputs = map[string]bool{path: true}
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{".env"}, relPaths(matched))
}

func TestFilterHiddenTargetingIncludeWaivesHidden(t *testing.T) {
	root := writeFiles(t, map[string]string{
		".env":  "SECRET=1",
		".bash": "x",
		"a.py":  "a",
	})

	cfg := testConfig(root)
	cfg.IncludeGlobs = []string{".env*"}
	matched, _ := runChain(cfg)

	// .bash stays hidden; a.py fails the include allow-list.
	assert.Equal(t, []string{".env"}, relPaths(matched))
}

func TestFilterHiddenIncludedWhenConfigured(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a", ".env": "x"})

	cfg := testConfig(root)
	cfg.IncludeHidden = true
	cfg.IncludeGlobs = nil
	matched, _ := runChain(cfg)
	assert.Equal(t, []string{".env", "a.py"}, relPaths(matched))
}

func TestFilterNonText(t *testing.T) {
	root := writeFiles(t, map[string]string{"readme.txt": "hello"})
	// A real binary payload next to it.
	require.NoError(t, os.WriteFile(filepath.Join(root, "photo.png"), []byte{0x89, 'P', 'N', 'G', 0x00}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob"), []byte{1, 0, 2}, 0o644))

	cfg := testConfig(root)
	matched, skipped := runChain(cfg)

	assert.Equal(t, []string{"readme.txt"}, relPaths(matched))
	for _, s := range skipped {
		assert.Equal(t, skipNonText, s.reason)
	}
	assert.Len(t, skipped, 2)
}

func TestFilterNonTextDisabled(t *testing.T) {
	root := writeFiles(t, map[string]string{"readme.txt": "hello"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte{1, 0, 2}, 0o644))

	cfg := testConfig(root)
	cfg.ExcludeNonText = false
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{"blob.bin", "readme.txt"}, relPaths(matched))
}

func TestFilterSelfReference(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py":        "a",
		"_concat.xml": "<old/>",
	})

	cfg := testConfig(root)
	cfg.OutputPath = filepath.Join(root, "_concat.xml")
	matched, skipped := runChain(cfg)

	assert.Equal(t, []string{"a.py"}, relPaths(matched))
	require.Len(t, skipped, 1)
	assert.Equal(t, skipSelfReference, skipped[0].reason)
}

func TestFilterIncludeGlobAllowList(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.go":     "package main",
		"sub/util.go": "package sub",
		"notes.md":    "n",
	})

	cfg := testConfig(root)
	cfg.IncludeGlobs = []string{"*.go"}
	matched, skipped := runChain(cfg)

	// A separator-free pattern also matches basenames, so nested files pass.
	assert.Equal(t, []string{"main.go", "sub/util.go"}, relPaths(matched))
	require.Len(t, skipped, 1)
	assert.Equal(t, skipIncludeMismatch, skipped[0].reason)
}

func TestFilterGitignore(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py":          "a",
		"build/out.py":  "o",
		"ignored.local": "x",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("build/\n*.local\n"), 0o644))

	cfg := testConfig(root)
	cfg.RespectGitignore = true
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{"a.py"}, relPaths(matched))
}

func TestFilterGitignoreDisabled(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.py": "a", "b.local": "x"})
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.local\n"), 0o644))

	cfg := testConfig(root)
	cfg.RespectGitignore = false
	matched, _ := runChain(cfg)

	assert.Equal(t, []string{"a.py", "b.local"}, relPaths(matched))
}

func TestFilterCaseSensitivity(t *testing.T) {
	root := writeFiles(t, map[string]string{"A.PY": "a", "b.py": "b"})

	insensitive := testConfig(root)
	insensitive.ExtInclude = extSet([]string{"py"}, false)
	matched, _ := runChain(insensitive)
	assert.Equal(t, []string{"A.PY", "b.py"}, relPaths(matched))

	sensitive := testConfig(root)
	sensitive.CaseSensitive = true
	sensitive.ExtInclude = extSet([]string{"py"}, true)
	matched, _ = runChain(sensitive)
	assert.Equal(t, []string{"b.py"}, relPaths(matched))
}

func TestFilterRecordsLanguageAndSize(t *testing.T) {
	root := writeFiles(t, map[string]string{"main.go": "package main\n"})

	matched, _ := runChain(testConfig(root))

	require.Len(t, matched, 1)
	assert.Equal(t, "Go", matched[0].Language)
	assert.Equal(t, int64(len("package main\n")), matched[0].Size)
}
