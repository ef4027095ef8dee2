package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

const noFilesMessage = "No files to concatenate"

// buildRunResult assembles everything the chosen encoding consumes: matched
// files in final order, directory groupings with explicitly sorted keys, and
// the optional tree text from the collaborator.
func buildRunResult(cfg *Config, files []matchedFile, tr treeRenderer) *runResult {
	res := &runResult{
		cfg:         cfg,
		files:       files,
		matchedDirs: groupMatchedDirs(files),
	}
	for _, f := range files {
		res.totalTokens += f.TokenCount
	}
	if cfg.ShowTree {
		res.dirStructure = collectDirStructure(cfg)
		var parts []string
		ok := true
		for _, in := range cfg.Inputs {
			if cfg.FileInputs[in] {
				continue
			}
			text, err := tr.RenderTree(in, cfg.Format == FormatXML)
			if err != nil {
				warnf("tree unavailable for %s: %v", in, err)
				ok = false
				continue
			}
			parts = append(parts, text)
		}
		res.treeText = strings.Join(parts, "\n")
		res.treeOK = ok && len(parts) > 0
	}
	return res
}

// groupMatchedDirs builds the relative-directory -> child-basenames view of
// the matched files. Keys and values are sorted; map order never leaks into
// output.
func groupMatchedDirs(files []matchedFile) map[string][]string {
	dirs := make(map[string][]string)
	for _, f := range files {
		dir := filepath.ToSlash(filepath.Dir(f.RelPath))
		dirs[dir] = append(dirs[dir], filepath.Base(f.RelPath))
	}
	for _, children := range dirs {
		sort.Slice(children, func(i, j int) bool { return natural.Less(children[i], children[j]) })
	}
	return dirs
}

// collectDirStructure walks the directory inputs once more to produce the
// full structure listing, a superset of the matched grouping that includes
// empty directories. Hidden pruning follows the run configuration.
func collectDirStructure(cfg *Config) map[string][]string {
	structure := make(map[string][]string)
	for _, in := range cfg.Inputs {
		if cfg.FileInputs[in] {
			continue
		}
		collectDirs(cfg, in, filepath.Base(filepath.Clean(in)), structure)
	}
	return structure
}

func collectDirs(cfg *Config, dir, key string, structure map[string][]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		warnf("cannot list %s: %v", dir, err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !cfg.IncludeHidden && isHiddenName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
		if e.IsDir() {
			collectDirs(cfg, filepath.Join(dir, e.Name()), key+"/"+e.Name(), structure)
		}
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	structure[key] = names
}

// sortedDirKeys materializes a grouping's keys in version-aware order.
func sortedDirKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return natural.Less(keys[i], keys[j]) })
	return keys
}

// serialize renders the result in the configured encoding. Both encodings
// stream file contents one file at a time, so memory stays bounded by the
// largest single file.
func serialize(res *runResult, w io.Writer) error {
	if res.cfg.Format == FormatText {
		return serializeText(res, w)
	}
	return serializeXML(res, w)
}

// readFileContent reads one matched file for embedding. A read failure is
// reported inline by the caller, never aborting the document.
func readFileContent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
