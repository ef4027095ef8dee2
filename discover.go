package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// discover resolves every configured input to candidate files: explicit
// files unconditionally, directories via a pruned walk. The result is
// deduplicated by absolute path and version-sorted so downstream output is
// reproducible.
func discover(cfg *Config) []candidateFile {
	seen := make(map[string]candidateFile)

	for _, input := range cfg.Inputs {
		info, err := os.Stat(input)
		if err != nil {
			warnf("input not found, skipping: %s", input)
			continue
		}
		switch {
		case info.Mode().IsRegular():
			// Explicit files bypass walk pruning but not the filter chain.
			if prev, ok := seen[input]; !ok || !prev.explicit {
				seen[input] = candidateFile{absPath: input, root: filepath.Dir(input), explicit: true}
			}
		case info.IsDir():
			walkRoot(cfg, input, seen)
		default:
			warnf("input is neither a regular file nor a directory, skipping: %s", input)
		}
	}

	list := make([]candidateFile, 0, len(seen))
	for _, c := range seen {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return natural.Less(list[i].absPath, list[j].absPath) })
	return list
}

// walkRoot walks one directory input. Hidden entries are pruned during the
// walk (never the root itself), depth is capped per the config, and
// unreadable subtrees are warned about and skipped rather than aborting the
// scan.
func walkRoot(cfg *Config, root string, seen map[string]candidateFile) {
	// When an include pattern deliberately targets hidden paths, the walk
	// must surface them so the filter chain can apply its override.
	hiddenOK := cfg.IncludeHidden
	for _, p := range cfg.IncludeGlobs {
		if targetsHidden(p) {
			hiddenOK = true
			break
		}
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnf("cannot access %s, skipping: %v", path, err)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := strings.Count(filepath.ToSlash(rel), "/") + 1

		if d.IsDir() {
			if !hiddenOK && isHiddenName(d.Name()) {
				return fs.SkipDir
			}
			if !cfg.Recursive {
				return fs.SkipDir // depth 1: direct children of the root only
			}
			if cfg.MaxDepth > 0 && depth >= cfg.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !hiddenOK && isHiddenName(d.Name()) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := seen[path]; !ok {
			seen[path] = candidateFile{absPath: path, root: root}
		}
		return nil
	})
}
