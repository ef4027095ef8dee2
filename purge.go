package main

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Cache artifacts removed from directory inputs before scanning. The purge
// is housekeeping only: failures are warned about, never fatal.
var purgeDirNames = map[string]bool{
	"__pycache__":   true,
	".pytest_cache": true,
}

func purgeCaches(cfg *Config) {
	for _, in := range cfg.Inputs {
		if cfg.FileInputs[in] {
			continue
		}
		purgeUnder(in)
	}
}

func purgeUnder(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnf("purge: cannot access %s: %v", path, err)
			return nil
		}
		if d.IsDir() && purgeDirNames[d.Name()] {
			verbosef("Removing cache directory %s", path)
			if err := os.RemoveAll(path); err != nil {
				warnf("purge: %v", err)
			}
			return fs.SkipDir
		}
		if !d.IsDir() && filepath.Ext(path) == ".pyc" {
			verbosef("Removing cache file %s", path)
			if err := os.Remove(path); err != nil {
				warnf("purge: %v", err)
			}
		}
		return nil
	})
}
