package main

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// filterChain applies the fixed predicate sequence to discovered candidates.
// Stages run in a fixed order and short-circuit on the first rejection;
// every rejection is recorded with a reason for diagnostics.
type filterChain struct {
	cfg      *Config
	matchers map[string]gitignore.IgnoreMatcher // per-root .gitignore, nil entry = none
}

func newFilterChain(cfg *Config) *filterChain {
	fc := &filterChain{cfg: cfg, matchers: make(map[string]gitignore.IgnoreMatcher)}
	if cfg.RespectGitignore {
		for _, in := range cfg.Inputs {
			if cfg.FileInputs[in] {
				continue
			}
			ignorePath := filepath.Join(in, ".gitignore")
			if _, err := os.Stat(ignorePath); err != nil {
				continue
			}
			matcher, err := gitignore.NewGitIgnore(ignorePath)
			if err != nil {
				warnf("could not parse %s: %v", ignorePath, err)
				continue
			}
			fc.matchers[in] = matcher
		}
	}
	return fc
}

// Apply runs every candidate through the chain, preserving discovery order
// for the accepted files.
func (fc *filterChain) Apply(candidates []candidateFile) ([]matchedFile, []skipRecord) {
	var matched []matchedFile
	var skipped []skipRecord

	for _, c := range candidates {
		if reason, ok := fc.reject(c); ok {
			skipped = append(skipped, skipRecord{path: c.absPath, reason: reason})
			debugf("skip (%s): %s", reason, c.absPath)
			continue
		}
		m := matchedFile{
			AbsPath:  c.absPath,
			RelPath:  c.rel(),
			Language: languageForFile(c.absPath),
		}
		if info, err := os.Stat(c.absPath); err == nil {
			m.Size = info.Size()
		}
		matched = append(matched, m)
	}
	return matched, skipped
}

// reject returns the first failing stage's reason, or ok=false when the
// candidate passes the whole chain.
func (fc *filterChain) reject(c candidateFile) (skipReason, bool) {
	cfg := fc.cfg
	rel := c.rel()
	base := c.base()

	// 1. Never swallow our own output document.
	if cfg.OutputPath != "" && c.absPath == cfg.OutputPath {
		return skipSelfReference, true
	}

	// 2. Hidden, unless explicitly named or matched by a hidden-targeting
	// include pattern.
	if !cfg.IncludeHidden && isHiddenRel(rel) && !c.explicit && !fc.hiddenInclude(c) {
		return skipHidden, true
	}

	// 3. Exclude-extension always wins over include-extension.
	ext := normalizeExt(c.ext(), cfg.CaseSensitive)
	if ext != "" && cfg.ExtExclude[ext] {
		return skipIgnoredExtension, true
	}

	// 4. Include-extension allow-list.
	if len(cfg.ExtInclude) > 0 && !cfg.ExtInclude[ext] {
		return skipExtensionNotMatch, true
	}

	// 5. Non-text exclusion: well-known binary extensions short-circuit the
	// content probe.
	if cfg.ExcludeNonText {
		if wellKnownBinaryExts[strings.ToLower(c.ext())] {
			return skipNonText, true
		}
		binary, err := looksBinary(c.absPath)
		if err != nil {
			warnf("cannot read %s, excluding: %v", c.absPath, err)
		}
		if binary {
			return skipNonText, true
		}
	}

	// 6. Include-glob allow-list.
	if len(cfg.IncludeGlobs) > 0 && !fc.anyGlob(cfg.IncludeGlobs, c) {
		return skipIncludeMismatch, true
	}

	// 7. Exclude-glob deny-list (bare names were rewritten to **/name).
	for _, pattern := range cfg.ExcludeGlobs {
		if matchesGlob(rel, pattern, cfg.CaseSensitive) ||
			matchesGlob(base, pattern, cfg.CaseSensitive) {
			return skipExcludeMatch, true
		}
	}

	// 8. .gitignore of the candidate's root, when respected. Explicit
	// arguments are taken at face value. The matcher relativizes against
	// the .gitignore's own directory, so it gets the absolute path.
	if !c.explicit {
		if matcher, ok := fc.matchers[c.root]; ok && matcher.Match(c.absPath, false) {
			return skipGitignore, true
		}
	}

	return "", false
}

// anyGlob reports whether any pattern matches the candidate. Patterns are
// tried against the root-relative path and, when they carry no separator,
// the basename as well.
func (fc *filterChain) anyGlob(patterns []string, c candidateFile) bool {
	rel := c.rel()
	base := c.base()
	for _, p := range patterns {
		if matchesGlob(rel, p, fc.cfg.CaseSensitive) {
			return true
		}
		if !strings.Contains(p, "/") && matchesGlob(base, p, fc.cfg.CaseSensitive) {
			return true
		}
	}
	return false
}

// hiddenInclude reports whether the candidate is matched by an include
// pattern that deliberately targets hidden paths, waiving hidden exclusion.
func (fc *filterChain) hiddenInclude(c candidateFile) bool {
	for _, p := range fc.cfg.IncludeGlobs {
		if !targetsHidden(p) {
			continue
		}
		if matchesGlob(c.rel(), p, fc.cfg.CaseSensitive) ||
			(!strings.Contains(p, "/") && matchesGlob(c.base(), p, fc.cfg.CaseSensitive)) {
			return true
		}
	}
	return false
}
