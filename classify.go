package main

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// binaryProbeSize is how much of a file the text heuristic inspects.
const binaryProbeSize = 8 * 1024

// wellKnownBinaryExts short-circuits the content probe for extensions that
// are never text: images, archives, executables, media, fonts.
var wellKnownBinaryExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true, ".svgz": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".jar": true, ".whl": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".a": true, ".class": true, ".pyc": true, ".pyo": true,
	".wasm": true,
	".mp3":  true, ".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".wav": true, ".flac": true, ".ogg": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
}

// isHiddenName reports whether a single path component is hidden.
func isHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isHiddenRel reports whether any component of a slash-separated relative
// path is hidden. The root the path is relative to is deliberately not
// considered: an explicitly requested root named ".foo" does not make its
// children hidden by that fact alone.
func isHiddenRel(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		if isHiddenName(part) {
			return true
		}
	}
	return false
}

// looksBinary reports whether a file should be treated as non-text.
// Unreadable files collapse into the same signal: the caller warns and
// excludes either way. A file is non-text when the first 8 KiB contain a
// NUL byte or are not valid UTF-8 (after trimming at most three trailing
// bytes, which may belong to a rune split by the probe boundary).
func looksBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return true, err
	}
	defer f.Close()

	buf := make([]byte, binaryProbeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true, err
	}
	probe := buf[:n]
	if len(probe) == 0 {
		return false, nil // empty files are text
	}
	for _, b := range probe {
		if b == 0 {
			return true, nil
		}
	}
	// A rune can be split by the probe boundary only when the probe filled.
	trim := 0
	for n == binaryProbeSize && trim < utf8.UTFMax-1 && !utf8.Valid(probe) {
		probe = probe[:len(probe)-1]
		trim++
	}
	return !utf8.Valid(probe), nil
}

// matchesGlob matches a slash-separated path against a pattern supporting
// *, ?, ** and character classes. A pattern with no separator and no
// wildcard only ever equals a basename; callers wanting any-depth matching
// rewrite it to **/pattern first.
func matchesGlob(path, pattern string, caseSensitive bool) bool {
	if !caseSensitive {
		path = strings.ToLower(path)
		pattern = strings.ToLower(pattern)
	}
	ok, err := doublestar.Match(pattern, path)
	if err != nil {
		warnf("invalid glob pattern %q: %v", pattern, err)
		return false
	}
	return ok
}

// isBareName reports whether a pattern is a plain filename: no separator,
// no wildcard metacharacters.
func isBareName(pattern string) bool {
	return !strings.ContainsAny(pattern, "/\\*?[{")
}

// rewriteBareExclude turns a bare filename exclude into an any-depth glob.
func rewriteBareExclude(pattern string) string {
	if isBareName(pattern) {
		return "**/" + pattern
	}
	return pattern
}

// targetsHidden reports whether an include pattern deliberately names
// hidden paths, which waives the hidden-exclusion default for its matches.
func targetsHidden(pattern string) bool {
	return strings.HasPrefix(pattern, ".") || strings.Contains(pattern, "/.")
}
