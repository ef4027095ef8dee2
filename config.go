package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
)

// Config is the fully resolved run configuration. It is built once from the
// CLI/viper boundary and never mutated after discovery begins; the core
// never re-reads raw arguments.
type Config struct {
	Inputs     []string        // absolute file/dir paths, globs already expanded
	FileInputs map[string]bool // subset of Inputs that are regular files

	Recursive     bool
	MaxDepth      int // 0 = unlimited
	IncludeHidden bool

	ExcludeNonText bool
	ExtInclude     map[string]bool
	ExtExclude     map[string]bool
	IncludeGlobs   []string
	ExcludeGlobs   []string // bare filenames already rewritten to **/name
	CaseSensitive  bool

	RespectGitignore bool
	PurgeCaches      bool

	Format      Format
	ShowTree    bool
	ShowDirList bool
	ShowTitle   bool
	ShowParams  bool
	ShowPaths   bool

	CountTokens bool
	TokenModel  string

	OutputPath  string // resolved absolute path
	defaultName bool   // name was derived, enables stale-sibling cleanup
	PDFPath     string
	ToClipboard bool
}

// normalizeExt canonicalizes an extension token: dot-prefixed, lowercased
// unless case sensitivity is requested.
func normalizeExt(ext string, caseSensitive bool) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !caseSensitive {
		ext = strings.ToLower(ext)
	}
	return ext
}

func extSet(tokens []string, caseSensitive bool) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if norm := normalizeExt(t, caseSensitive); norm != "" {
			set[norm] = true
		}
	}
	return set
}

// sortedKeys returns the set members in version-aware order for display.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return natural.Less(keys[i], keys[j]) })
	return keys
}

// classifyArgs splits positional arguments into concrete input paths and
// bare extension tokens. Glob arguments are expanded here; discovery only
// ever sees concrete paths.
func classifyArgs(args []string) (inputs []string, fileInputs map[string]bool, extTokens []string) {
	fileInputs = make(map[string]bool)

	addPath := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			warnf("cannot resolve input %q: %v", p, err)
			return
		}
		info, err := os.Stat(abs)
		if err != nil {
			warnf("input not found, skipping: %s", p)
			return
		}
		inputs = append(inputs, abs)
		if info.Mode().IsRegular() {
			fileInputs[abs] = true
		}
	}

	for _, arg := range args {
		switch {
		case strings.ContainsAny(arg, "*?["):
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				warnf("invalid glob input %q: %v", arg, err)
				continue
			}
			if len(matches) == 0 {
				warnf("glob matched nothing, skipping: %s", arg)
				continue
			}
			for _, m := range matches {
				addPath(m)
			}
		case strings.ContainsRune(arg, os.PathSeparator) || strings.Contains(arg, "/"):
			addPath(arg)
		default:
			// A bare token is an input if it exists, an extension otherwise.
			if _, err := os.Stat(arg); err == nil {
				addPath(arg)
			} else {
				extTokens = append(extTokens, arg)
			}
		}
	}
	return inputs, fileInputs, extTokens
}

// firstDirInput returns the first input that is a directory, or "".
func (c *Config) firstDirInput() string {
	for _, in := range c.Inputs {
		if !c.FileInputs[in] {
			return in
		}
	}
	return ""
}

// outputBase derives the default output basename stem: the first input
// directory's name, else the joined extension filter, else "output".
func (c *Config) outputBase() string {
	if dir := c.firstDirInput(); dir != "" {
		if base := filepath.Base(dir); base != "" && base != string(os.PathSeparator) && base != "." {
			return base
		}
	}
	if len(c.ExtInclude) > 0 {
		parts := make([]string, 0, len(c.ExtInclude))
		for _, e := range sortedKeys(c.ExtInclude) {
			parts = append(parts, strings.TrimPrefix(e, "."))
		}
		return strings.Join(parts, "-")
	}
	return "output"
}

// defaultOutputName is the derived output filename for the given format.
func (c *Config) defaultOutputName(f Format) string {
	return "_" + c.outputBase() + "-concat" + f.Extension()
}

// resolveOutputPath fixes OutputPath from the --output/--output-dir flags,
// forcing the extension to agree with the chosen format.
func (c *Config) resolveOutputPath(outputFlag, outputDirFlag string) error {
	dir := outputDirFlag
	name := outputFlag
	if name != "" && filepath.Dir(name) != "." {
		if dir == "" {
			dir = filepath.Dir(name)
		}
		name = filepath.Base(name)
	}
	if dir == "" {
		dir = "."
	}
	if name == "" {
		name = c.defaultOutputName(c.Format)
		c.defaultName = true
	} else if ext := filepath.Ext(name); ext != c.Format.Extension() {
		name = strings.TrimSuffix(name, ext) + c.Format.Extension()
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving output directory %q: %w", dir, err)
	}
	c.OutputPath = filepath.Join(absDir, name)
	return nil
}
