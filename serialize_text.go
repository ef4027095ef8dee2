package main

import (
	"fmt"
	"io"
	"strings"
)

const (
	sectionRule = "================================================================================"
	fileRule    = "----------------------------------------"
)

// serializeText renders the plain-text encoding: fixed-width rule lines
// between sections, a header block per file, verbatim content bytes, and an
// EOF marker. Content is copied byte-for-byte with no escaping; a file that
// happens to contain the rule text is emitted as-is.
func serializeText(res *runResult, w io.Writer) error {
	cfg := res.cfg
	out := &errWriter{w: w}

	if cfg.ShowTitle {
		out.line(sectionRule)
		out.line("Concatenated output: " + cfg.outputBase())
		out.line(sectionRule)
	}

	if cfg.ShowParams {
		out.line("Parameters:")
		out.line("  Format: " + cfg.Format.String())
		out.line("  Extensions included: " + orNone(sortedKeys(cfg.ExtInclude)))
		out.line("  Extensions excluded: " + orNone(sortedKeys(cfg.ExtExclude)))
		out.line("  Include patterns: " + orNone(cfg.IncludeGlobs))
		out.line("  Exclude patterns: " + orNone(cfg.ExcludeGlobs))
		out.line(fmt.Sprintf("  Case sensitive: %t", cfg.CaseSensitive))
		out.line(fmt.Sprintf("  Hidden files: %s", includedWord(cfg.IncludeHidden)))
		out.line(fmt.Sprintf("  Recursive: %t", cfg.Recursive))
		out.line(fmt.Sprintf("  Files matched: %d", len(res.files)))
		if cfg.CountTokens {
			out.line(fmt.Sprintf("  Total tokens: %d", res.totalTokens))
		}
		out.line(sectionRule)
	}

	if cfg.ShowDirList && len(res.files) > 0 {
		out.line("Matched directories:")
		for _, dir := range sortedDirKeys(res.matchedDirs) {
			out.line(fmt.Sprintf("  %q: [%s]", dir, strings.Join(res.matchedDirs[dir], ", ")))
		}
		out.line(sectionRule)
	}

	if cfg.ShowTree {
		if res.treeOK {
			out.line("Directory tree:")
			out.write(res.treeText)
			if !strings.HasSuffix(res.treeText, "\n") {
				out.write("\n")
			}
		} else {
			out.line("Directory tree: (unavailable)")
		}
		if len(res.dirStructure) > 0 {
			out.line("")
			out.line("Directory structure:")
			for _, dir := range sortedDirKeys(res.dirStructure) {
				out.line(fmt.Sprintf("  %q: [%s]", dir, strings.Join(res.dirStructure[dir], ", ")))
			}
		}
		out.line(sectionRule)
	}

	if len(res.files) == 0 {
		out.line(noFilesMessage)
		return out.err
	}

	for _, f := range res.files {
		out.line(fileRule)
		out.line("File: " + filepathBase(f.RelPath))
		if f.Language != "" {
			out.line("Language: " + f.Language)
		}
		if cfg.ShowPaths {
			out.line("Relative path: " + f.RelPath)
			out.line("Absolute path: " + f.AbsPath)
		}
		if cfg.CountTokens {
			out.line(fmt.Sprintf("Tokens: %d", f.TokenCount))
		}
		out.line(fileRule)

		content, err := readFileContent(f.AbsPath)
		if err != nil {
			out.line(fmt.Sprintf("[error reading file: %v]", err))
		} else {
			out.writeBytes(content)
			if len(content) > 0 && content[len(content)-1] != '\n' {
				out.write("\n")
			}
		}
		out.line(fmt.Sprintf("*** End of %s ***", filepathBase(f.RelPath)))
		out.line("")
	}
	return out.err
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func includedWord(included bool) string {
	if included {
		return "included"
	}
	return "excluded"
}

func filepathBase(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[i+1:]
	}
	return rel
}

// errWriter latches the first write error so serialization code can stay
// linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *errWriter) writeBytes(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *errWriter) line(s string) {
	e.write(s)
	e.write("\n")
}
