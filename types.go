package main

import "path/filepath"

// Format selects the document encoding produced by the serializer.
type Format int

const (
	FormatXML Format = iota
	FormatText
)

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "xml"
}

// Extension returns the output-file extension matching the format.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return ".xml"
}

// candidateFile is a regular file discovered under one of the input roots,
// prior to filtering. Basename, extension and hidden-ness are derived from
// the path rather than stored.
type candidateFile struct {
	absPath  string
	root     string // input root the file was discovered under
	explicit bool   // named directly as a command-line argument
}

func (c candidateFile) base() string {
	return filepath.Base(c.absPath)
}

func (c candidateFile) ext() string {
	return filepath.Ext(c.absPath)
}

// rel returns the display path relative to the candidate's root. For a root
// that is itself a file, this is just the basename.
func (c candidateFile) rel() string {
	if c.root == "" || c.root == c.absPath {
		return filepath.Base(c.absPath)
	}
	rel, err := filepath.Rel(c.root, c.absPath)
	if err != nil {
		return c.absPath
	}
	return filepath.ToSlash(rel)
}

// matchedFile is a candidate that survived the full filter chain. Content is
// read at serialization time, one file at a time.
type matchedFile struct {
	AbsPath    string
	RelPath    string
	Language   string
	Size       int64
	TokenCount int
}

// skipReason labels why the filter chain rejected a candidate. It is a
// diagnostic side channel, not part of the matched-file data model.
type skipReason string

const (
	skipSelfReference     skipReason = "self-reference"
	skipHidden            skipReason = "hidden"
	skipIgnoredExtension  skipReason = "ignored-extension"
	skipExtensionNotMatch skipReason = "extension-not-matched"
	skipNonText           skipReason = "non-text"
	skipIncludeMismatch   skipReason = "include-mismatch"
	skipExcludeMatch      skipReason = "exclude-match"
	skipGitignore         skipReason = "gitignore"
)

type skipRecord struct {
	path   string
	reason skipReason
}

// runResult is everything the serializer needs: the matched files in final
// order, the directory groupings, and the optional tree text. It is built
// once per run and consumed exactly once.
type runResult struct {
	cfg          *Config
	files        []matchedFile
	matchedDirs  map[string][]string // relative dir -> sorted matched child basenames
	dirStructure map[string][]string // relative dir -> sorted child basenames, incl. empty dirs
	treeText     string
	treeOK       bool
	totalTokens  int
}
