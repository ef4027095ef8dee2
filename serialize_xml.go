package main

import (
	"fmt"
	"io"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// serializeXML renders the XML encoding: a single <concatOutput> root with
// optional title, parameters, directory views and per-file <content> blocks
// in CDATA sections. Element order and entry ordering are fixed so output is
// byte-stable for a given filesystem and configuration.
func serializeXML(res *runResult, w io.Writer) error {
	cfg := res.cfg
	out := &errWriter{w: w}

	out.line(xmlHeader)
	out.line("<concatOutput>")

	if cfg.ShowTitle {
		out.line("  <title>" + xmlEscape("Concatenated output: "+cfg.outputBase()) + "</title>")
	}

	if cfg.ShowParams {
		attrs := fmt.Sprintf(` format=%q caseSensitive="%t" hidden=%q recursive="%t" matchCount="%d"`,
			cfg.Format.String(), cfg.CaseSensitive, includedWord(cfg.IncludeHidden), cfg.Recursive, len(res.files))
		if cfg.CountTokens {
			attrs += fmt.Sprintf(` totalTokens="%d"`, res.totalTokens)
		}
		out.line("  <parameters" + attrs + ">")
		writeValueList(out, "extensionsIncluded", sortedKeys(cfg.ExtInclude))
		writeValueList(out, "extensionsExcluded", sortedKeys(cfg.ExtExclude))
		writeValueList(out, "includePatterns", cfg.IncludeGlobs)
		writeValueList(out, "excludePatterns", cfg.ExcludeGlobs)
		out.line("  </parameters>")
	}

	if cfg.ShowDirList && len(res.files) > 0 {
		out.line("  <matchedDirectories>")
		writeDirGrouping(out, res.matchedDirs)
		out.line("  </matchedDirectories>")
	}

	if cfg.ShowTree {
		if res.treeOK {
			out.write("  <tree>")
			writeCDATA(out, res.treeText)
			out.line("</tree>")
		} else {
			out.line(`  <tree available="false"/>`)
		}
		if len(res.dirStructure) > 0 {
			out.line("  <directoryStructure>")
			writeDirGrouping(out, res.dirStructure)
			out.line("  </directoryStructure>")
		}
	}

	if len(res.files) == 0 {
		out.line(`  <fileContents count="0">`)
		out.line("    <noFiles>" + xmlEscape(noFilesMessage) + "</noFiles>")
		out.line("  </fileContents>")
		out.line("</concatOutput>")
		return out.err
	}

	out.line(fmt.Sprintf(`  <fileContents count="%d">`, len(res.files)))
	for _, f := range res.files {
		attrs := ""
		if f.Language != "" {
			attrs += ` language="` + xmlEscape(f.Language) + `"`
		}
		if cfg.CountTokens {
			attrs += fmt.Sprintf(` tokens="%d"`, f.TokenCount)
		}
		out.line("    <file" + attrs + ">")
		out.line("      <filename>" + xmlEscape(filepathBase(f.RelPath)) + "</filename>")
		if cfg.ShowPaths {
			out.line("      <relativePath>" + xmlEscape(f.RelPath) + "</relativePath>")
			out.line("      <absolutePath>" + xmlEscape(f.AbsPath) + "</absolutePath>")
		}
		content, err := readFileContent(f.AbsPath)
		if err != nil {
			out.line("      <error>" + xmlEscape(err.Error()) + "</error>")
		} else {
			out.write("      <content>")
			writeCDATA(out, string(content))
			out.line("</content>")
		}
		out.line("    </file>")
	}
	out.line("  </fileContents>")
	out.line("</concatOutput>")
	return out.err
}

func writeValueList(out *errWriter, name string, values []string) {
	if len(values) == 0 {
		out.line("    <" + name + "/>")
		return
	}
	out.line("    <" + name + ">")
	for _, v := range values {
		out.line("      <value>" + xmlEscape(v) + "</value>")
	}
	out.line("    </" + name + ">")
}

func writeDirGrouping(out *errWriter, grouping map[string][]string) {
	for _, dir := range sortedDirKeys(grouping) {
		children := grouping[dir]
		if len(children) == 0 {
			out.line(`    <directory path="` + xmlEscape(dir) + `"/>`)
			continue
		}
		out.line(`    <directory path="` + xmlEscape(dir) + `">`)
		for _, child := range children {
			out.line("      <value>" + xmlEscape(child) + "</value>")
		}
		out.line("    </directory>")
	}
}

// xmlEscape escapes the five XML-special characters for use in element text
// and quoted attribute values.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

// writeCDATA embeds arbitrary text in a CDATA section. A literal "]]>" in
// the content would terminate the section early, so it is split across two
// adjacent sections: "]]" closes the first, ">" opens the next.
func writeCDATA(out *errWriter, content string) {
	out.write("<![CDATA[")
	out.write(strings.ReplaceAll(content, "]]>", "]]]]><![CDATA[>"))
	out.write("]]>")
}
