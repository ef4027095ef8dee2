package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// generatePDF renders the run result as a syntax-highlighted PDF. This is a
// rendition of the same RunResult the text/XML encodings consume, not a
// third document format; byte-stability rules do not apply to it.
func generatePDF(res *runResult, outputPath string) error {
	cfg := res.cfg

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	if cfg.ShowTitle {
		pdf.SetFont("Helvetica", "B", pdfFontSize+3)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight+1, "Concatenated output: "+cfg.outputBase(), "", "L", false)
		pdf.Ln(pdfLineHeight)
	}

	if cfg.ShowTree && res.treeOK {
		pdf.SetFont("Courier", "", pdfFontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, res.treeText, "", "L", false)
		pdf.Ln(pdfLineHeight)
	}

	for _, f := range res.files {
		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.SetTextColor(0, 0, 0)
		header := "File: " + f.RelPath
		if f.Language != "" {
			header += " (" + f.Language + ")"
		}
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, header, "", "L", false)
		if cfg.CountTokens {
			pdf.SetFont("Helvetica", "", pdfFontSize-1)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("Tokens: %d", f.TokenCount), "", "L", false)
		}
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		content, err := readFileContent(f.AbsPath)
		if err != nil {
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(200, 0, 0)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("[error reading file: %v]", err), "", "L", false)
		} else if err := writeHighlightedCode(pdf, style, string(content), f); err != nil {
			warnf("syntax highlighting failed for %s, writing plain text: %v", f.RelPath, err)
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, string(content), "", "L", false)
		}
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "Summary", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summary := fmt.Sprintf("Files matched: %d", len(res.files))
	if cfg.CountTokens {
		summary += fmt.Sprintf("\nTotal tokens: %d", res.totalTokens)
	}
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, summary, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving PDF to %s: %w", outputPath, err)
	}
	return nil
}

// writeHighlightedCode tokenizes the content with chroma and writes each
// token in the style's color and weight.
func writeHighlightedCode(pdf *gofpdf.Fpdf, style *chroma.Style, content string, f matchedFile) error {
	lexer := lexers.Get(f.Language)
	if lexer == nil {
		lexer = lexers.Match(f.RelPath)
	}
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)
		if entry.Colour.IsSet() {
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(pdfLineHeight, strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth)))
	}
	pdf.Ln(-1)
	return nil
}
