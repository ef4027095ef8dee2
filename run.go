package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// runConcat executes the full pipeline under a resolved Config: purge,
// discovery, filter chain, optional tree, serialization, final write.
func runConcat(cfg *Config, tr treeRenderer) error {
	outDir := filepath.Dir(cfg.OutputPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	removeStaleOutputs(cfg)

	if cfg.PurgeCaches {
		purgeCaches(cfg)
	}

	// Tokenizer init happens before discovery so a load failure can disable
	// counting while the config is still mutable.
	var counter *tokenCounter
	if cfg.CountTokens {
		tc, err := newTokenCounter(cfg.TokenModel)
		if err != nil {
			warnf("token counting disabled: %v", err)
			cfg.CountTokens = false
		} else {
			counter = tc
		}
	}

	candidates := discover(cfg)
	verbosef("Discovered %d candidate files", len(candidates))

	matched, skipped := newFilterChain(cfg).Apply(candidates)
	verbosef("Matched %d files (%d skipped)", len(matched), len(skipped))

	if counter != nil {
		countTokens(counter, matched)
	}

	res := buildRunResult(cfg, matched, tr)

	if cfg.PDFPath != "" {
		if err := generatePDF(res, cfg.PDFPath); err != nil {
			return err
		}
		verbosef("PDF saved to %s", cfg.PDFPath)
	}

	if cfg.ToClipboard {
		var buf bytes.Buffer
		if err := serialize(res, &buf); err != nil {
			return err
		}
		if err := clipboard.WriteAll(buf.String()); err != nil {
			warnf("clipboard unavailable, writing file instead: %v", err)
			return writeDocument(cfg, res)
		}
		verbosef("Output copied to clipboard")
		return nil
	}

	if err := writeDocument(cfg, res); err != nil {
		return err
	}
	verbosef("Output written to %s", cfg.OutputPath)
	return nil
}

// writeDocument serializes into a temporary file in the output directory
// and renames it over the target, so a failed run never leaves a truncated
// document behind.
func writeDocument(cfg *Config, res *runResult) error {
	dir := filepath.Dir(cfg.OutputPath)
	tmp, err := os.CreateTemp(dir, ".concat-*")
	if err != nil {
		return fmt.Errorf("creating temporary output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := serialize(res, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalizing output: %w", err)
	}
	if err := os.Rename(tmpName, cfg.OutputPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalizing output %s: %w", cfg.OutputPath, err)
	}
	return nil
}

// removeStaleOutputs clears a pre-existing document at the output path and,
// when the name was derived, the default-named file of the other format so
// a format switch does not leave duplicates.
func removeStaleOutputs(cfg *Config) {
	if err := os.Remove(cfg.OutputPath); err != nil && !os.IsNotExist(err) {
		warnf("could not remove previous output %s: %v", cfg.OutputPath, err)
	}
	if !cfg.defaultName {
		return
	}
	other := FormatText
	if cfg.Format == FormatText {
		other = FormatXML
	}
	stale := filepath.Join(filepath.Dir(cfg.OutputPath), cfg.defaultOutputName(other))
	if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
		warnf("could not remove stale output %s: %v", stale, err)
	}
}

// countTokens fills in per-file token counts, reading one file at a time.
func countTokens(counter *tokenCounter, files []matchedFile) {
	for i := range files {
		content, err := readFileContent(files[i].AbsPath)
		if err != nil {
			warnf("token count skipped: %v", err)
			continue
		}
		files[i].TokenCount = counter.Count(string(content))
	}
}
