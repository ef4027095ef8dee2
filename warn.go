package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Console diagnostics are cosmetic: nothing downstream depends on them.
var (
	verboseEnabled bool
	debugEnabled   bool

	warnColor  = color.New(color.FgYellow)
	debugColor = color.New(color.Faint)
)

func warnf(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func verbosef(format string, args ...any) {
	if verboseEnabled || debugEnabled {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func debugf(format string, args ...any) {
	if debugEnabled {
		debugColor.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}
