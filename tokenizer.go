package main

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const defaultTokenModel = "gpt-4o"

// tokenCounter wraps a tiktoken encoding for per-file token counts. Counts
// are derived from file bytes only, so enabling them does not affect output
// determinism.
type tokenCounter struct {
	enc *tiktoken.Tiktoken
}

func newTokenCounter(model string) (*tokenCounter, error) {
	if model == "" {
		model = defaultTokenModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		warnf("tokenizer model %q not found, falling back to %q: %v", model, defaultTokenModel, err)
		enc, err = tiktoken.EncodingForModel(defaultTokenModel)
		if err != nil {
			return nil, fmt.Errorf("loading tiktoken encoding for %q: %w", defaultTokenModel, err)
		}
	}
	return &tokenCounter{enc: enc}, nil
}

func (t *tokenCounter) Count(text string) int {
	if t == nil || t.enc == nil {
		return 0
	}
	return len(t.enc.EncodeOrdinary(text))
}
