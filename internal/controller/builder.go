package controller

import (
	"github.com/lotabout/skim/internal/ansi"
	"github.com/lotabout/skim/internal/config"
	"github.com/lotabout/skim/internal/fields"
	"github.com/lotabout/skim/internal/item"
)

// NewEntryBuilder returns the item.Builder a Store ingests records
// through, applying --with-nth projection and --ansi color extraction the
// same way core.go's Run wires its two chunkList builder closures
// (with/without --with-nth), collapsed into one closure parameterized by
// Config instead of duplicated per branch.
func NewEntryBuilder(cfg *config.Config) item.Builder {
	return func(data []byte, index int) *item.Entry {
		text := data
		var output []byte
		if len(cfg.WithNth) > 0 {
			tokens := fields.Tokenize(string(data), cfg.Delimiter)
			projected := fields.Transform(tokens, cfg.WithNth)
			whole := joinTokenText(projected)
			output = data
			text = []byte(whole)
		}

		var colors []ansi.Segment
		if cfg.Ansi {
			trimmed, segments, _ := ansi.Extract(string(text), nil, nil)
			text = []byte(trimmed)
			colors = segments
		}

		return &item.Entry{
			Text:   text,
			Output: output,
			Colors: colors,
			Index:  uint32(index),
		}
	}
}

func joinTokenText(tokens []fields.Token) string {
	out := ""
	for _, t := range tokens {
		out += t.Text.ToString()
	}
	return out
}
