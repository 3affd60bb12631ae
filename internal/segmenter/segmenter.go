// Package segmenter provides the tokenizers that turn raw title lines into
// token sequences for embedding lookup.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"titlecluster/internal/config"
	"titlecluster/internal/domain"
)

// New builds the segmenter selected by cfg.Type.
func New(cfg config.SegmenterConfig) (domain.Segmenter, error) {
	switch cfg.Type {
	case "whitespace", "":
		return NewWhitespace(cfg.Lowercase), nil
	case "words":
		return NewWords(cfg.Lowercase), nil
	case "gse":
		return NewGSE(cfg.Lowercase)
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", cfg.Type)
	}
}

// Whitespace treats the input as already segmented and splits on runs of spaces.
type Whitespace struct {
	lowercase bool
}

func NewWhitespace(lowercase bool) *Whitespace { return &Whitespace{lowercase: lowercase} }

func (s *Whitespace) Name() string { return "whitespace" }

func (s *Whitespace) Segment(text string) []string {
	if s.lowercase {
		text = strings.ToLower(text)
	}
	return strings.Fields(text)
}

// Words extracts Unicode letter runs (with inner apostrophes) and digit runs.
// Punctuation is dropped.
type Words struct {
	lowercase    bool
	tokenPattern *regexp.Regexp
}

func NewWords(lowercase bool) *Words {
	return &Words{
		lowercase:    lowercase,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
	}
}

func (s *Words) Name() string { return "words" }

func (s *Words) Segment(text string) []string {
	if s.lowercase {
		text = strings.ToLower(text)
	}
	return s.tokenPattern.FindAllString(text, -1)
}
