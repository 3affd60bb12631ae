package segmenter

import (
	"fmt"
	"strings"

	"github.com/go-ego/gse"
)

// GSE segments Chinese text with the gse dictionary segmenter (HMM enabled
// for unknown words). Whitespace tokens are dropped.
type GSE struct {
	lowercase bool
	seg       gse.Segmenter
}

// NewGSE loads the embedded default dictionary, which takes a moment.
func NewGSE(lowercase bool) (*GSE, error) {
	seg, err := gse.New()
	if err != nil {
		return nil, fmt.Errorf("load gse dictionary: %w", err)
	}
	return &GSE{lowercase: lowercase, seg: seg}, nil
}

func (s *GSE) Name() string { return "gse" }

func (s *GSE) Segment(text string) []string {
	if s.lowercase {
		text = strings.ToLower(text)
	}
	raw := s.seg.Cut(text, true)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}
