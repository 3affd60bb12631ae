// Package corpus reads title lines, segments them and collapses duplicates
// while keeping first-seen order.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"titlecluster/internal/domain"
)

const maxLineBytes = 1 << 20

// Set is an insertion-ordered set of sentences keyed by segmented form.
type Set struct {
	sentences  []domain.Sentence
	index      map[string]int
	Duplicates int
	Skipped    int
}

func NewSet() *Set { return &Set{index: make(map[string]int)} }

// Add records a sentence unless its segmented form was seen before or it has
// no tokens. It reports whether the sentence was added.
func (s *Set) Add(text string, tokens []string) bool {
	if len(tokens) == 0 {
		s.Skipped++
		return false
	}
	sent := domain.Sentence{Index: len(s.sentences), Text: text, Tokens: tokens}
	key := sent.Key()
	if _, ok := s.index[key]; ok {
		s.Duplicates++
		return false
	}
	s.index[key] = sent.Index
	s.sentences = append(s.sentences, sent)
	return true
}

func (s *Set) Len() int { return len(s.sentences) }

func (s *Set) Sentences() []domain.Sentence { return s.sentences }

// Loader turns sentence files into an ordered, deduplicated sentence list.
type Loader struct {
	segmenter domain.Segmenter
	logger    zerolog.Logger
}

func NewLoader(segmenter domain.Segmenter, logger zerolog.Logger) *Loader {
	return &Loader{segmenter: segmenter, logger: logger}
}

// Load reads every path in order. Glob patterns are expanded; a path that
// matches nothing is read literally so the caller gets a missing-file error.
func (l *Loader) Load(paths []string) ([]domain.Sentence, error) {
	set := NewSet()
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("input pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if err := l.loadFile(m, set); err != nil {
				return nil, err
			}
		}
	}
	l.logger.Info().
		Int("sentences", set.Len()).
		Int("duplicates", set.Duplicates).
		Int("skipped", set.Skipped).
		Msg("sentences loaded")
	if set.Len() == 0 {
		return nil, &domain.EmptyInputError{What: "no sentences in input"}
	}
	return set.Sentences(), nil
}

func (l *Loader) loadFile(path string, set *Set) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.MissingResourceError{Resource: "sentence source", Path: path, Err: err}
	}
	defer f.Close()
	if err := l.Read(f, path, set); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// Read adds every non-blank line of r to set. name is only used for logging.
func (l *Loader) Read(r io.Reader, name string, set *Set) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		tokens := l.segmenter.Segment(line)
		if len(tokens) == 0 {
			l.logger.Warn().Str("source", name).Int("line", lineNo).Msg("line has no tokens, skipped")
		}
		set.Add(line, tokens)
	}
	return sc.Err()
}
