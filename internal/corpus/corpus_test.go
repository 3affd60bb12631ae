package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titlecluster/internal/domain"
	"titlecluster/internal/segmenter"
)

func texts(sentences []domain.Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

func TestSetKeepsFirstSeenOrder(t *testing.T) {
	set := NewSet()
	assert.True(t, set.Add("a b", []string{"a", "b"}))
	assert.True(t, set.Add("c d", []string{"c", "d"}))
	assert.False(t, set.Add("a  b", []string{"a", "b"}))
	assert.False(t, set.Add("...", nil))

	got := set.Sentences()
	require.Len(t, got, 2)
	assert.Equal(t, "a b", got[0].Text)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, 1, set.Duplicates)
	assert.Equal(t, 1, set.Skipped)
}

func TestReadDedupsAfterSegmentation(t *testing.T) {
	l := NewLoader(segmenter.NewWords(true), zerolog.Nop())
	set := NewSet()
	in := "\ufeffGo is fun\n\n  go IS fun! \nRust is fast\n?!\nGo is fun\n"
	require.NoError(t, l.Read(strings.NewReader(in), "mem", set))

	assert.Equal(t, []string{"Go is fun", "Rust is fast"}, texts(set.Sentences()))
	assert.Equal(t, 2, set.Duplicates)
	assert.Equal(t, 1, set.Skipped)
}

func TestLoadFilesAndGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a b\na b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("c d\na b\n"), 0o644))

	l := NewLoader(segmenter.NewWhitespace(false), zerolog.Nop())
	got, err := l.Load([]string{filepath.Join(dir, "*.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "c d"}, texts(got))
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader(segmenter.NewWhitespace(false), zerolog.Nop())
	_, err := l.Load([]string{filepath.Join(t.TempDir(), "titles.txt")})
	var mr *domain.MissingResourceError
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, "sentence source", mr.Resource)
}

func TestLoadBadPattern(t *testing.T) {
	l := NewLoader(segmenter.NewWhitespace(false), zerolog.Nop())
	_, err := l.Load([]string{filepath.Join(t.TempDir(), "titles[.txt")})
	require.ErrorIs(t, err, filepath.ErrBadPattern)
	assert.NotErrorIs(t, err, domain.ErrMissingResource)
}

func TestLoadEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  \n"), 0o644))
	l := NewLoader(segmenter.NewWhitespace(false), zerolog.Nop())
	_, err := l.Load([]string{path})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}
