package embedding

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titlecluster/internal/config"
	"titlecluster/internal/domain"
)

const sampleText = `3 2
北京 1 0
上海 0.5 0.5
下雨 0 2
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTextWithHeader(t *testing.T) {
	tbl, err := LoadText(strings.NewReader(sampleText))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Dimension())
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"北京", "上海", "下雨"}, tbl.Tokens())

	vec, found, err := tbl.Lookup("上海")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []float64{0.5, 0.5}, vec)

	_, found, err = tbl.Lookup("广州")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadTextWithoutHeader(t *testing.T) {
	tbl, err := LoadText(strings.NewReader("the 0.1 0.2 0.3\n\ncat 1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Dimension())
	assert.Equal(t, 2, tbl.Len())
}

func TestLoadTextIntegerFirstRowIsData(t *testing.T) {
	tbl, err := LoadText(strings.NewReader("7 3\n8 4\nnine 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Dimension())
	assert.Equal(t, []string{"7", "8", "nine"}, tbl.Tokens())
	vec, found, err := tbl.Lookup("7")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []float64{3}, vec)

	tbl, err = LoadText(strings.NewReader("2 1\n7 3\n8 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "8"}, tbl.Tokens())
}

func TestLoadTextDimensionMismatch(t *testing.T) {
	_, err := LoadText(strings.NewReader("a 1 2\nb 1 2 3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadTextErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad float", "a 1 x\n"},
		{"token only", "a\n"},
		{"empty", "\n\n"},
		{"header only", "0 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadText(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestLoadTextFileMissing(t *testing.T) {
	_, err := LoadTextFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, domain.ErrMissingResource)
}

func TestTableRejectsWrongDimension(t *testing.T) {
	tbl, err := NewTable(2)
	require.NoError(t, err)
	require.NoError(t, tbl.Add("a", []float64{1, 2}))
	require.NoError(t, tbl.Add("a", []float64{9, 9}))
	vec, _, _ := tbl.Lookup("a")
	assert.Equal(t, []float64{1, 2}, vec)
	assert.ErrorIs(t, tbl.Add("b", []float64{1}), domain.ErrDimensionMismatch)

	_, err = NewTable(0)
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	src, err := LoadText(strings.NewReader(sampleText))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, src))

	got, err := LoadBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Tokens(), got.Tokens())
	for _, token := range src.Tokens() {
		want, _, _ := src.Lookup(token)
		vec, found, err := got.Lookup(token)
		require.NoError(t, err)
		require.True(t, found)
		assert.InDeltaSlice(t, want, vec, 1e-6)
	}
}

func TestLoadBinaryTruncated(t *testing.T) {
	_, err := LoadBinary(strings.NewReader("2 3\nabc \x00\x00"))
	assert.Error(t, err)
	_, err = LoadBinary(strings.NewReader("garbage\n"))
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	src, err := LoadText(strings.NewReader(sampleText))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.db")
	require.NoError(t, WriteSQLite(path, src))

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, 2, store.Dimension())
	vec, found, err := store.Lookup("下雨")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDeltaSlice(t, []float64{0, 2}, vec, 1e-6)

	_, found, err = store.Lookup("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriteSQLiteRejectsOtherDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	two, err := LoadText(strings.NewReader("a 1 2\n"))
	require.NoError(t, err)
	require.NoError(t, WriteSQLite(path, two))

	three, err := LoadText(strings.NewReader("b 1 2 3\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, WriteSQLite(path, three), domain.ErrDimensionMismatch)
}

func TestOpenSQLiteMissing(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "absent.db"))
	assert.ErrorIs(t, err, domain.ErrMissingResource)
}

func TestOpenSelectsBackend(t *testing.T) {
	textPath := writeFile(t, "model.txt", sampleText)
	m, err := Open(config.EmbeddingConfig{Type: "text", Path: textPath})
	require.NoError(t, err)
	assert.Equal(t, "table", m.Name())
	assert.Equal(t, 2, m.Dimension())
	require.NoError(t, m.Close())

	binPath := filepath.Join(t.TempDir(), "model.bin")
	f, err := os.Create(binPath)
	require.NoError(t, err)
	require.NoError(t, WriteBinary(f, m.(*Table)))
	require.NoError(t, f.Close())
	m, err = Open(config.EmbeddingConfig{Type: "word2vec-bin", Path: binPath})
	require.NoError(t, err)
	assert.Equal(t, 3, m.(*Table).Len())

	_, err = Open(config.EmbeddingConfig{Type: "fasttext", Path: textPath})
	assert.Error(t, err)
}
