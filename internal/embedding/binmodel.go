package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// LoadBinaryFile reads a word2vec binary model from path.
func LoadBinaryFile(path string) (*Table, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tbl, err := LoadBinary(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tbl, nil
}

// LoadBinary parses the word2vec binary layout: a "count dim\n" header, then
// per entry the token terminated by a space followed by dim little-endian
// float32 values and an optional newline.
func LoadBinary(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var count, dim int
	if _, err := fmt.Sscanf(strings.TrimSpace(header), "%d %d", &count, &dim); err != nil {
		return nil, fmt.Errorf("parse header %q: %w", strings.TrimSpace(header), err)
	}
	if count <= 0 {
		return nil, fmt.Errorf("header declares %d vectors", count)
	}
	tbl, err := NewTable(dim)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, dim*4)
	for i := 0; i < count; i++ {
		token, err := br.ReadString(' ')
		if err != nil {
			return nil, fmt.Errorf("entry %d: read token: %w", i, err)
		}
		token = strings.TrimLeft(strings.TrimSuffix(token, " "), "\n")
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("entry %d (%q): read vector: %w", i, token, err)
		}
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:])))
		}
		if err := tbl.Add(token, vec); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return tbl, nil
}

// WriteBinary writes tbl in the word2vec binary layout.
func WriteBinary(w io.Writer, tbl *Table) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", tbl.Len(), tbl.Dimension()); err != nil {
		return err
	}
	raw := make([]byte, tbl.Dimension()*4)
	for _, token := range tbl.Tokens() {
		vec, _, _ := tbl.Lookup(token)
		for j, v := range vec {
			binary.LittleEndian.PutUint32(raw[j*4:], math.Float32bits(float32(v)))
		}
		if _, err := bw.WriteString(token + " "); err != nil {
			return err
		}
		if _, err := bw.Write(raw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
