package embedding

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"titlecluster/internal/domain"
)

const maxLineBytes = 16 << 20

// LoadTextFile reads a word2vec or GloVe text model from path.
func LoadTextFile(path string) (*Table, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tbl, err := LoadText(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tbl, nil
}

// LoadText parses "token v1 v2 ... vD" lines. A leading "count dim" header
// line (word2vec) is optional; without it D is taken from the first row. Two
// integers on line 1 count as a header only when the next row has dim values,
// so a one-dimensional model with integer tokens still loads.
func LoadText(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var (
		tbl       *Table
		header    []string
		headerDim int
	)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 {
			if dim, ok := parseHeader(fields); ok {
				header, headerDim = fields, dim
				continue
			}
		}
		if tbl == nil {
			dim := len(fields) - 1
			if header != nil && dim != headerDim {
				// Line 1 was a data row after all.
				dim = len(header) - 1
			} else {
				header = nil
			}
			if dim < 1 {
				return nil, fmt.Errorf("line %d: expected token and vector values", lineNo)
			}
			t, err := NewTable(dim)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			tbl = t
			if header != nil {
				if err := addRow(tbl, header, 1); err != nil {
					return nil, err
				}
			}
		}
		if err := addRow(tbl, fields, lineNo); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if tbl == nil || tbl.Len() == 0 {
		return nil, &domain.EmptyInputError{What: "embedding model has no vectors"}
	}
	return tbl, nil
}

func addRow(tbl *Table, fields []string, lineNo int) error {
	if len(fields) < 2 {
		return fmt.Errorf("line %d: expected token and vector values", lineNo)
	}
	token := fields[0]
	if len(fields)-1 != tbl.Dimension() {
		return fmt.Errorf("line %d: %w", lineNo, &domain.DimensionMismatchError{Token: token, Want: tbl.Dimension(), Got: len(fields) - 1})
	}
	vec := make([]float64, len(fields)-1)
	for i, raw := range fields[1:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("line %d: value %d: %w", lineNo, i+1, err)
		}
		vec[i] = v
	}
	if err := tbl.Add(token, vec); err != nil {
		return fmt.Errorf("line %d: %w", lineNo, err)
	}
	return nil
}

func parseHeader(fields []string) (int, bool) {
	if len(fields) != 2 {
		return 0, false
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return 0, false
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return dim, true
}
