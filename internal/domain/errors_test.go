package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"empty input", &EmptyInputError{What: "sentence 3"}, ErrEmptyInput},
		{"dimension", &DimensionMismatchError{Token: "x", Want: 3, Got: 2}, ErrDimensionMismatch},
		{"cluster count", &InvalidClusterCountError{K: 0, N: 4}, ErrInvalidClusterCount},
		{"missing resource", &MissingResourceError{Resource: "model", Path: "m.txt"}, ErrMissingResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("run: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestMissingResourceUnwrap(t *testing.T) {
	err := &MissingResourceError{Resource: "sentence source", Path: "titles.txt", Err: os.ErrNotExist}
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "titles.txt")

	var target *MissingResourceError
	require.True(t, errors.As(fmt.Errorf("load: %w", err), &target))
	assert.Equal(t, "sentence source", target.Resource)
}

func TestDimensionMismatchMessage(t *testing.T) {
	assert.Equal(t, "dimension mismatch: want 3, got 2", (&DimensionMismatchError{Want: 3, Got: 2}).Error())
	assert.Contains(t, (&DimensionMismatchError{Token: "cat", Want: 3, Got: 2}).Error(), `"cat"`)
}

func TestSentenceKey(t *testing.T) {
	s := Sentence{Text: "a  b", Tokens: []string{"a", "b"}}
	assert.Equal(t, "a b", s.Key())
}

func TestRunResultCluster(t *testing.T) {
	r := &RunResult{Clusters: []Cluster{{ID: 0}, {ID: 2, Members: []int{1}}}}
	c, ok := r.Cluster(2)
	require.True(t, ok)
	assert.Equal(t, []int{1}, c.Members)
	_, ok = r.Cluster(5)
	assert.False(t, ok)
}
