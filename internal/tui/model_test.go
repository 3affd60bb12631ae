package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titlecluster/internal/domain"
	"titlecluster/internal/vectorstore"
)

type fakeNearest struct {
	err error
}

func (f fakeNearest) Nearest(clusterID, topK int) ([]vectorstore.Neighbor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []vectorstore.Neighbor{{Sentence: domain.Sentence{Text: "centre title"}, Distance: 0.5}}, nil
}

func fixture() *domain.RunResult {
	return &domain.RunResult{
		Sentences: []domain.Sentence{
			{Index: 0, Text: "Stock market rally"},
			{Index: 1, Text: "Market prices fall"},
			{Index: 2, Text: "Team wins match"},
		},
		Clusters: []domain.Cluster{{ID: 0}, {ID: 1}},
		Ranked: []domain.ClusterReport{
			{ClusterID: 1, MeanDistance: 0.25, Members: []int{2}},
			{ClusterID: 0, MeanDistance: 0.75, Members: []int{0, 1}},
		},
		Keywords: map[int][]string{0: {"market"}},
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return next.(Model)
}

func TestViewBeforeSize(t *testing.T) {
	m := New(fakeNearest{}, fixture(), 10)
	assert.Equal(t, "Loading...", m.View())
}

func TestBrowseRankedClusters(t *testing.T) {
	m := sized(t, New(fakeNearest{}, fixture(), 10))
	assert.Contains(t, m.renderCurrent(), "Cluster 1 (rank 1/2)")
	assert.Contains(t, m.renderCurrent(), "centre title")
	assert.Contains(t, m.View(), "Title Clusters")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	out := m.renderCurrent()
	assert.Contains(t, out, "Cluster 0 (rank 2/2)")
	assert.Contains(t, out, "market")
	assert.Contains(t, out, " Stock market rally")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, next.(Model).cursor)
}

func TestFilter(t *testing.T) {
	m := sized(t, New(fakeNearest{}, fixture(), 10))
	m.input.SetValue("match")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Equal(t, []int{0}, m.visible)
	assert.Contains(t, m.status, "1 clusters match")

	m.input.SetValue("nothing here")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Empty(t, m.visible)
	assert.Equal(t, "No clusters.", m.renderCurrent())
}

func TestSampleLimitAndNearestError(t *testing.T) {
	m := sized(t, New(fakeNearest{err: errors.New("boom")}, fixture(), 1))
	m.cursor = 1
	out := m.renderCurrent()
	assert.Contains(t, out, "1 more")
	assert.Contains(t, out, "Nearest to centroid: boom")
}

func TestQuitKeys(t *testing.T) {
	m := New(fakeNearest{}, fixture(), 10)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNonPositiveSampleSizeUsesDefault(t *testing.T) {
	for _, size := range []int{0, -1} {
		m := sized(t, New(fakeNearest{}, fixture(), size))
		m.cursor = 1
		out := m.renderCurrent()
		assert.Contains(t, out, " Stock market rally")
		assert.Contains(t, out, " Market prices fall")
		assert.NotContains(t, out, "more")
	}
}
