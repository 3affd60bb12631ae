package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"titlecluster/internal/domain"
	"titlecluster/internal/report"
	"titlecluster/internal/vectorstore"
)

// NearestPort is the TUI-facing subset of the cluster service.
type NearestPort interface {
	Nearest(clusterID, topK int) ([]vectorstore.Neighbor, error)
}

// Model browses the ranked clusters of one run.
type Model struct {
	service    NearestPort
	result     *domain.RunResult
	sampleSize int
	input      textinput.Model
	viewport   viewport.Model
	visible    []int // indexes into result.Ranked
	filter     string
	status     string
	cursor     int
	ready      bool
}

// New creates a browser over res. sampleSize bounds the members shown per
// cluster; values below 1 fall back to report.DefaultSampleSize.
func New(service NearestPort, res *domain.RunResult, sampleSize int) Model {
	if sampleSize <= 0 {
		sampleSize = report.DefaultSampleSize
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Filter clusters by text and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		service:    service,
		result:     res,
		sampleSize: sampleSize,
		input:      ti,
		viewport:   vp,
		status:     "↑/↓ to browse, Enter to filter, Ctrl+C to quit.",
	}
	m.visible = m.match("")
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := clusterBoxStyle.GetFrameSize()
		_, fh := filterBoxStyle.GetFrameSize()
		reserved := 2 + 1 + fh + 1 // header, summary, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-bh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m.filter = strings.TrimSpace(m.input.Value())
			m.visible = m.match(m.filter)
			m.cursor = 0
			if m.filter == "" {
				m.status = fmt.Sprintf("%d clusters", len(m.visible))
			} else {
				m.status = fmt.Sprintf("%d clusters match %q", len(m.visible), m.filter)
			}
			m.viewport.SetContent(m.renderCurrent())
			return m, nil
		case "down":
			if len(m.visible) > 0 {
				m.cursor = (m.cursor + 1) % len(m.visible)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.visible) > 0 {
				m.cursor = (m.cursor - 1 + len(m.visible)) % len(m.visible)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Title Clusters")
	summary := mutedStyle.Render(fmt.Sprintf("%d sentences, %d clusters, %d iterations, seed %d",
		len(m.result.Sentences), len(m.result.Clusters), m.result.Iterations, m.result.Seed))
	body := clusterBoxStyle.Render(m.viewport.View())
	input := filterBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

// match returns the ranked positions whose members contain needle.
func (m Model) match(needle string) []int {
	needle = strings.ToLower(needle)
	out := make([]int, 0, len(m.result.Ranked))
	for i, r := range m.result.Ranked {
		if needle == "" || m.contains(r.Members, needle) {
			out = append(out, i)
		}
	}
	return out
}

func (m Model) contains(members []int, needle string) bool {
	for _, idx := range members {
		if strings.Contains(strings.ToLower(m.result.Sentences[idx].Text), needle) {
			return true
		}
	}
	return false
}

func (m Model) renderCurrent() string {
	if len(m.visible) == 0 {
		return "No clusters."
	}
	rank := m.visible[m.cursor]
	r := m.result.Ranked[rank]

	var b strings.Builder
	fmt.Fprintf(&b, "Cluster %d (rank %d/%d)  mean distance=%.4f  size=%d\n",
		r.ClusterID, rank+1, len(m.result.Ranked), r.MeanDistance, len(r.Members))
	if kw := m.result.Keywords[r.ClusterID]; len(kw) > 0 {
		b.WriteString(keywordStyle.Render(strings.Join(kw, " · ")))
		b.WriteString("\n")
	}
	b.WriteString("\nSentences in cluster:\n")
	n := min(m.sampleSize, len(r.Members))
	for _, idx := range r.Members[:n] {
		b.WriteString(" " + m.highlight(m.result.Sentences[idx].Text) + "\n")
	}
	if rest := len(r.Members) - n; rest > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" … %d more", rest)) + "\n")
	}

	nearest, err := m.service.Nearest(r.ClusterID, 3)
	switch {
	case err != nil:
		b.WriteString("\nNearest to centroid: " + err.Error() + "\n")
	case len(nearest) > 0:
		b.WriteString("\nNearest to centroid:\n")
		for _, nb := range nearest {
			fmt.Fprintf(&b, " %.4f  %s\n", nb.Distance, m.highlight(nb.Sentence.Text))
		}
	}
	return b.String()
}

func (m Model) highlight(text string) string {
	if m.filter == "" {
		return text
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(m.filter)
	i := strings.Index(lower, needle)
	if i < 0 || len(lower) != len(text) {
		return text
	}
	j := i + len(needle)
	return text[:i] + highlightStyle.Render(text[i:j]) + text[j:]
}

var (
	clusterBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	filterBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	keywordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
