package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"assessrec/internal/domain"
	"assessrec/internal/port"
)

const topK = 10

// Model is the Bubble Tea model for browsing recommendations.
type Model struct {
	rec      port.Recommender
	query    textinput.Model
	skills   textinput.Model
	viewport viewport.Model
	results  []domain.Recommendation
	summary  string
	status   string
	cursor   int
	ready    bool
}

// New creates a model over rec. summary is shown under the header.
func New(rec port.Recommender, summary string) Model {
	q := textinput.New()
	q.Prompt = "query> "
	q.Placeholder = "Describe the role and press Enter"
	q.Focus()

	s := textinput.New()
	s.Prompt = "skills> "
	s.Placeholder = "java, sql (optional, Tab to switch)"

	return Model{
		rec:      rec,
		query:    q,
		skills:   s,
		viewport: viewport.New(0, 0),
		summary:  summary,
		status:   "Type a job description to search.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + 2*qh + 2 + len(m.results)
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.query.Focused() {
				m.query.Blur()
				return m, m.skills.Focus()
			}
			m.skills.Blur()
			return m, m.query.Focus()
		case "enter":
			m.search()
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.query.Focused() {
		m.query, cmd = m.query.Update(msg)
	} else {
		m.skills, cmd = m.skills.Update(msg)
	}
	return m, cmd
}

func (m *Model) search() {
	q := strings.TrimSpace(m.query.Value())
	s := strings.TrimSpace(m.skills.Value())
	if q == "" && s == "" {
		return
	}
	res, err := m.rec.Recommend(context.Background(), domain.SearchRequest{Query: q, Skills: s, TopK: topK})
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d results for %q", len(res), q)
		m.results = res
	}
	m.cursor = 0
	m.viewport.SetContent(m.renderCurrent())
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Assessment Recommender")
	summary := dimStyle.Render(m.summary)
	inputs := inputBoxStyle.Render(m.query.View()) + "\n" + inputBoxStyle.Render(m.skills.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + m.renderList() + resultBoxStyle.Render(m.viewport.View()) + "\n" + inputs + "\n" + status
}

func (m Model) renderList() string {
	if len(m.results) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range m.results {
		line := fmt.Sprintf("%2d. %-50s %.3f", r.Rank, truncate(r.Entry.Name, 50), r.Score)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderCurrent() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	hit := r.Hit()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", selectedStyle.Render(hit.Name))
	fmt.Fprintf(&b, "score=%.3f  %s\n", hit.Score, dimStyle.Render(hit.URL))
	if r.Entry.Category != "" || r.Entry.Duration != "" {
		fmt.Fprintf(&b, "%s  %s\n", r.Entry.Category, r.Entry.Duration)
	}
	b.WriteString("\n" + hit.Description)
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
