package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"assessrec/internal/domain"
)

type stubRecommender struct {
	err  error
	reqs []domain.SearchRequest
}

func (s *stubRecommender) Ready() bool { return true }

func (s *stubRecommender) Search(context.Context, string, int) ([]domain.SearchHit, error) {
	return nil, nil
}

func (s *stubRecommender) Recommend(_ context.Context, req domain.SearchRequest) ([]domain.Recommendation, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Recommendation{
		{Rank: 1, Score: 0.8, Entry: domain.CatalogueEntry{ID: "a", Name: "Java Developer Test", URL: "https://example.com/a", Description: "Java and Spring"}},
		{Rank: 2, Score: 0.3, Entry: domain.CatalogueEntry{ID: "b", Name: "Leadership Simulation", Description: "Team scenarios"}},
	}, nil
}

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(m tea.Model, t tea.KeyType) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: t})
	return m
}

func TestModel_SearchAndBrowse(t *testing.T) {
	stub := &stubRecommender{}
	var m tea.Model = New(stub, "3 assessments")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m = typeText(m, "java dev")
	m = key(m, tea.KeyTab)
	m = typeText(m, "java")
	m = key(m, tea.KeyEnter)

	if len(stub.reqs) != 1 {
		t.Fatalf("expected 1 search, got %d", len(stub.reqs))
	}
	if got := stub.reqs[0]; got.Query != "java dev" || got.Skills != "java" || got.TopK != 10 {
		t.Errorf("unexpected request %+v", got)
	}

	view := m.View()
	if !strings.Contains(view, "Java Developer Test") || !strings.Contains(view, "https://example.com/a") {
		t.Errorf("view should show first result:\n%s", view)
	}

	m = key(m, tea.KeyDown)
	if got := m.(Model).cursor; got != 1 {
		t.Errorf("expected cursor 1, got %d", got)
	}
	m = key(m, tea.KeyDown)
	if got := m.(Model).cursor; got != 0 {
		t.Errorf("expected cursor to wrap to 0, got %d", got)
	}
	m = key(m, tea.KeyUp)
	if got := m.(Model).cursor; got != 1 {
		t.Errorf("expected cursor to wrap to 1, got %d", got)
	}
}

func TestModel_EmptyInputDoesNotSearch(t *testing.T) {
	stub := &stubRecommender{}
	var m tea.Model = New(stub, "")
	m = key(m, tea.KeyEnter)
	if len(stub.reqs) != 0 {
		t.Errorf("expected no search for empty input, got %d", len(stub.reqs))
	}
}

func TestModel_ErrorStatus(t *testing.T) {
	stub := &stubRecommender{err: errors.New("not ready")}
	var m tea.Model = New(stub, "")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = typeText(m, "sales")
	m = key(m, tea.KeyEnter)

	if !strings.Contains(m.View(), "Error: not ready") {
		t.Errorf("expected error in status line:\n%s", m.View())
	}
}

func TestModel_Quit(t *testing.T) {
	m := New(&stubRecommender{}, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
