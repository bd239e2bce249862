package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klauern/skillreg/internal/model"
)

// stubSource records which content tiers the browser asked for.
type stubSource struct {
	bodyCalls []string
	refCalls  []string
}

func (s *stubSource) Body(id string) (string, error) {
	s.bodyCalls = append(s.bodyCalls, id)
	return "body of " + id, nil
}

func (s *stubSource) Reference(id, relPath string) (string, error) {
	s.refCalls = append(s.refCalls, id+":"+relPath)
	return "reference " + relPath, nil
}

// errSource fails every content request.
type errSource struct{}

func (errSource) Body(string) (string, error) {
	return "", fmt.Errorf("read failed")
}

func (errSource) Reference(string, string) (string, error) {
	return "", fmt.Errorf("read failed")
}

func testSkills() []model.SkillDefinition {
	return []model.SkillDefinition{
		{ID: "git-workflow", Name: "Git Workflow", Description: "Branching conventions"},
		{
			ID:          "api-design",
			Name:        "API Design",
			Description: "REST guidelines",
			References:  []string{"references/errors.md", "references/paging.md"},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestBrowseListShowsOnlyMetadata(t *testing.T) {
	source := &stubSource{}
	m := NewBrowseModel(testSkills(), source)

	view := m.View()
	if !strings.Contains(view, "git-workflow") {
		t.Errorf("list view missing skill id: %q", view)
	}

	if len(source.bodyCalls) != 0 || len(source.refCalls) != 0 {
		t.Errorf("list phase read content: bodies=%v refs=%v", source.bodyCalls, source.refCalls)
	}
}

func TestBrowseOpenLoadsBody(t *testing.T) {
	source := &stubSource{}
	var m tea.Model = NewBrowseModel(testSkills(), source)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(keyMsg("enter"))

	if len(source.bodyCalls) != 1 || source.bodyCalls[0] != "git-workflow" {
		t.Errorf("bodyCalls = %v, want [git-workflow]", source.bodyCalls)
	}
	if len(source.refCalls) != 0 {
		t.Errorf("refCalls = %v, want none", source.refCalls)
	}

	view := m.View()
	if !strings.Contains(view, "body of git-workflow") {
		t.Errorf("detail view missing body: %q", view)
	}
}

func TestBrowseTabCyclesReferences(t *testing.T) {
	source := &stubSource{}
	var m tea.Model = NewBrowseModel(testSkills(), source)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("enter"))

	if len(source.bodyCalls) != 1 || source.bodyCalls[0] != "api-design" {
		t.Fatalf("bodyCalls = %v, want [api-design]", source.bodyCalls)
	}

	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg("tab"))

	want := []string{
		"api-design:references/errors.md",
		"api-design:references/paging.md",
	}
	if len(source.refCalls) != len(want) {
		t.Fatalf("refCalls = %v, want %v", source.refCalls, want)
	}
	for i, ref := range want {
		if source.refCalls[i] != ref {
			t.Errorf("refCalls[%d] = %q, want %q", i, source.refCalls[i], ref)
		}
	}

	// Cycling past the last reference returns to the body.
	m, _ = m.Update(keyMsg("tab"))
	if len(source.bodyCalls) != 2 {
		t.Errorf("bodyCalls = %v, want a second body load", source.bodyCalls)
	}
}

func TestBrowseTabWithoutReferences(t *testing.T) {
	source := &stubSource{}
	var m tea.Model = NewBrowseModel(testSkills(), source)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(keyMsg("enter"))
	m, _ = m.Update(keyMsg("tab"))

	if len(source.refCalls) != 0 {
		t.Errorf("refCalls = %v, want none for a skill without references", source.refCalls)
	}
}

func TestBrowseBackReturnsToList(t *testing.T) {
	source := &stubSource{}
	var m tea.Model = NewBrowseModel(testSkills(), source)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(keyMsg("enter"))
	m, _ = m.Update(keyMsg("esc"))

	view := m.View()
	if !strings.Contains(view, "Skills") {
		t.Errorf("expected list view after back, got %q", view)
	}
}

func TestBrowseQuit(t *testing.T) {
	source := &stubSource{}
	var m tea.Model = NewBrowseModel(testSkills(), source)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Error("quit command produced nil message")
	}
}

func TestBrowseLoadError(t *testing.T) {
	var m tea.Model = NewBrowseModel(testSkills(), errSource{})

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(keyMsg("enter"))

	view := m.View()
	if !strings.Contains(view, "read failed") {
		t.Errorf("detail view missing load error: %q", view)
	}
}
