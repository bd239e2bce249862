package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/skillreg/internal/model"
)

// ContentSource serves skill content tiers on demand. The browser only ever
// asks for a body or reference after the user opens that skill, so the
// progressive-disclosure ordering holds in interactive use too.
type ContentSource interface {
	Body(id string) (string, error)
	Reference(id, relPath string) (string, error)
}

// browseKeyMap defines the key bindings for the skill browser.
type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	NextRef key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "open"),
		),
		NextRef: key.NewBinding(
			key.WithKeys("tab", "n"),
			key.WithHelp("tab/n", "next reference"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type browsePhase int

const (
	browsePhaseList browsePhase = iota
	browsePhaseDetail
)

const (
	browseIDWidth   = 22
	browseNameWidth = 26
	browseDescWidth = 50
)

var titleCaser = cases.Title(language.English)

// BrowseModel is the BubbleTea model for the interactive skill browser.
// The list phase shows only the metadata tier; opening a skill pulls its
// body (and, on request, each reference) through the ContentSource.
type BrowseModel struct {
	source ContentSource
	skills []model.SkillDefinition
	keys   browseKeyMap

	table    table.Model
	viewport viewport.Model
	ready    bool

	phase    browsePhase
	detail   model.SkillDefinition
	refIndex int // -1 shows the body, otherwise an index into References
	loadErr  error

	width  int
	height int
}

// NewBrowseModel creates a browser over the given skill metadata.
func NewBrowseModel(skills []model.SkillDefinition, source ContentSource) BrowseModel {
	columns := []table.Column{
		{Title: "ID", Width: browseIDWidth},
		{Title: "Name", Width: browseNameWidth},
		{Title: "Description", Width: browseDescWidth},
	}

	rows := make([]table.Row, len(skills))
	for i, s := range skills {
		id := s.ID
		if s.AlwaysApply {
			id = "* " + id
		}
		rows[i] = table.Row{
			truncateCell(id, browseIDWidth),
			truncateCell(s.Name, browseNameWidth),
			truncateCell(s.Description, browseDescWidth),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BrowseModel{
		source:   source,
		skills:   skills,
		keys:     defaultBrowseKeyMap(),
		table:    t,
		phase:    browsePhaseList,
		refIndex: -1,
	}
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, max(msg.Height-8, 5))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = max(msg.Height-8, 5)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.phase == browsePhaseDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m BrowseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Open) {
		idx := m.table.Cursor()
		if idx >= 0 && idx < len(m.skills) {
			m.detail = m.skills[idx]
			m.refIndex = -1
			m.phase = browsePhaseDetail
			m.loadContent()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BrowseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.phase = browsePhaseList
		m.loadErr = nil
		return m, nil
	case key.Matches(msg, m.keys.NextRef):
		if len(m.detail.References) > 0 {
			m.refIndex++
			if m.refIndex >= len(m.detail.References) {
				m.refIndex = -1
			}
			m.loadContent()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// loadContent fills the viewport with the body or the selected reference.
// This is where the lazy tiers actually get read.
func (m *BrowseModel) loadContent() {
	var content string
	var err error

	if m.refIndex < 0 {
		content, err = m.source.Body(m.detail.ID)
	} else {
		content, err = m.source.Reference(m.detail.ID, m.detail.References[m.refIndex])
	}

	m.loadErr = err
	if err == nil && m.ready {
		m.viewport.SetContent(wrapText(content, m.viewport.Width))
		m.viewport.GotoTop()
	}
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	if m.phase == browsePhaseDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m BrowseModel) listView() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Skills"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(Styles.Help.Render("enter: open  ↑/↓: move  q: quit"))
	return b.String()
}

func (m BrowseModel) detailView() string {
	title := titleCaser.String(strings.ReplaceAll(m.detail.ID, "-", " "))
	tier := "body"
	if m.refIndex >= 0 {
		tier = m.detail.References[m.refIndex]
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("%s (%s)", title, tier)))
	b.WriteString("\n")

	if m.loadErr != nil {
		b.WriteString(Styles.ErrorMsg.Render(m.loadErr.Error()))
		b.WriteString("\n")
	} else if m.ready {
		b.WriteString(Styles.Detail.Render(m.viewport.View()))
		b.WriteString("\n")
	}

	help := "b/esc: back  q: quit"
	if len(m.detail.References) > 0 {
		help = "tab/n: next reference  " + help
	}
	b.WriteString(Styles.Help.Render(help))
	return b.String()
}
