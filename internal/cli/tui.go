package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/prgraph/pkg/connectivity"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/pipeline"
	"github.com/matzehuels/prgraph/pkg/render/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// pickList - filterable, scrollable selection
// =============================================================================

// pickList is a list of strings narrowed by a typed filter.
type pickList struct {
	items  []string
	filter string
	cursor int
	offset int
	height int
}

func newPickList(items []string) pickList {
	return pickList{items: items, height: 15}
}

// visible returns the items containing the filter text.
func (l pickList) visible() []string {
	if l.filter == "" {
		return l.items
	}
	var out []string
	for _, it := range l.items {
		if strings.Contains(it, l.filter) {
			out = append(out, it)
		}
	}
	return out
}

func (l *pickList) move(delta int) {
	n := len(l.visible())
	if n == 0 {
		return
	}
	l.cursor = max(0, min(n-1, l.cursor+delta))
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
}

func (l *pickList) setFilter(f string) {
	l.filter = f
	l.cursor, l.offset = 0, 0
}

// selected returns the item under the cursor.
func (l pickList) selected() (string, bool) {
	v := l.visible()
	if l.cursor >= len(v) {
		return "", false
	}
	return v[l.cursor], true
}

func (l pickList) view(b *strings.Builder) {
	v := l.visible()
	end := min(l.offset+l.height, len(v))
	for i := l.offset; i < end; i++ {
		if i == l.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + v[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + v[i]))
		}
		b.WriteString("\n")
	}
	if len(v) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	status := fmt.Sprintf("  [%d/%d]", min(l.cursor+1, len(v)), len(v))
	if l.filter != "" {
		status += "  filter: " + l.filter
	}
	b.WriteString(listDimStyle.Render(status))
}

// =============================================================================
// BrowseModel - category, then PR number, then result
// =============================================================================

type browseStage int

const (
	stageCategory browseStage = iota
	stageIdentifier
	stageResult
)

// BrowseModel is the bubbletea model for interactive lookup. It walks from a
// category to a PR number to its two-hop neighbourhood; esc steps back.
type BrowseModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	ds     *dataset.Dataset

	stage      browseStage
	categories pickList
	ids        pickList
	category   string
	rows       int
	scope      pipeline.Scope
	result     connectivity.Result
	err        error
}

// NewBrowseModel creates a browse model over ds.
func NewBrowseModel(ctx context.Context, runner *pipeline.Runner, ds *dataset.Dataset, scope pipeline.Scope) BrowseModel {
	return BrowseModel{
		ctx:        ctx,
		runner:     runner,
		ds:         ds,
		categories: newPickList(runner.Categories(ctx, ds)),
		scope:      scope,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.stage {
		case stageCategory:
			return m.updateList(msg, &m.categories)
		case stageIdentifier:
			return m.updateList(msg, &m.ids)
		case stageResult:
			return m.updateResult(msg)
		}
	case tea.WindowSizeMsg:
		h := max(5, msg.Height-8)
		m.categories.height = h
		m.ids.height = h
	}
	return m, nil
}

// updateList edits l, which must point into m.
func (m *BrowseModel) updateList(msg tea.KeyMsg, l *pickList) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if l.filter != "" {
			l.setFilter("")
			return *m, nil
		}
		if m.stage == stageCategory {
			return *m, tea.Quit
		}
		m.stage--
	case tea.KeyUp:
		l.move(-1)
	case tea.KeyDown:
		l.move(1)
	case tea.KeyPgUp:
		l.move(-l.height)
	case tea.KeyPgDown:
		l.move(l.height)
	case tea.KeyBackspace:
		if l.filter != "" {
			_, size := utf8.DecodeLastRuneInString(l.filter)
			l.setFilter(l.filter[:len(l.filter)-size])
		}
	case tea.KeyRunes:
		l.setFilter(l.filter + string(msg.Runes))
	case tea.KeyEnter:
		item, ok := l.selected()
		if !ok {
			return *m, nil
		}
		if m.stage == stageCategory {
			m.selectCategory(item)
		} else {
			m.resolve(item)
		}
	}
	return *m, nil
}

func (m *BrowseModel) selectCategory(category string) {
	m.category = category
	m.rows = m.runner.View(m.ctx, m.ds, category).Len()
	m.ids = newPickList(m.runner.Identifiers(m.ctx, m.ds, category))
	m.ids.height = m.categories.height
	m.stage = stageIdentifier
}

func (m *BrowseModel) resolve(id string) {
	m.result, m.err = m.runner.Resolve(m.ctx, m.ds, pipeline.Options{
		Category: m.category,
		Scope:    m.scope,
		ID:       id,
	})
	m.stage = stageResult
}

func (m BrowseModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.stage = stageIdentifier
	case "s":
		if m.scope == pipeline.ScopeCategory {
			m.scope = pipeline.ScopeAll
		} else {
			m.scope = pipeline.ScopeCategory
		}
		m.resolve(m.result.Query)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	switch m.stage {
	case stageCategory:
		b.WriteString(StyleTitle.Render("Select Category"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  type to filter  ⏎ select  esc quit"))
		b.WriteString("\n\n")
		m.categories.view(&b)
	case stageIdentifier:
		b.WriteString(StyleTitle.Render("Select PR Number"))
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("Filtered to %s, %d rows remain", m.category, m.rows)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  type to filter  ⏎ select  esc back"))
		b.WriteString("\n\n")
		m.ids.view(&b)
	case stageResult:
		m.resultView(&b)
	}
	return b.String()
}

func (m BrowseModel) resultView(b *strings.Builder) {
	b.WriteString(StyleTitle.Render("PR " + m.result.Query))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("category %s · scope %s", m.category, m.scope)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("s toggle scope  esc back  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		return
	}
	if m.result.Empty() {
		b.WriteString(StyleWarning.Render(m.result.Query + ": " + report.NoneFound))
		return
	}

	rows := make([][]string, 0, len(m.result.Level1))
	for _, p := range m.result.Level1 {
		rows = append(rows, []string{p, strings.Join(m.result.Level2[p], ", ")})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level 1", "Level 2").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d connected", len(m.result.Level1))))
}
