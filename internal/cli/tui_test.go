package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/pipeline"
)

func newBrowseFixture(t *testing.T) BrowseModel {
	t.Helper()
	ds, err := dataset.New(
		[]string{"BTYP", "M_NR", "Z_MNR"},
		[][]string{{"A", "4711", "4712"}, {"A", "4712", "4713"}, {"B", "4711", "9999"}},
		dataset.DefaultSchema(),
	)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	return NewBrowseModel(context.Background(), runner, ds, pipeline.ScopeCategory)
}

func press(t *testing.T, m BrowseModel, keys ...tea.KeyMsg) BrowseModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(BrowseModel)
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseWalksToResult(t *testing.T) {
	m := newBrowseFixture(t)
	if !strings.Contains(m.View(), "Select Category") {
		t.Fatalf("first stage should list categories:\n%s", m.View())
	}

	m = press(t, m, keyEnter)
	if m.stage != stageIdentifier || m.category != "A" || m.rows != 2 {
		t.Fatalf("after selecting category: stage=%d category=%q rows=%d", m.stage, m.category, m.rows)
	}
	if !strings.Contains(m.View(), "Filtered to A, 2 rows remain") {
		t.Errorf("identifier stage should show the filter summary:\n%s", m.View())
	}

	m = press(t, m, keyEnter)
	if m.stage != stageResult {
		t.Fatalf("stage = %d, want result", m.stage)
	}
	if got := m.result.Level1; len(got) != 1 || got[0] != "4712" {
		t.Errorf("level1 = %v, want [4712]", got)
	}

	m = press(t, m, runes("s"))
	if m.scope != pipeline.ScopeAll {
		t.Fatalf("scope = %s, want all", m.scope)
	}
	if got := m.result.Level1; len(got) != 2 {
		t.Errorf("level1 with scope all = %v, want [4712 9999]", got)
	}

	m = press(t, m, keyEsc)
	if m.stage != stageIdentifier {
		t.Errorf("esc should return to identifiers, stage = %d", m.stage)
	}
}

func TestBrowseFilter(t *testing.T) {
	m := newBrowseFixture(t)
	m = press(t, m, keyEnter, runes("13"))

	if got := m.ids.visible(); len(got) != 1 || got[0] != "4713" {
		t.Fatalf("visible = %v, want [4713]", got)
	}

	m = press(t, m, keyEnter)
	if m.result.Query != "4713" {
		t.Errorf("query = %q, want 4713", m.result.Query)
	}
}

func TestBrowseBackspaceRemovesWholeRune(t *testing.T) {
	m := newBrowseFixture(t)
	m = press(t, m, runes("Aü"), tea.KeyMsg{Type: tea.KeyBackspace})
	if m.categories.filter != "A" {
		t.Errorf("filter = %q, want %q", m.categories.filter, "A")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.categories.filter != "" {
		t.Errorf("filter = %q, want empty", m.categories.filter)
	}
}

func TestBrowseEscClearsFilterFirst(t *testing.T) {
	m := newBrowseFixture(t)
	m = press(t, m, runes("zz"))
	if len(m.categories.visible()) != 0 {
		t.Fatal("filter should hide all categories")
	}
	if !strings.Contains(m.View(), "no matches") {
		t.Error("empty list should say so")
	}

	m = press(t, m, keyEsc)
	if m.categories.filter != "" || m.stage != stageCategory {
		t.Errorf("esc should clear the filter and stay, filter=%q stage=%d", m.categories.filter, m.stage)
	}

	_, cmd := m.Update(keyEsc)
	if cmd == nil {
		t.Error("esc on the first stage should quit")
	}
}

func TestBrowseEmptyResult(t *testing.T) {
	m := newBrowseFixture(t)
	m = press(t, m, keyDown, keyEnter)
	if m.category != "B" {
		t.Fatalf("category = %q, want B", m.category)
	}
	m.resolve("0000")
	if !strings.Contains(m.View(), "no connections found") {
		t.Errorf("empty result should be explicit:\n%s", m.View())
	}
}
