package browser

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/resb/internal/binres"
	"github.com/msto63/resb/internal/source"
	"github.com/msto63/resb/pkg/bundle"
	"github.com/msto63/resb/pkg/resource"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	src := source.NewMemory()
	files := map[string]*binres.File{
		"units/root.res": {Locale: "root", Root: resource.NewTable(map[string]*resource.Value{
			"Meter": resource.NewString("meter"),
			"Prefix": resource.NewTable(map[string]*resource.Value{
				"kilo": resource.NewInt(1000),
				"mega": resource.NewInt(1000000),
			}),
		})},
		"units/fr.res": {Locale: "fr", Root: resource.NewTable(map[string]*resource.Value{
			"Meter": resource.NewString("mètre"),
			"Liter": resource.NewString("litre"),
		})},
	}
	for name, f := range files {
		data, err := binres.Marshal(f)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", name, err)
		}
		src.Put(name, data)
	}

	m := New(Config{
		Opener:   bundle.New(bundle.Config{Source: src}),
		BaseName: "units",
		Locale:   "fr",
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return update(t, m, m.loadBundle())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func labels(m Model) []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.label
	}
	return out
}

func TestLoadListsInheritedKeys(t *testing.T) {
	m := newTestModel(t)

	if m.err != nil {
		t.Fatalf("err = %v", m.err)
	}
	if got, want := strings.Join(labels(m), ","), "Liter,Meter,Prefix"; got != want {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if loc := m.entries[2].node.LocaleID(); loc != "root" {
		t.Errorf("Prefix from %q, want root", loc)
	}
	if !strings.Contains(m.View(), "fr > root") {
		t.Error("View() does not show the fallback chain")
	}
}

func TestNavigateIntoTableAndBack(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.selected().label != "Prefix" {
		t.Fatalf("selected = %q, want Prefix", m.selected().label)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := strings.Join(labels(m), ","); got != "kilo,mega" {
		t.Errorf("entries after enter = %v, want kilo,mega", got)
	}
	if !strings.Contains(m.viewport.View(), "1000") {
		t.Error("detail does not show the selected value")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.trail) != 0 || m.selected().label != "Prefix" {
		t.Errorf("after back: trail = %d, selected = %q", len(m.trail), m.selected().label)
	}
}

func TestEnterOnStringStays(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.trail) != 0 {
		t.Errorf("trail = %d, want 0", len(m.trail))
	}
}

func TestChangeLocale(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if !m.editing {
		t.Fatal("editing = false after c")
	}
	m.input.SetValue("root")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing || m.localeID != "root" {
		t.Fatalf("editing = %v, localeID = %q", m.editing, m.localeID)
	}

	m = update(t, m, m.loadBundle())
	if got := strings.Join(labels(m), ","); got != "Meter,Prefix" {
		t.Errorf("entries = %v, want Meter,Prefix", got)
	}
}

func TestMissingBundleShowsError(t *testing.T) {
	m := newTestModel(t)
	m.baseName = "weights"
	m = update(t, m, m.loadBundle())
	if m.err == nil {
		t.Fatal("err = nil for a missing bundle")
	}
	if !strings.Contains(m.View(), "Error") {
		t.Error("View() does not show the error")
	}
}
