package panel

import (
	"fmt"
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"tableflip.dev/notebox/pkg/tui/theme"
)

func newPanel(lines int, selected, height int) Model {
	th := theme.Default()
	m := New(th.Panel, th.List)
	var ls []string
	for i := 0; i < lines; i++ {
		ls = append(ls, fmt.Sprintf("line %d", i))
	}
	m.SetContent("Title", ls, selected)
	m.SetSize(30, height)
	return m
}

func TestWindowFollowsSelection(t *testing.T) {
	m := newPanel(20, 15, 8)
	first, last := m.Window()
	if first > 15 || last <= 15 {
		t.Fatalf("selection 15 outside window [%d,%d)", first, last)
	}
	if !strings.Contains(m.View(), "› line 15") {
		t.Fatalf("selected line not rendered:\n%s", m.View())
	}
}

func TestWindowWithoutSelection(t *testing.T) {
	m := newPanel(3, -1, 10)
	first, last := m.Window()
	if first != 0 || last != 3 {
		t.Fatalf("Window() = %d,%d", first, last)
	}
	if strings.Contains(m.View(), SelectedMarker) {
		t.Fatal("no line should be marked")
	}
}

func TestFitTruncates(t *testing.T) {
	got := Fit("a very long section title", 10)
	if w := ansi.PrintableRuneWidth(got); w > 10 {
		t.Fatalf("Fit width = %d (%q)", w, got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("Fit(%q) missing ellipsis", got)
	}
	if Fit("short", 10) != "short" {
		t.Fatal("short strings are unchanged")
	}
}
