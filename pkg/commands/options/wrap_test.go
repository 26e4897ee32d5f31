package options

import (
	"strings"
	"testing"
)

func TestWrapCollapsesAndBreaks(t *testing.T) {
	got := Wrap("  a terminal   notes manager\nwith snippets ", 12)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 12 {
			t.Fatalf("line %q wider than 12 in %q", line, got)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "a terminal notes manager with snippets" {
		t.Fatalf("words changed: %q", got)
	}
}

func TestWrapEmpty(t *testing.T) {
	if got := Wrap("   ", 80); got != "   " {
		t.Fatalf("Wrap(blank) = %q", got)
	}
}
