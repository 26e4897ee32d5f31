// Package search runs queries against the local store and the remote
// crates.io and cheat.sh providers. Local queries answer synchronously;
// remote ones run on a single background worker.
package search

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/notebox/pkg/glyph"
)

// Source tells where a result came from.
type Source int

const (
	SourceLocal Source = iota
	SourceCratesIO
	SourceCheatSh
)

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "Local"
	case SourceCratesIO:
		return "Crates.io"
	case SourceCheatSh:
		return "cheat.sh"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// Icon is the glyph shown next to results of this source.
func (s Source) Icon() string {
	if s == SourceLocal {
		return glyph.Local
	}
	return glyph.Link
}

// Result is one search hit. Remote results carry a URL; local ones point
// back at their section and, for detail hits, the detail.
type Result struct {
	Title       string
	Description string
	Source      Source
	URL         string
	SectionID   int64
	DetailID    int64
}

// Remote reports whether the result should be opened in a browser.
func (r Result) Remote() bool {
	return r.URL != ""
}

// Target selects which providers a query runs against.
type Target int

const (
	TargetLocal Target = iota
	TargetCratesIO
	TargetCheatSh
	TargetAll
)

// Targets lists every target in cycle order.
var Targets = []Target{TargetLocal, TargetCratesIO, TargetCheatSh, TargetAll}

// Next cycles Local → Crates.io → cheat.sh → All → Local.
func (t Target) Next() Target {
	return Target((int(t) + 1) % len(Targets))
}

// Remote reports whether queries for t run on the background worker.
func (t Target) Remote() bool {
	return t != TargetLocal
}

func (t Target) String() string {
	switch t {
	case TargetLocal:
		return "Local"
	case TargetCratesIO:
		return "Crates.io"
	case TargetCheatSh:
		return "cheat.sh"
	case TargetAll:
		return "All"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget accepts the names printed by String, case-insensitively, plus
// the short forms "crates" and "cheat".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return TargetLocal, nil
	case "crates", "crates.io", "cratesio":
		return TargetCratesIO, nil
	case "cheat", "cheat.sh", "cheatsh":
		return TargetCheatSh, nil
	case "all":
		return TargetAll, nil
	}
	return TargetLocal, fmt.Errorf("search: unknown target %q", s)
}

// Provider answers a query.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, query string) ([]Result, error)

func (f ProviderFunc) Search(ctx context.Context, query string) ([]Result, error) {
	return f(ctx, query)
}
