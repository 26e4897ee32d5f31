// Package list prints sections and their details.
package list

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sahilm/fuzzy"

	"tableflip.dev/notebox/pkg/app"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/printers"
)

// ErrNoSection is returned when --section matches nothing.
var ErrNoSection = errors.New("list: no matching section")

type List struct {
	Service  *app.Service
	Section  string
	ShowID   bool
	ShowCode bool
	// JSON receives the selected sections instead of the pretty printer.
	JSON func(v any) error
	// Out defaults to color.Output.
	Out io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("list: no persistence")
	}
	sections, err := n.Service.Sections(ctx)
	if err != nil {
		return err
	}
	if n.Section != "" {
		sec, ok := Match(sections, n.Section)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNoSection, n.Section)
		}
		sections = []note.Section{sec}
	}
	if n.JSON != nil {
		return n.JSON(sections)
	}

	pp := printers.PrettyPrint{
		Out:      n.Out,
		ShowID:   n.ShowID,
		ShowCode: n.ShowCode,
		Code:     n.Service.ReadCode,
	}
	pp.NewLine()
	for _, s := range sections {
		pp.Section(s)
	}
	return nil
}

// Match returns the section whose title best matches pattern. Titles are
// compared without their folder icon.
func Match(sections []note.Section, pattern string) (note.Section, bool) {
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = note.StripSectionGlyph(s.Title)
	}
	matches := fuzzy.Find(pattern, titles)
	if len(matches) == 0 {
		return note.Section{}, false
	}
	return sections[matches[0].Index], true
}
