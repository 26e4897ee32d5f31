// Package printers renders notebox records for the command line.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/notebox/pkg/glyph"
	"tableflip.dev/notebox/pkg/note"
)

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out      io.Writer
	ShowID   bool
	ShowCode bool
	// Code loads the snippet of a detail when ShowCode is set.
	Code func(note.Detail) (string, error)
}

var (
	spacing = strings.Repeat(" ", len("#0000  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " detail")
	default:
		_, _ = c.Fprintln(pp.out(), " details")
	}
}

// Section prints a section heading followed by its details.
func (pp *PrettyPrint) Section(s note.Section) {
	pp.TitleWithCount(s.Title, len(s.Details))
	pp.Details(s.Details...)
}

func (pp *PrettyPrint) Details(details ...note.Detail) {
	w := pp.out()
	if len(details) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = fmt.Fprint(w, spacing)
		}
		_, _ = f.Fprint(w, " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	for _, d := range details {
		if pp.ShowID {
			id := fmt.Sprintf("#%d", d.ID)
			_, _ = y.Fprint(w, id)
			_, _ = fmt.Fprint(w, strings.Repeat(" ", max(len(spacing)-len(id), 1)))
		}
		marker := ""
		if d.HasCode() {
			marker = " " + glyph.Code
		}
		_, _ = fmt.Fprintf(w, "%s %s%s ", d.Language.Icon(), d.Title, marker)
		_, _ = faint.Fprintln(w, d.CreatedAt)
		if desc := strings.TrimSpace(d.Description); desc != "" {
			pp.indented(desc)
		}
		if pp.ShowCode && d.HasCode() && pp.Code != nil {
			pp.code(d)
		}
	}
	_, _ = fmt.Fprintln(w, "")
}

func (pp *PrettyPrint) indented(text string) {
	pad := "    "
	if pp.ShowID {
		pad += spacing
	}
	for _, line := range strings.Split(text, "\n") {
		_, _ = fmt.Fprintln(pp.out(), pad+line)
	}
}

func (pp *PrettyPrint) code(d note.Detail) {
	src, err := pp.Code(d)
	if err != nil {
		_, _ = color.New(color.FgRed).Fprintf(pp.out(), "    %s %v\n", glyph.Failed, err)
		return
	}
	c := color.New(color.FgCyan)
	pad := "    │ "
	if pp.ShowID {
		pad = spacing + pad
	}
	for _, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
		_, _ = c.Fprintln(pp.out(), pad+line)
	}
}
