// Package search runs a single query from the command line.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	nbsearch "tableflip.dev/notebox/pkg/search"
)

type Search struct {
	Searcher *nbsearch.Coordinator
	Query    string
	Target   nbsearch.Target
	Timeout  time.Duration
	JSON     func(v any) error
	// Out defaults to color.Output.
	Out io.Writer
}

func (n *Search) Do(ctx context.Context) error {
	if n.Searcher == nil {
		return errors.New("search: no searcher")
	}
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}
	results, err := n.Searcher.Await(ctx, n.Query, n.Target)
	if err != nil {
		return fmt.Errorf("search %s: %w", n.Target, err)
	}
	if n.Target == nbsearch.TargetAll {
		results = append(n.Searcher.Local(ctx, n.Query), results...)
	}
	if n.JSON != nil {
		if results == nil {
			results = []nbsearch.Result{}
		}
		return n.JSON(results)
	}
	n.print(results)
	return nil
}

func (n *Search) print(results []nbsearch.Result) {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if len(results) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintf(out, "no results for %q on %s\n", n.Query, n.Target)
		return
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow("", bold.Sprint("Title"), bold.Sprint("Description"), bold.Sprint("Link"))
	for _, r := range results {
		tbl.AddRow(r.Source.Icon(), r.Title, r.Description, faint.Sprint(r.URL))
	}
	_, _ = fmt.Fprintln(out, tbl)
}
