// Package export writes every section to disk from the command line.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/notebox/pkg/app"
	nbexport "tableflip.dev/notebox/pkg/export"
)

type Export struct {
	Service  *app.Service
	Exporter nbexport.Exporter
	Format   nbexport.Format
	All      bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("export: no persistence")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	sections, err := n.Service.Sections(ctx)
	if err != nil {
		return err
	}

	if n.All {
		paths, err := n.Exporter.ExportAll(sections)
		for _, p := range paths {
			_, _ = fmt.Fprintln(out, nbexport.Message(p, nil))
		}
		if err != nil {
			_, _ = fmt.Fprintln(out, nbexport.Message("", err))
		}
		return err
	}

	path, err := n.Exporter.Export(sections, n.Format)
	_, _ = fmt.Fprintln(out, nbexport.Message(path, err))
	return err
}
