package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/export"
	teaui "tableflip.dev/notebox/pkg/tui/app"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the text-based user interface.",
		Example: `
notebox ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd)
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	e, err := openEnv(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Logger.Info().Msg("starting ui")
	return teaui.Run(e.svc,
		teaui.WithSearch(e.searcher()),
		teaui.WithExporter(export.Exporter{Dir: e.settings.Export.Dir}),
		teaui.WithLogger(e.log.Logger.With().Str("component", "ui").Logger()),
	)
}
