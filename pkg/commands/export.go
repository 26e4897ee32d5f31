package commands

import (
	"context"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/commands/options"
	"tableflip.dev/notebox/pkg/export"
	runexport "tableflip.dev/notebox/pkg/runner/export"
)

func addExport(topLevel *cobra.Command) {
	eo := &options.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every section to a JSON, HTML or CSV file.",
		Example: `
notebox export
notebox export --format html --dir ~/Desktop
notebox export --all
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			f, err := export.ParseFormat(eo.Format)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := openEnv(context.Background())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			dir := e.settings.Export.Dir
			if eo.Dir != "" {
				if dir, err = homedir.Expand(eo.Dir); err != nil {
					return output.HandleError(err)
				}
			}
			x := runexport.Export{
				Service:  e.svc,
				Exporter: export.Exporter{Dir: dir},
				Format:   f,
				All:      eo.All,
			}
			err = x.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddExportArgs(cmd, eo)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "html", "csv"}, cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
