package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/commands/options"
	"tableflip.dev/notebox/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	showID := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print sections and their details.",
		Example: `
notebox list
notebox list --section rust --code
notebox list --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(context.Background())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			l := list.List{
				Service:  e.svc,
				Section:  so.Section,
				ShowID:   showID,
				ShowCode: so.Code,
			}
			if output.JSON {
				l.JSON = output.PrintJSON
			}
			err = l.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddSectionArgs(cmd, so)
	_ = cmd.RegisterFlagCompletionFunc("section", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return sectionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	options.AddCodeArg(cmd, so)
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&showID, "id", false, "Show detail ids.")

	topLevel.AddCommand(cmd)
}
