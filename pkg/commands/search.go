package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/commands/options"
	runsearch "tableflip.dev/notebox/pkg/runner/search"
	"tableflip.dev/notebox/pkg/search"
)

func addSearch(topLevel *cobra.Command) {
	so := &options.SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes, crates.io or cheat.sh.",
		Example: `
notebox search iterator
notebox search serde --target crates
notebox search "tar extract" --target all --json
`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			target, err := search.ParseTarget(so.Target)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := openEnv(context.Background())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			searcher := e.searcher()
			defer searcher.Close()

			s := runsearch.Search{
				Searcher: searcher,
				Query:    strings.Join(args, " "),
				Target:   target,
				Timeout:  so.Timeout,
			}
			if output.JSON {
				s.JSON = output.PrintJSON
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddSearchArgs(cmd, so)
	_ = cmd.RegisterFlagCompletionFunc("target", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"local", "crates", "cheat", "all"}, cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
