// Package commands builds the notebox command tree.
package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use: "notebox",
		Short: options.Wrap80("Sections of notes with Rust and Python snippets, " +
			"searchable locally and on crates.io and cheat.sh."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd)
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addSearch(topLevel)
	addExport(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addConfig(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
