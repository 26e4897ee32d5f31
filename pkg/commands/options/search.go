package options

import (
	"time"

	"github.com/spf13/cobra"
)

type SearchOptions struct {
	Target  string
	Timeout time.Duration
}

func AddSearchArgs(cmd *cobra.Command, o *SearchOptions) {
	cmd.Flags().StringVarP(&o.Target, "target", "t", "local",
		"Where to search. One of 'local', 'crates', 'cheat' or 'all'.")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 20*time.Second,
		"Give up on remote results after this long.")
}
