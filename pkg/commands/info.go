package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/runner/info"
	"tableflip.dev/notebox/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where notebox keeps its data, and how much there is.",
		Example: `
notebox info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(context.Background())
			if err != nil {
				return err
			}
			defer e.Close()

			s := info.Info{
				Settings:   e.settings,
				ConfigFile: store.ConfigFileUsed(),
				Service:    e.svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
