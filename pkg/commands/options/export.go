package options

import (
	"github.com/spf13/cobra"
)

type ExportOptions struct {
	Format string
	All    bool
	Dir    string
}

func AddExportArgs(cmd *cobra.Command, o *ExportOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", "json",
		"Export format. One of 'json', 'html' or 'csv'.")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Write every format.")
	cmd.Flags().StringVar(&o.Dir, "dir", "",
		"Directory to write into. Defaults to export.dir from the config.")
}
