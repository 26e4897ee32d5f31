// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// SectionOptions selects the sections a command works on.
type SectionOptions struct {
	Section string
	Code    bool
}

// AddSectionArgs wires the --section flag. The value is matched fuzzily
// against section titles.
func AddSectionArgs(cmd *cobra.Command, o *SectionOptions) {
	cmd.Flags().StringVarP(&o.Section, "section", "s", "",
		"Only show the best matching section.")
}

// AddCodeArg wires the --code flag.
func AddCodeArg(cmd *cobra.Command, o *SectionOptions) {
	cmd.Flags().BoolVar(&o.Code, "code", false,
		"Print attached code snippets.")
}
