package commands

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(notebox completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(notebox completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func sectionCompletions(toComplete string) []string {
	ctx := context.Background()
	p, err := store.Load(ctx, nil)
	if err != nil {
		return nil
	}
	defer p.Close()
	sections, err := p.LoadAll(ctx)
	if err != nil {
		return nil
	}
	var out []string
	for _, s := range sections {
		title := note.StripSectionGlyph(s.Title)
		if strings.HasPrefix(strings.ToLower(title), strings.ToLower(toComplete)) {
			out = append(out, strconv.Quote(title))
		}
	}
	return out
}
