package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/notebox/pkg/store"
)

func addConfig(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the notebox configuration file.",
	}

	path := ""
	force := false
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to ~/.notebox.yaml.",
		Example: `
notebox config init
notebox config init --path ./.notebox.yaml --force
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			target, err := homedir.Expand(path)
			if err != nil {
				return err
			}
			return writeDefaultConfig(target, force)
		},
	}
	initCmd.Flags().StringVar(&path, "path", "~/.notebox.yaml", "Where to write the file.")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file.")

	cmd.AddCommand(initCmd)
	topLevel.AddCommand(cmd)
}

func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists, use --force to overwrite", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: ensure dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := store.DefaultSettings().WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
