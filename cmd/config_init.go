package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/nelodl/internal/config"
)

var flagInitYes bool

var configInitCmd = &cobra.Command{
	Use:   "init [label]",
	Short: "Create a config profile (Default when no label is given) and make it active",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store()
		out := cmd.OutOrStdout()

		label := config.DefaultLabel
		if len(args) == 1 {
			label = args[0]
		}

		path := s.PathFor(label)
		if _, err := os.Stat(path); err == nil {
			_, _ = fmt.Fprintf(out, "Configuration already exists at:\n  %s\n", path)
			_, _ = fmt.Fprintln(out, "Use `nelodl config reset` to recreate it.")
			return nil
		}

		_, _ = fmt.Fprintf(out, "Configuration file will be saved at:\n  %s\n\n", path)
		_, _ = fmt.Fprintln(out, "Default configuration:")
		config.DefaultConfig().Print(out)
		_, _ = fmt.Fprintln(out)

		if !flagInitYes {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Create config %q", label),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
					_, _ = fmt.Fprintln(out, "Aborted.")
					return nil
				}
				return err
			}
		}

		if _, err := s.Create(label); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		if err := s.Switch(label); err != nil {
			return fmt.Errorf("failed to set active config: %w", err)
		}

		_, _ = fmt.Fprintln(out, "Config created at:", path)
		_, _ = fmt.Fprintf(out, "This config is now active (label: %s).\n", label)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
