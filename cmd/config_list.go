package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := store().List()
		if err != nil {
			return fmt.Errorf("cannot read configs directory: %w", err)
		}

		if len(list) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No configs yet. Run `nelodl config init` to create one.")
			return nil
		}

		rows := make([]table.Row, 0, len(list))
		for _, c := range list {
			active := ""
			if c.Active {
				active = "yes"
			}
			rows = append(rows, table.Row{c.Label, c.Path, active})
		}

		renderTable(cmd.OutOrStdout(), table.Row{"Label", "Path", "Active"}, rows)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
}
