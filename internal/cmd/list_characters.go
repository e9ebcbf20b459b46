package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCharactersCmd = &cobra.Command{
	Use:   "list-characters",
	Short: "List characters on the authenticated account",
	Args:  cobra.NoArgs,
	RunE:  runListCharacters,
}

func init() {
	rootCmd.AddCommand(listCharactersCmd)
}

func runListCharacters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	characters, err := client.GetCharacters(cmd.Context())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Name", "Level", "HP", "Location", "Gold")
	for _, c := range characters {
		hp := fmt.Sprintf("%d/%d", c.HP, c.MaxHP)
		loc := fmt.Sprintf("(%d,%d)", c.X, c.Y)
		_ = table.Append(c.Name, fmt.Sprint(c.Level), hp, loc, fmt.Sprint(c.Gold))
	}
	return table.Render()
}
