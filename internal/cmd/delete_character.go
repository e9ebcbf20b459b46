package cmd

import (
	"fmt"

	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/spf13/cobra"
)

var deleteCharacterCmd = &cobra.Command{
	Use:   "delete-character <name>",
	Short: "Delete a character from the authenticated account",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteCharacter,
}

func init() {
	deleteCharacterCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(deleteCharacterCmd)
}

func runDeleteCharacter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newHTTPClient(cfg)
	if err != nil {
		return err
	}

	if err := client.DeleteCharacter(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", args[0])
	return nil
}
