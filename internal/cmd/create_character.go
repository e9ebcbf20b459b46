package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCharacterSkin string

var createCharacterCmd = &cobra.Command{
	Use:   "create-character <name>",
	Short: "Create a new character on the authenticated account",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateCharacter,
}

func init() {
	createCharacterCmd.Flags().StringVar(&createCharacterSkin, "skin", "men1", "character skin")
	rootCmd.AddCommand(createCharacterCmd)
}

func runCreateCharacter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newHTTPClient(cfg)
	if err != nil {
		return err
	}

	character, err := client.CreateCharacter(cmd.Context(), args[0], createCharacterSkin)
	if err != nil {
		return err
	}

	fmt.Printf("created %s (level %d) at (%d,%d)\n", character.Name, character.Level, character.X, character.Y)
	return nil
}
