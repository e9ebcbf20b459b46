package cmd

import (
	"fmt"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/blentz/artifactsmmo-sub002/internal/tui"
	"github.com/spf13/cobra"
)

var statusCharacterWatch bool

var statusCharacterCmd = &cobra.Command{
	Use:   "status-character <name>",
	Short: "Show a character's current status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatusCharacter,
}

func init() {
	statusCharacterCmd.Flags().BoolVar(&statusCharacterWatch, "watch", false, "open a live-updating dashboard")
	statusCharacterCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(statusCharacterCmd)
}

func runStatusCharacter(cmd *cobra.Command, args []string) error {
	character := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	if statusCharacterWatch {
		// status-character is a separate process from run-character, so
		// there is no in-process Loop to read a Snapshot from; the
		// dashboard falls back to polling the character endpoint only.
		return tui.RunWatch(cmd.Context(), character, client, nil)
	}

	c, err := client.GetCharacter(cmd.Context(), character)
	if err != nil {
		return err
	}

	fmt.Printf("%s — level %d\n", c.Name, c.Level)
	fmt.Printf("HP: %d/%d\n", c.HP, c.MaxHP)
	fmt.Printf("Location: (%d,%d)\n", c.X, c.Y)
	fmt.Printf("Gold: %d\n", c.Gold)

	if cooldown := time.Until(c.CooldownExpiration); cooldown > 0 {
		fmt.Printf("Cooldown: %s\n", cooldown.Round(time.Second))
	} else {
		fmt.Println("Cooldown: ready")
	}
	return nil
}
