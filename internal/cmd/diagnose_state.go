package cmd

import (
	"fmt"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/blentz/artifactsmmo-sub002/internal/worldstate"
	"github.com/spf13/cobra"
)

var diagnoseStateCmd = &cobra.Command{
	Use:   "diagnose-state <name>",
	Short: "Print the planner's current world state for a character",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnoseState,
}

func init() {
	diagnoseStateCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(diagnoseStateCmd)
}

func runDiagnoseState(cmd *cobra.Command, args []string) error {
	character := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ag, err := buildAgent(cfg, character)
	if err != nil {
		return err
	}

	c, err := ag.Client.GetCharacter(cmd.Context(), character)
	if err != nil {
		return err
	}

	ac := actioncontext.New(c, ag.KB, ag.MapCache, ag.Client)
	s := worldstate.Build(ac)

	fmt.Printf("world state for %s:\n", character)
	printStateMap("", s)
	return nil
}
