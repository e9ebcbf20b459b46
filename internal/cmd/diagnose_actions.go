package cmd

import (
	"fmt"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/blentz/artifactsmmo-sub002/internal/worldstate"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var diagnoseActionsCmd = &cobra.Command{
	Use:   "diagnose-actions <name>",
	Short: "List actions applicable to a character's current state",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnoseActions,
}

func init() {
	diagnoseActionsCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(diagnoseActionsCmd)
}

func runDiagnoseActions(cmd *cobra.Command, args []string) error {
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

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Action", "Weight", "Applicable")
	for _, d := range ag.Registry.All() {
		applicable := "no"
		if s.Satisfies(d.Preconditions) {
			applicable = "yes"
		}
		_ = table.Append(d.Name, fmt.Sprint(d.Weight), applicable)
	}
	return table.Render()
}
