package cmd

import (
	"fmt"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/blentz/artifactsmmo-sub002/internal/planner"
	"github.com/blentz/artifactsmmo-sub002/internal/worldstate"
	"github.com/spf13/cobra"
)

var diagnosePlanGoal string

var diagnosePlanCmd = &cobra.Command{
	Use:   "diagnose-plan <name>",
	Short: "Plan toward a goal and print the resulting action sequence",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnosePlan,
}

func init() {
	diagnosePlanCmd.Flags().StringVar(&diagnosePlanGoal, "goal", "", "goal filter, e.g. \"character_status.hp_percent=100\"")
	diagnosePlanCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(diagnosePlanCmd)
}

func runDiagnosePlan(cmd *cobra.Command, args []string) error {
	character := args[0]

	if diagnosePlanGoal == "" {
		return fmt.Errorf("--goal is required, e.g. --goal=\"character_status.hp_percent=100\"")
	}

	goal, err := goalFromFilters(diagnosePlanGoal)
	if err != nil {
		return fmt.Errorf("parse --goal: %w", err)
	}

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
	start := worldstate.Build(ac)

	plan, ok := planner.Plan(start, goal, ag.Registry, cfg.Planner.MaxNodes)
	if !ok {
		fmt.Println("no plan found toward goal:")
		printStateMap("", goal)
		return nil
	}

	fmt.Printf("plan toward goal (%d step(s)):\n", len(plan))
	for i, step := range plan {
		fmt.Printf("  %d. %s\n", i+1, step.Descriptor.Name)
	}
	return nil
}
