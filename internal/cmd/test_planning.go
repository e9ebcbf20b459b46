package cmd

import (
	"fmt"

	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/planner"
	"github.com/spf13/cobra"
)

var (
	testPlanningState string
	testPlanningGoal  string
	testPlanningNodes int
)

var testPlanningCmd = &cobra.Command{
	Use:   "test-planning",
	Short: "Run the planner against a synthetic state/goal pair, without a server",
	Long: `test-planning exercises the A* planner offline: both --state and --goal
are "key=value,..." filters (same syntax as diagnose-plan's --goal), so
planner behavior can be inspected without an authenticated character.`,
	Args: cobra.NoArgs,
	RunE: runTestPlanning,
}

func init() {
	testPlanningCmd.Flags().StringVar(&testPlanningState, "state", "", "synthetic starting state, e.g. \"character_status.hp_percent=10\"")
	testPlanningCmd.Flags().StringVar(&testPlanningGoal, "goal", "", "goal filter, e.g. \"character_status.hp_percent=100\"")
	testPlanningCmd.Flags().IntVar(&testPlanningNodes, "max-nodes", 0, "override the planner's max expanded nodes (0 = default)")
	rootCmd.AddCommand(testPlanningCmd)
}

func runTestPlanning(cmd *cobra.Command, args []string) error {
	if testPlanningGoal == "" {
		return fmt.Errorf("--goal is required")
	}

	start, err := goalFromFilters(testPlanningState)
	if err != nil {
		return fmt.Errorf("parse --state: %w", err)
	}

	goal, err := goalFromFilters(testPlanningGoal)
	if err != nil {
		return fmt.Errorf("parse --goal: %w", err)
	}

	maxNodes := testPlanningNodes
	if maxNodes <= 0 {
		maxNodes = planner.DefaultMaxNodes
	}

	registry := actions.NewFullRegistry()
	plan, ok := planner.Plan(start, goal, registry, maxNodes)
	if !ok {
		fmt.Println("no plan found")
		return nil
	}

	fmt.Printf("plan found (%d step(s)):\n", len(plan))
	for i, step := range plan {
		fmt.Printf("  %d. %s\n", i+1, step.Descriptor.Name)
	}
	return nil
}
