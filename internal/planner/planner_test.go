package planner

import (
	"testing"

	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryWithChain() *actions.Registry {
	r := actions.NewRegistry()
	r.Register(&actions.Descriptor{
		Name:          "step_a",
		Preconditions: state.Map{"phase": "start"},
		Effects:       state.Map{"phase": "middle"},
		Weight:        1,
	})
	r.Register(&actions.Descriptor{
		Name:          "step_b",
		Preconditions: state.Map{"phase": "middle"},
		Effects:       state.Map{"phase": "done"},
		Weight:        1,
	})
	r.Register(&actions.Descriptor{
		Name:          "shortcut",
		Preconditions: state.Map{"phase": "start"},
		Effects:       state.Map{"phase": "done"},
		Weight:        10,
	})
	return r
}

func TestPlanReturnsEmptyPlanWhenGoalAlreadyMet(t *testing.T) {
	r := registryWithChain()
	plan, ok := Plan(state.Map{"phase": "done"}, state.Map{"phase": "done"}, r, DefaultMaxNodes)
	require.True(t, ok)
	assert.Empty(t, plan)
}

func TestPlanFindsCheaperTwoStepPathOverExpensiveShortcut(t *testing.T) {
	r := registryWithChain()
	plan, ok := Plan(state.Map{"phase": "start"}, state.Map{"phase": "done"}, r, DefaultMaxNodes)
	require.True(t, ok)
	require.Len(t, plan, 2)
	assert.Equal(t, "step_a", plan[0].Descriptor.Name)
	assert.Equal(t, "step_b", plan[1].Descriptor.Name)
}

func TestPlanFailsWhenNoPathExists(t *testing.T) {
	r := actions.NewRegistry()
	r.Register(&actions.Descriptor{
		Name:          "irrelevant",
		Preconditions: state.Map{"phase": "never"},
		Effects:       state.Map{"phase": "done"},
		Weight:        1,
	})
	_, ok := Plan(state.Map{"phase": "start"}, state.Map{"phase": "done"}, r, DefaultMaxNodes)
	assert.False(t, ok)
}

func TestPlanRespectsMaxNodes(t *testing.T) {
	r := registryWithChain()
	_, ok := Plan(state.Map{"phase": "start"}, state.Map{"phase": "done"}, r, 1)
	assert.False(t, ok, "a one-node budget should not reach the two-step goal")
}

func TestPlanMaxNodesZeroReturnsNoPlan(t *testing.T) {
	r := registryWithChain()
	_, ok := Plan(state.Map{"phase": "start"}, state.Map{"phase": "done"}, r, 0)
	assert.False(t, ok, "spec.md 8.3: max_nodes=0 always returns no plan, even if the goal is reachable")
}

func TestPlanMaxNodesZeroFailsEvenWhenGoalAlreadyMet(t *testing.T) {
	r := registryWithChain()
	_, ok := Plan(state.Map{"phase": "done"}, state.Map{"phase": "done"}, r, 0)
	assert.False(t, ok, "spec.md 8.3: max_nodes=0 returns no plan unconditionally")
}

func TestPlanEmptyRegistryWithGoalAlreadyMetSucceeds(t *testing.T) {
	r := actions.NewRegistry()
	plan, ok := Plan(state.Map{"phase": "done"}, state.Map{"phase": "done"}, r, DefaultMaxNodes)
	require.True(t, ok)
	assert.Empty(t, plan)
}
