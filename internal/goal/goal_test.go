package goal

import (
	"testing"

	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextGoalPicksFirstOpenGate(t *testing.T) {
	m := New(
		Template{
			Name: "always_open",
			Gate: func(model.Character, *knowledge.Base) bool { return true },
			Goal: state.Map{"character_status": state.Map{"level": ">=5"}},
		},
		Template{
			Name: "never_reached",
			Gate: func(model.Character, *knowledge.Base) bool { return true },
			Goal: state.Map{"character_status": state.Map{"gold": ">=100"}},
		},
	)
	goal, ok := m.NextGoal(model.Character{Level: 1}, nil, state.Map{"character_status": state.Map{"level": 1}})
	require.True(t, ok)
	assert.Equal(t, ">=5", goal.Get("character_status.level"))
}

func TestNextGoalSkipsAlreadyMetTemplate(t *testing.T) {
	m := New(
		Template{
			Name: "already_met",
			Gate: func(model.Character, *knowledge.Base) bool { return true },
			Goal: state.Map{"character_status": state.Map{"level": ">=5"}},
		},
		Template{
			Name: "next_up",
			Gate: func(model.Character, *knowledge.Base) bool { return true },
			Goal: state.Map{"character_status": state.Map{"gold": ">=100"}},
		},
	)
	current := state.Map{"character_status": state.Map{"level": 10, "gold": 0}}
	goal, ok := m.NextGoal(model.Character{Level: 10}, nil, current)
	require.True(t, ok)
	assert.Equal(t, ">=100", goal.Get("character_status.gold"))
}

func TestNextGoalReturnsFalseWhenNoGateOpen(t *testing.T) {
	m := New(Template{
		Name: "never_open",
		Gate: func(model.Character, *knowledge.Base) bool { return false },
		Goal: state.Map{"character_status": state.Map{"level": ">=5"}},
	})
	_, ok := m.NextGoal(model.Character{}, nil, state.Map{})
	assert.False(t, ok)
}

func TestCriticalHPGateOverridesOtherGoals(t *testing.T) {
	templates := DefaultTemplates(10, 1000, map[string]int{"mining": 5})
	m := New(templates...)
	lowHP := model.Character{HP: 2, MaxHP: 10, Level: 1}
	goal, ok := m.NextGoal(lowHP, nil, state.Map{})
	require.True(t, ok)
	assert.Equal(t, RestAndHealGoal, goal)
}

func TestDefaultTemplatesProgressesPastHealthyCharacter(t *testing.T) {
	templates := DefaultTemplates(10, 1000, nil)
	m := New(templates...)
	healthy := model.Character{HP: 10, MaxHP: 10, Level: 1}
	goal, ok := m.NextGoal(healthy, nil, state.Map{})
	require.True(t, ok)
	assert.Equal(t, ">=10", goal.Get("character_status.level"))
}
