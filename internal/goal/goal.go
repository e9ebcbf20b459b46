// Package goal implements the GoalManager (spec.md 4.7): an ordered list
// of goal templates, each gated by a predicate over the character and
// knowledge base, the first satisfied one becoming the active goal.
package goal

import (
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// Gate decides whether its template is currently eligible to become the
// active goal.
type Gate func(character model.Character, kb *knowledge.Base) bool

// Template pairs a gate with the goal predicate it activates once gated
// open and not already met.
type Template struct {
	Name string
	Gate Gate
	Goal state.Map
}

// Manager is the GoalManager: an ordered, priority-first list of
// templates.
type Manager struct {
	templates []Template
}

// New constructs a Manager with templates in priority order: earlier
// templates are checked first, so safety-critical goals (e.g. low-HP rest)
// belong at the front (spec.md 4.7: "HP critically low -> switch to
// rest-and-heal goal").
func New(templates ...Template) *Manager {
	return &Manager{templates: templates}
}

// LowHPThreshold is the hp_percent below which the built-in rest gate
// opens (spec.md 4.7 example).
const LowHPThreshold = 30.0

// RestAndHealGoal is the standing goal restored by the critical-HP gate:
// heal back to full before anything else.
var RestAndHealGoal = state.Map{
	"character_status": state.Map{"hp_percent": 100.0},
}

// DefaultTemplates returns the baseline ordered template list: level-up to
// N, reach each skill threshold, accumulate gold, always preceded by the
// critical-HP override. It has no equipment-set template.
func DefaultTemplates(targetLevel, targetGold int, skillThresholds map[string]int) []Template {
	templates := []Template{
		{
			Name: "critical_hp_rest",
			Gate: func(c model.Character, _ *knowledge.Base) bool {
				return c.MaxHP > 0 && float64(c.HP)/float64(c.MaxHP)*100 < LowHPThreshold
			},
			Goal: RestAndHealGoal,
		},
		{
			Name: "level_up",
			Gate: func(c model.Character, _ *knowledge.Base) bool { return c.Level < targetLevel },
			Goal: state.Map{"character_status": state.Map{"level": ">=" + itoaSigned(targetLevel)}},
		},
	}
	for skill, threshold := range skillThresholds {
		threshold, skill := threshold, skill
		templates = append(templates, Template{
			Name: "reach_" + skill + "_threshold",
			Gate: func(c model.Character, _ *knowledge.Base) bool {
				return c.Skills.Level(skill) < threshold
			},
			Goal: state.Map{"skill_status": state.Map{skill: ">=" + itoaSigned(threshold)}},
		})
	}
	templates = append(templates, Template{
		Name: "accumulate_gold",
		Gate: func(c model.Character, _ *knowledge.Base) bool { return c.Gold < targetGold },
		Goal: state.Map{"character_status": state.Map{"gold": ">=" + itoaSigned(targetGold)}},
	})
	return templates
}

func itoaSigned(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// NextGoal returns the goal predicate of the first template whose gate is
// open and whose goal the current state does not already satisfy
// (spec.md 4.7). Returns (nil, false) if every gated template's goal is
// already met.
func (m *Manager) NextGoal(character model.Character, kb *knowledge.Base, current state.Map) (state.Map, bool) {
	for _, t := range m.templates {
		if !t.Gate(character, kb) {
			continue
		}
		if current.Satisfies(t.Goal) {
			continue
		}
		return t.Goal, true
	}
	return nil, false
}
