// Package worldstate builds the canonical state.Map snapshot the planner
// and goal manager reason over, computing the "known"/"at_X" heuristic
// capabilities live from the character snapshot and KnowledgeBase rather
// than reading them back from persisted booleans (spec.md 4.3 invariant).
package worldstate

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// Build computes the current state.Map from ac's character snapshot,
// target, and knowledge/map handles.
func Build(ac *actioncontext.Context) state.Map {
	c := ac.Character
	s := state.Map{
		"character_status": state.Map{
			"alive":      c.HP > 0,
			"hp_percent": hpPercent(c),
			"level":      c.Level,
			"gold":       c.Gold,
		},
		"skill_status": state.Map{
			"mining":          c.Skills.Mining,
			"woodcutting":     c.Skills.Woodcutting,
			"fishing":         c.Skills.Fishing,
			"weaponcrafting":  c.Skills.Weaponcrafting,
			"gearcrafting":    c.Skills.Gearcrafting,
			"jewelrycrafting": c.Skills.Jewelrycrafting,
			"cooking":         c.Skills.Cooking,
			"alchemy":         c.Skills.Alchemy,
		},
		"location_context": state.Map{
			"at_resource": isAtResource(ac),
			"at_workshop": isAtWorkshop(ac),
			"at_monster":  isAtMonster(ac),
			"x":           c.X,
			"y":           c.Y,
		},
		"combat_context": state.Map{
			"monster_known":      ac.Target.Kind == actioncontext.TargetMonster,
			"monster_engageable": isMonsterEngageable(ac),
		},
		"inventory_status": state.Map{
			"has_target_item":      hasTargetItem(ac),
			"target_material_qty":  targetMaterialQty(ac),
			"materials_ready":      materialsReady(ac),
		},
		"equipment_status": state.Map{
			"item_equipped": itemEquipped(ac),
		},
		"knowledge_status": state.Map{
			"resource_known": isResourceKnown(ac),
			"workshop_known": isWorkshopKnown(ac),
			"item_known":     isItemKnown(ac),
			"map_explored":   isMapExplored(ac),
		},
	}
	return s
}

func hpPercent(c model.Character) float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

func isAtResource(ac *actioncontext.Context) bool {
	if ac.Knowledge == nil || ac.Target.Kind != actioncontext.TargetResource {
		return false
	}
	return ac.Knowledge.IsAtResourceLocation(ac.Character, ac.Target.ResourceCode)
}

func isAtWorkshop(ac *actioncontext.Context) bool {
	if ac.Knowledge == nil {
		return false
	}
	skill := targetCraftSkill(ac)
	if skill == "" {
		return false
	}
	return ac.Knowledge.IsAtWorkshop(ac.Character, skill)
}

func targetCraftSkill(ac *actioncontext.Context) string {
	if ac.Target.Kind != actioncontext.TargetItem || ac.Knowledge == nil {
		return ""
	}
	item, ok, _ := ac.Knowledge.GetItem(context.Background(), nil, ac.Target.ItemCode)
	if !ok || item.CraftData == nil {
		return ""
	}
	return item.CraftData.Skill
}

func isAtMonster(ac *actioncontext.Context) bool {
	if ac.Target.Kind != actioncontext.TargetMonster {
		return false
	}
	return ac.Target.X == ac.Character.X && ac.Target.Y == ac.Character.Y
}

func isMonsterEngageable(ac *actioncontext.Context) bool {
	if ac.Knowledge == nil || ac.Target.Kind != actioncontext.TargetMonster {
		return false
	}
	return ac.Knowledge.IsMonsterEngageable(ac.Target.MonsterCode, ac.Character.Level)
}

func hasTargetItem(ac *actioncontext.Context) bool {
	if ac.Target.Kind != actioncontext.TargetItem {
		return false
	}
	return knowledge.HasTargetItem(ac.Character, ac.Target.ItemCode)
}

func targetMaterialQty(ac *actioncontext.Context) int {
	if ac.Target.Kind != actioncontext.TargetResource {
		return 0
	}
	return ac.Character.InventoryQuantity(ac.Target.ResourceCode)
}

func materialsReady(ac *actioncontext.Context) bool {
	if len(ac.CraftPlan) == 0 {
		return false
	}
	for code, qty := range ac.CraftPlan {
		if ac.Character.InventoryQuantity(code) < qty {
			return false
		}
	}
	return true
}

func itemEquipped(ac *actioncontext.Context) bool {
	if ac.Target.Kind != actioncontext.TargetItem {
		return false
	}
	return ac.Character.Equipment.HasEquipped(ac.Target.ItemCode)
}

func isResourceKnown(ac *actioncontext.Context) bool {
	if ac.Knowledge == nil || ac.Target.Kind != actioncontext.TargetResource {
		return false
	}
	return len(ac.Knowledge.FindResourcesInMap([]string{ac.Target.ResourceCode}, ac.Character.X, ac.Character.Y, 1<<20, nil)) > 0
}

func isWorkshopKnown(ac *actioncontext.Context) bool {
	if ac.Knowledge == nil {
		return false
	}
	skill := targetCraftSkill(ac)
	if skill == "" {
		return false
	}
	_, ok := ac.Knowledge.GetWorkshop(skill)
	return ok
}

func isItemKnown(ac *actioncontext.Context) bool {
	if ac.Knowledge == nil || ac.Target.Kind != actioncontext.TargetItem {
		return false
	}
	_, ok, _ := ac.Knowledge.GetItem(context.Background(), nil, ac.Target.ItemCode)
	return ok
}

func isMapExplored(ac *actioncontext.Context) bool {
	if ac.MapCache == nil {
		return false
	}
	_, ok := ac.MapCache.Get(ac.Character.X, ac.Character.Y, false)
	return ok
}
