package actions

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// trainableSkills lists the skills upgrade_<skill>_skill is generated for
// (spec.md 4.4: "upgrade_<skill>_skill").
var trainableSkills = []string{
	"mining", "woodcutting", "fishing", "weaponcrafting",
	"gearcrafting", "jewelrycrafting", "cooking", "alchemy",
}

// RegisterCrafting adds plan_crafting_materials, craft_item, one
// upgrade_<skill>_skill per trainable skill, analyze_crafting_chain,
// analyze_crafting_requirements, and transform_raw_materials
// (spec.md 4.4).
func RegisterCrafting(r *Registry) {
	r.Register(planCraftingMaterialsDescriptor())
	r.Register(craftItemDescriptor())
	for _, skill := range trainableSkills {
		r.Register(upgradeSkillDescriptor(skill))
	}
	r.Register(analyzeCraftingChainDescriptor())
	r.Register(analyzeCraftingRequirementsDescriptor())
	r.Register(transformRawMaterialsDescriptor())
}

// planCraftingMaterialsDescriptor expands get_material_requirements for
// ac.Target's item into ac.CraftPlan. It is deliberately non-recursive
// (spec.md 4.3): it does not expand sub-recipes of the listed materials.
func planCraftingMaterialsDescriptor() *Descriptor {
	return &Descriptor{
		Name: "plan_crafting_materials",
		Preconditions: state.Map{
			"knowledge_status": state.Map{"item_known": true},
		},
		Effects: state.Map{
			"inventory_status": state.Map{"materials_ready": "set-on-success"},
		},
		Weight: WeightAnalyze,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetItem || ac.Knowledge == nil {
				return Result{Err: errNoTarget("plan_crafting_materials")}
			}
			reqs := ac.Knowledge.GetMaterialRequirements(ac.Target.ItemCode)
			if reqs == nil {
				return Result{Err: errNoTarget("plan_crafting_materials")}
			}
			ac.CraftPlan = reqs
			ready := materialsSatisfied(ac)
			return Result{
				Success: true,
				Data:    map[string]any{"materials": reqs},
				StateChanges: state.Map{
					"inventory_status": state.Map{"materials_ready": ready},
				},
			}
		},
	}
}

func materialsSatisfied(ac *actioncontext.Context) bool {
	for code, qty := range ac.CraftPlan {
		if ac.Character.InventoryQuantity(code) < qty {
			return false
		}
	}
	return true
}

func craftItemDescriptor() *Descriptor {
	return &Descriptor{
		Name: "craft_item",
		Preconditions: state.Map{
			"location_context": state.Map{"at_workshop": true},
			"inventory_status": state.Map{"materials_ready": true},
		},
		Effects: state.Map{
			"inventory_status": state.Map{"has_target_item": true},
		},
		Weight: WeightCraft,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetItem {
				return Result{Err: errNoTarget("craft_item")}
			}
			resp, err := client.Craft(ctx, ac.Character.Name, ac.Target.ItemCode, 1)
			if err != nil {
				return Result{Err: err}
			}
			ac.RefreshCharacter(resp.Character)
			return Result{
				Success: true,
				StateChanges: state.Map{
					"inventory_status": state.Map{"has_target_item": true},
				},
				CooldownSeconds: resp.CooldownSeconds,
			}
		},
	}
}

// upgradeSkillDescriptor builds the upgrade_<skill>_skill action: crafting
// whatever item ac.Target currently names while at that skill's workshop,
// tracked against skill_status.<skill> rather than inventory_status so the
// planner can target level thresholds directly.
func upgradeSkillDescriptor(skill string) *Descriptor {
	return &Descriptor{
		Name: "upgrade_" + skill + "_skill",
		Preconditions: state.Map{
			"location_context": state.Map{"at_workshop": true},
			"inventory_status": state.Map{"materials_ready": true},
		},
		Effects: state.Map{
			"skill_status": state.Map{skill: "set-on-success"},
		},
		Weight: WeightUpgradeSkill,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetItem {
				return Result{Err: errNoTarget("upgrade_" + skill + "_skill")}
			}
			resp, err := client.Craft(ctx, ac.Character.Name, ac.Target.ItemCode, 1)
			if err != nil {
				return Result{Err: err}
			}
			ac.RefreshCharacter(resp.Character)
			level := resp.Character.Skills.Level(skill)
			return Result{
				Success: true,
				Data:    map[string]any{"skill": skill, "level": level},
				StateChanges: state.Map{
					"skill_status": state.Map{skill: level},
				},
				CooldownSeconds: resp.CooldownSeconds,
			}
		},
	}
}

// analyzeCraftingChainDescriptor is pure analysis: confirms the target
// item's recipe (and its craftability) is known, fetching it once if not.
func analyzeCraftingChainDescriptor() *Descriptor {
	return &Descriptor{
		Name: "analyze_crafting_chain",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"item_known": true},
		},
		Weight: WeightAnalyze,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetItem || ac.Knowledge == nil {
				return Result{Err: errNoTarget("analyze_crafting_chain")}
			}
			item, ok, err := ac.Knowledge.GetItem(ctx, client, ac.Target.ItemCode)
			if err != nil {
				return Result{Err: err}
			}
			return Result{
				Success: ok,
				Data:    map[string]any{"craftable": item.Craftable()},
				StateChanges: state.Map{
					"knowledge_status": state.Map{"item_known": ok},
				},
			}
		},
	}
}

// analyzeCraftingRequirementsDescriptor checks ac.CraftPlan against the
// current inventory without mutating anything server-side.
func analyzeCraftingRequirementsDescriptor() *Descriptor {
	return &Descriptor{
		Name: "analyze_crafting_requirements",
		Preconditions: state.Map{
			"knowledge_status": state.Map{"item_known": true},
		},
		Effects: state.Map{
			"inventory_status": state.Map{"materials_ready": "set-on-success"},
		},
		Weight: WeightAnalyze,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.CraftPlan == nil {
				return Result{Err: errNoTarget("analyze_crafting_requirements")}
			}
			ready := materialsSatisfied(ac)
			return Result{
				Success: true,
				Data:    map[string]any{"materials_ready": ready},
				StateChanges: state.Map{
					"inventory_status": state.Map{"materials_ready": ready},
				},
			}
		},
	}
}

// transformRawMaterialsDescriptor refines a gathered raw material into its
// workshop-processed form (e.g. copper_ore -> copper_bar), modeled as a
// craft call against the refined item's recipe.
func transformRawMaterialsDescriptor() *Descriptor {
	return &Descriptor{
		Name: "transform_raw_materials",
		Preconditions: state.Map{
			"location_context": state.Map{"at_workshop": true},
		},
		Effects: state.Map{
			"inventory_status": state.Map{"materials_ready": "set-on-success"},
		},
		Weight: WeightCraft,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetItem {
				return Result{Err: errNoTarget("transform_raw_materials")}
			}
			resp, err := client.Craft(ctx, ac.Character.Name, ac.Target.ItemCode, 1)
			if err != nil {
				return Result{Err: err}
			}
			ac.RefreshCharacter(resp.Character)
			return Result{
				Success: true,
				StateChanges: state.Map{
					"inventory_status": state.Map{"materials_ready": true},
				},
				CooldownSeconds: resp.CooldownSeconds,
			}
		},
	}
}
