package actions

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// RegisterGathering adds gather_resources, gather_resource_quantity,
// find_resources, find_workshops (spec.md 4.4).
func RegisterGathering(r *Registry) {
	r.Register(gatherResourcesDescriptor())
	r.Register(gatherResourceQuantityDescriptor())
	r.Register(findResourcesDescriptor())
	r.Register(findWorkshopsDescriptor())
}

func doGather(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
	resp, err := client.Gather(ctx, ac.Character.Name)
	if err != nil {
		return Result{Err: err}
	}
	ac.RefreshCharacter(resp.Character)
	if ac.Knowledge != nil && ac.Target.Kind == actioncontext.TargetResource {
		ac.Knowledge.LearnLocation("resource", ac.Target.ResourceCode, ac.Character.X, ac.Character.Y)
	}
	qty := 0
	if ac.Target.Kind == actioncontext.TargetResource {
		qty = resp.Character.InventoryQuantity(ac.Target.ResourceCode)
	}
	return Result{
		Success: true,
		Data:    map[string]any{"inventory_quantity": qty},
		StateChanges: state.Map{
			"inventory_status": state.Map{"target_material_qty": qty},
		},
		CooldownSeconds: resp.CooldownSeconds,
	}
}

func gatherResourcesDescriptor() *Descriptor {
	return &Descriptor{
		Name: "gather_resources",
		Preconditions: state.Map{
			"location_context": state.Map{"at_resource": true},
		},
		Effects: state.Map{
			"inventory_status": state.Map{"target_material_qty": ">0"},
		},
		Weight: WeightGather,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			return doGather(ctx, client, ac)
		},
	}
}

// gatherResourceQuantityDescriptor is gather_resources aimed at a target
// count; each Execute still gathers once (spec.md 4.6's one-action-per-
// execute model). The count is not read here: the loop repeats this step
// until the inventory reaches the active goal's
// inventory_status.target_material_qty threshold.
func gatherResourceQuantityDescriptor() *Descriptor {
	return &Descriptor{
		Name: "gather_resource_quantity",
		Preconditions: state.Map{
			"location_context": state.Map{"at_resource": true},
		},
		Effects: state.Map{
			"inventory_status": state.Map{"target_material_qty": ">0"},
		},
		Weight: WeightGather,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			return doGather(ctx, client, ac)
		},
	}
}

// findResourcesDescriptor resolves a resource location in knowledge-then-
// map-then-API order: a knowledge-base hit (no I/O) is preferred over a
// MapCache scan, which itself only calls out to the client for tiles not
// already cached.
func findResourcesDescriptor() *Descriptor {
	return &Descriptor{
		Name: "find_resources",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"resource_known": true},
		},
		Weight: WeightMapLookup,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetResource || ac.Knowledge == nil {
				return Result{Err: errNoTarget("find_resources")}
			}
			code := ac.Target.ResourceCode

			if locs := ac.Knowledge.FindResourcesInMap([]string{code}, ac.Character.X, ac.Character.Y, defaultSearchRadius, ac.MapCache); len(locs) > 0 {
				return Result{
					Success: true,
					Data:    map[string]any{"source": "knowledge", "count": len(locs)},
					StateChanges: state.Map{
						"knowledge_status": state.Map{"resource_known": true},
					},
				}
			}

			if ac.MapCache == nil {
				return Result{Err: errNoCollaborator("find_resources")}
			}
			results, err := ac.MapCache.Search(ctx, client, ac.Character.X, ac.Character.Y, defaultSearchRadius,
				func(t model.MapTile) bool { return t.Content != nil && t.Content.Code == code }, false)
			if err != nil {
				return Result{Err: err}
			}
			for _, res := range results {
				ac.Knowledge.LearnLocation("resource", code, res.Tile.X, res.Tile.Y)
			}
			return Result{
				Success: len(results) > 0,
				Data:    map[string]any{"source": "map_or_api", "count": len(results)},
				StateChanges: state.Map{
					"knowledge_status": state.Map{"resource_known": len(results) > 0},
				},
			}
		},
	}
}

func findWorkshopsDescriptor() *Descriptor {
	return &Descriptor{
		Name: "find_workshops",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"workshop_known": true},
		},
		Weight: WeightMapLookup,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.MapCache == nil || ac.Knowledge == nil {
				return Result{Err: errNoCollaborator("find_workshops")}
			}
			results, err := ac.MapCache.Search(ctx, client, ac.Character.X, ac.Character.Y, defaultSearchRadius,
				func(t model.MapTile) bool { return t.Content != nil && t.Content.Type == model.ContentWorkshop }, false)
			if err != nil {
				return Result{Err: err}
			}
			for _, res := range results {
				ac.Knowledge.LearnWorkshop(res.Tile.Content.Code, res.Tile.Content.Code, res.Tile.X, res.Tile.Y)
			}
			return Result{
				Success: len(results) > 0,
				Data:    map[string]any{"count": len(results)},
				StateChanges: state.Map{
					"knowledge_status": state.Map{"workshop_known": len(results) > 0},
				},
			}
		},
	}
}
