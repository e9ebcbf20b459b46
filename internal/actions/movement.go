package actions

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// RegisterMovement adds move, move_to_resource, move_to_workshop
// (spec.md 4.4).
func RegisterMovement(r *Registry) {
	r.Register(moveDescriptor())
	r.Register(moveToResourceDescriptor())
	r.Register(moveToWorkshopDescriptor())
}

func doMove(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context, x, y int) Result {
	if ac.Character.X == x && ac.Character.Y == y {
		return Result{
			Success: true,
			Data:    map[string]any{"moved": false},
			StateChanges: state.Map{
				"location_context": state.Map{"x": x, "y": y},
			},
		}
	}
	resp, err := client.Move(ctx, ac.Character.Name, x, y)
	if err != nil {
		return Result{Err: err}
	}
	ac.RefreshCharacter(resp.Character)
	return Result{
		Success: true,
		Data:    map[string]any{"moved": true},
		StateChanges: state.Map{
			"location_context": state.Map{"x": resp.Character.X, "y": resp.Character.Y},
		},
		CooldownSeconds: resp.CooldownSeconds,
	}
}

func moveDescriptor() *Descriptor {
	return &Descriptor{
		Name: "move",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"location_context": state.Map{"at_monster": true, "at_resource": true, "at_workshop": true},
		},
		Weight: WeightMove,
		ParameterBinder: func(ac *actioncontext.Context) map[string]any {
			return map[string]any{"x": ac.Target.X, "y": ac.Target.Y}
		},
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			return doMove(ctx, client, ac, ac.Target.X, ac.Target.Y)
		},
	}
}

func moveToResourceDescriptor() *Descriptor {
	return &Descriptor{
		Name: "move_to_resource",
		Preconditions: state.Map{
			"knowledge_status": state.Map{"resource_known": true},
		},
		Effects: state.Map{
			"location_context": state.Map{"at_resource": true},
		},
		Weight: WeightMove,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetResource || ac.Knowledge == nil {
				return Result{Err: errNoTarget("move_to_resource")}
			}
			locs := ac.Knowledge.FindResourcesInMap([]string{ac.Target.ResourceCode}, ac.Character.X, ac.Character.Y, defaultSearchRadius, ac.MapCache)
			if len(locs) == 0 {
				return Result{Err: errNoTarget("move_to_resource")}
			}
			res := doMove(ctx, client, ac, locs[0].X, locs[0].Y)
			if res.Success {
				if res.StateChanges == nil {
					res.StateChanges = state.Map{}
				}
				res.StateChanges["location_context"] = state.Map{"at_resource": true}
			}
			return res
		},
	}
}

func moveToWorkshopDescriptor() *Descriptor {
	return &Descriptor{
		Name: "move_to_workshop",
		Preconditions: state.Map{
			"knowledge_status": state.Map{"workshop_known": true},
		},
		Effects: state.Map{
			"location_context": state.Map{"at_workshop": true},
		},
		Weight: WeightMove,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			skill := craftingSkillFromContext(ac)
			if skill == "" || ac.Knowledge == nil {
				return Result{Err: errNoTarget("move_to_workshop")}
			}
			w, ok := ac.Knowledge.GetWorkshop(skill)
			if !ok || len(w.Locations) == 0 {
				return Result{Err: errNoTarget("move_to_workshop")}
			}
			loc := w.Locations[0]
			res := doMove(ctx, client, ac, loc.X, loc.Y)
			if res.Success {
				if res.StateChanges == nil {
					res.StateChanges = state.Map{}
				}
				res.StateChanges["location_context"] = state.Map{"at_workshop": true}
			}
			return res
		},
	}
}

// craftingSkillFromContext resolves which workshop skill the currently
// targeted item requires, via the knowledge base's recorded craft data.
func craftingSkillFromContext(ac *actioncontext.Context) string {
	if ac.Target.Kind != actioncontext.TargetItem || ac.Knowledge == nil {
		return ""
	}
	item, ok, _ := ac.Knowledge.GetItem(context.Background(), nil, ac.Target.ItemCode)
	if !ok || item.CraftData == nil {
		return ""
	}
	return item.CraftData.Skill
}
