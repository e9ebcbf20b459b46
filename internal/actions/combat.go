package actions

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// RegisterCombat adds the combat action family to r: attack, rest,
// initiate_combat_search, find_monsters, analyze_combat_viability
// (spec.md 4.4).
func RegisterCombat(r *Registry) {
	r.Register(attackDescriptor())
	r.Register(restDescriptor())
	r.Register(initiateCombatSearchDescriptor())
	r.Register(findMonstersDescriptor())
	r.Register(analyzeCombatViabilityDescriptor())
}

func attackDescriptor() *Descriptor {
	return &Descriptor{
		Name: "attack",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
			"location_context": state.Map{"at_monster": true},
			"combat_context":   state.Map{"monster_engageable": true},
		},
		Effects: state.Map{
			"combat_context": state.Map{"status": "won"},
		},
		Weight: WeightAttack,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			beforeHP := ac.Character.HP
			resp, err := client.Attack(ctx, ac.Character.Name)
			if err != nil {
				return Result{Err: err}
			}
			ac.RefreshCharacter(resp.Character)

			outcome := "won"
			hpLost := beforeHP - resp.Character.HP
			if hpLost < 0 {
				hpLost = 0
			}
			if resp.Character.HP <= 0 {
				outcome = "lost"
			}
			if ac.Knowledge != nil && ac.Target.Kind == actioncontext.TargetMonster {
				// Combat history records "win"/"loss", the values WinRate counts.
				result := "win"
				if outcome == "lost" {
					result = "loss"
				}
				ac.Knowledge.LearnCombat(ac.Target.MonsterCode, result, hpLost)
			}

			return Result{
				Success: true,
				Data:    map[string]any{"outcome": outcome, "hp_lost": hpLost},
				StateChanges: state.Map{
					"combat_context": state.Map{"status": outcome},
					"character_status": state.Map{
						"hp_percent": hpPercent(resp.Character),
						"alive":      resp.Character.HP > 0,
					},
				},
				CooldownSeconds: resp.CooldownSeconds,
			}
		},
	}
}

func hpPercent(c model.Character) float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

func restDescriptor() *Descriptor {
	return &Descriptor{
		Name: "rest",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true, "hp_percent": "<100"},
		},
		Effects: state.Map{
			"character_status": state.Map{"hp_percent": 100.0},
		},
		Weight: WeightRest,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			resp, err := client.Rest(ctx, ac.Character.Name)
			if err != nil {
				return Result{Err: err}
			}
			ac.RefreshCharacter(resp.Character)
			return Result{
				Success: true,
				StateChanges: state.Map{
					"character_status": state.Map{"hp_percent": hpPercent(resp.Character), "alive": true},
				},
				CooldownSeconds: resp.CooldownSeconds,
			}
		},
	}
}

// initiateCombatSearchDescriptor seeds ac.Target with a specific,
// knowledge-vetted monster before attack runs, rather than leaving attack
// to discover an unengageable target after committing to combat.
func initiateCombatSearchDescriptor() *Descriptor {
	return &Descriptor{
		Name: "initiate_combat_search",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"combat_context": state.Map{"monster_known": true},
		},
		Weight: WeightMove,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.MapCache == nil || ac.Knowledge == nil {
				return Result{Err: errNoCollaborator("initiate_combat_search")}
			}
			results, err := ac.MapCache.Search(ctx, client, ac.Character.X, ac.Character.Y, defaultSearchRadius,
				func(t model.MapTile) bool { return t.Content != nil && t.Content.Type == model.ContentMonster }, false)
			if err != nil {
				return Result{Err: err}
			}
			for _, res := range results {
				code := res.Tile.Content.Code
				if ac.Knowledge.IsMonsterEngageable(code, ac.Character.Level) {
					ac.SetMonsterTarget(code)
					ac.SetCoordsTarget(res.Tile.X, res.Tile.Y)
					ac.Knowledge.LearnLocation("monster", code, res.Tile.X, res.Tile.Y)
					return Result{
						Success: true,
						Data:    map[string]any{"target": code, "x": res.Tile.X, "y": res.Tile.Y},
						StateChanges: state.Map{
							"combat_context": state.Map{"monster_known": true},
						},
					}
				}
			}
			return Result{Success: false, Err: errNoTarget("initiate_combat_search")}
		},
	}
}

func findMonstersDescriptor() *Descriptor {
	return &Descriptor{
		Name: "find_monsters",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"combat_context": state.Map{"monster_known": true},
		},
		Weight: WeightMapLookup,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.MapCache == nil {
				return Result{Err: errNoCollaborator("find_monsters")}
			}
			results, err := ac.MapCache.Search(ctx, client, ac.Character.X, ac.Character.Y, defaultSearchRadius,
				func(t model.MapTile) bool { return t.Content != nil && t.Content.Type == model.ContentMonster }, false)
			if err != nil {
				return Result{Err: err}
			}
			ac.SearchResults = results
			return Result{
				Success: len(results) > 0,
				Data:    map[string]any{"count": len(results)},
				StateChanges: state.Map{
					"combat_context": state.Map{"monster_known": len(results) > 0},
				},
			}
		},
	}
}

// analyzeCombatViabilityDescriptor is pure analysis: it consults the
// knowledge base's engageability policy (IsMonsterEngageable) for whatever
// monster ac.Target currently names, without any network call.
func analyzeCombatViabilityDescriptor() *Descriptor {
	return &Descriptor{
		Name: "analyze_combat_viability",
		Preconditions: state.Map{
			"combat_context": state.Map{"monster_known": true},
		},
		Effects: state.Map{
			"combat_context": state.Map{"monster_engageable": true},
		},
		Weight: WeightAnalyze,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetMonster || ac.Knowledge == nil {
				return Result{Err: errNoTarget("analyze_combat_viability")}
			}
			engageable := ac.Knowledge.IsMonsterEngageable(ac.Target.MonsterCode, ac.Character.Level)
			return Result{
				Success: true,
				Data:    map[string]any{"engageable": engageable},
				StateChanges: state.Map{
					"combat_context": state.Map{"monster_engageable": engageable},
				},
			}
		},
	}
}
