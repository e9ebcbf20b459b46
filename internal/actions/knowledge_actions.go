package actions

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/errtaxonomy"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// RegisterKnowledge adds map_lookup, lookup_item_info, explore_map,
// analyze_knowledge_state (spec.md 4.4).
func RegisterKnowledge(r *Registry) {
	r.Register(mapLookupDescriptor())
	r.Register(lookupItemInfoDescriptor())
	r.Register(exploreMapDescriptor())
	r.Register(analyzeKnowledgeStateDescriptor())
}

// mapLookupDescriptor reads a single tile, using the cache when fresh.
func mapLookupDescriptor() *Descriptor {
	return &Descriptor{
		Name: "map_lookup",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"map_explored": true},
		},
		Weight: WeightMapLookup,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.MapCache == nil {
				return Result{Err: errNoCollaborator("map_lookup")}
			}
			x, y := ac.Target.X, ac.Target.Y
			if tile, ok := ac.MapCache.Get(x, y, true); ok {
				return Result{Success: true, Data: map[string]any{"tile": tile}}
			}
			tile, err := client.GetMap(ctx, x, y)
			if err != nil {
				if errtaxonomy.Is(err, errtaxonomy.NotFound) {
					ac.MapCache.RecordBoundary(x, y)
				}
				return Result{Err: err}
			}
			ac.MapCache.Put(tile)
			return Result{
				Success: true,
				Data:    map[string]any{"tile": tile},
				StateChanges: state.Map{
					"knowledge_status": state.Map{"map_explored": true},
				},
			}
		},
	}
}

// lookupItemInfoDescriptor resolves item metadata via the search endpoint
// when available, falling back to the direct get_item lookup the real API
// always supports (spec.md 9 Open Question: the search endpoint does not
// exist server-side, so this degrades to NotFound only when both the
// search probe and the direct lookup fail).
func lookupItemInfoDescriptor() *Descriptor {
	return &Descriptor{
		Name: "lookup_item_info",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"item_known": true},
		},
		Weight: WeightMapLookup,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Target.Kind != actioncontext.TargetItem {
				return Result{Err: errNoTarget("lookup_item_info")}
			}
			if client.SupportsSearch() {
				results, err := client.SearchItems(ctx, ac.Target.ItemCode)
				if err == nil && len(results) > 0 {
					if ac.Knowledge != nil {
						ac.Knowledge.GetItem(ctx, client, ac.Target.ItemCode) //nolint:errcheck // best-effort cache warm
					}
					return Result{
						Success: true,
						Data:    map[string]any{"source": "search", "item": results[0]},
						StateChanges: state.Map{
							"knowledge_status": state.Map{"item_known": true},
						},
					}
				}
			}
			if ac.Knowledge == nil {
				return Result{Err: errNoCollaborator("lookup_item_info")}
			}
			item, ok, err := ac.Knowledge.GetItem(ctx, client, ac.Target.ItemCode)
			if err != nil {
				return Result{Err: err}
			}
			return Result{
				Success: ok,
				Data:    map[string]any{"source": "direct", "item": item},
				StateChanges: state.Map{
					"knowledge_status": state.Map{"item_known": ok},
				},
			}
		},
	}
}

// exploreMapDescriptor performs a bounded expanding-ring scan without a
// content filter, populating the MapCache for later searches. Distinct
// from find_resources/find_monsters/find_workshops, which filter for a
// specific content kind (spec.md 9 Open Question).
func exploreMapDescriptor() *Descriptor {
	return &Descriptor{
		Name: "explore_map",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"map_explored": true},
		},
		Weight: WeightExplore,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.MapCache == nil {
				return Result{Err: errNoCollaborator("explore_map")}
			}
			radius := ac.TargetSearch.MaxRadius
			if radius <= 0 {
				radius = defaultSearchRadius
			}
			results, err := ac.MapCache.Search(ctx, client, ac.Character.X, ac.Character.Y, radius, nil, false)
			if err != nil {
				return Result{Err: err}
			}
			ac.SearchResults = results
			return Result{
				Success: true,
				Data:    map[string]any{"tiles_scanned": len(results)},
				StateChanges: state.Map{
					"knowledge_status": state.Map{"map_explored": true},
				},
			}
		},
	}
}

// analyzeKnowledgeStateDescriptor is a pure introspection action: it
// reports whether the target entity (of whichever kind ac.Target names)
// has been observed at all, without performing any I/O.
func analyzeKnowledgeStateDescriptor() *Descriptor {
	return &Descriptor{
		Name: "analyze_knowledge_state",
		Preconditions: state.Map{
			"character_status": state.Map{"alive": true},
		},
		Effects: state.Map{
			"knowledge_status": state.Map{"item_known": "set-on-success"},
		},
		Weight: WeightAnalyze,
		Execute: func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result {
			if ac.Knowledge == nil {
				return Result{Err: errNoCollaborator("analyze_knowledge_state")}
			}
			known := false
			switch ac.Target.Kind {
			case actioncontext.TargetItem:
				_, known, _ = ac.Knowledge.GetItem(ctx, nil, ac.Target.ItemCode)
			case actioncontext.TargetMonster:
				_, known, _ = ac.Knowledge.GetMonster(ctx, nil, ac.Target.MonsterCode)
			case actioncontext.TargetResource:
				_, known, _ = ac.Knowledge.GetResource(ctx, nil, ac.Target.ResourceCode)
			}
			return Result{
				Success: true,
				Data:    map[string]any{"known": known},
			}
		},
	}
}
