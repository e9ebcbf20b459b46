// Package actioncontext defines the ActionContext (spec.md 3.1): a mutable
// blackboard shared by reference through one planning-and-execution cycle.
package actioncontext

import (
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/mapcache"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// TargetKind discriminates which field of Target is populated.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetItem
	TargetMonster
	TargetResource
	TargetCoords
)

// Target is the sum type over what an action is currently aimed at: an
// item code, a monster code, a resource code, or a bare coordinate
// (spec.md 3.1 "selected target").
type Target struct {
	Kind TargetKind

	ItemCode     string
	MonsterCode  string
	ResourceCode string

	X, Y int
}

// SearchParams bounds a map/knowledge search invoked by an action
// (e.g. find_resources, find_monsters).
type SearchParams struct {
	CenterX, CenterY int
	MaxRadius        int
	NearestOnly      bool
}

// Context is the ActionContext. It is not safe for concurrent use: the
// single-agent loop and the action it is currently executing are the only
// writers, matching the "no locks needed" policy of spec.md 4.1.
type Context struct {
	Character model.Character

	Goal state.Map

	Target       Target
	TargetSearch SearchParams

	// CraftPlan is the intermediate result of plan_crafting_materials:
	// material code -> quantity still needed.
	CraftPlan map[string]int

	// SearchResults holds the last find_resources/find_monsters/find_workshops
	// hits for a subsequent action (e.g. move_to_resource) to consume.
	SearchResults []mapcache.Result

	Knowledge *knowledge.Base
	MapCache  *mapcache.Cache
	Client    gameclient.GameClient
}

// New constructs a Context wired to the given shared handles. character is
// the initial snapshot; it is refreshed in place by RefreshCharacter as
// actions observe updated server state (spec.md 3.2: the snapshot is
// read-only between planning and the first action, and must be refreshed
// before the next plan).
func New(character model.Character, kb *knowledge.Base, mc *mapcache.Cache, client gameclient.GameClient) *Context {
	return &Context{
		Character: character,
		Knowledge: kb,
		MapCache:  mc,
		Client:    client,
	}
}

// RefreshCharacter replaces the character snapshot, e.g. after an action's
// ActionResponse reports the server's post-action state.
func (c *Context) RefreshCharacter(updated model.Character) {
	c.Character = updated
}

// SetItemTarget points the context at a specific item code.
func (c *Context) SetItemTarget(code string) { c.Target = Target{Kind: TargetItem, ItemCode: code} }

// SetMonsterTarget points the context at a specific monster code.
func (c *Context) SetMonsterTarget(code string) {
	c.Target = Target{Kind: TargetMonster, MonsterCode: code}
}

// SetResourceTarget points the context at a specific resource code.
func (c *Context) SetResourceTarget(code string) {
	c.Target = Target{Kind: TargetResource, ResourceCode: code}
}

// SetCoordsTarget points the context at a bare coordinate.
func (c *Context) SetCoordsTarget(x, y int) {
	c.Target = Target{Kind: TargetCoords, X: x, Y: y}
}
