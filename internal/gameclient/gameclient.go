// Package gameclient defines the capability the core depends on (spec.md
// §6.1: a typed request/response client against the game server) and a
// concrete resty-backed implementation. The core never imports the http
// implementation directly; it is injected as the GameClient interface so
// tests can substitute an in-memory fake.
package gameclient

import (
	"context"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/model"
)

// ActionResponse is the common shape returned by every action endpoint:
// an updated character snapshot plus the cooldown the server armed.
type ActionResponse struct {
	Character       model.Character
	CooldownSeconds float64
	Data            map[string]any
}

// GameClient is the narrow capability the core consumes (spec.md §6.1).
// Implementations must surface typed errors via errtaxonomy.
type GameClient interface {
	GetCharacter(ctx context.Context, name string) (model.Character, error)
	GetCharacters(ctx context.Context) ([]model.Character, error)
	GetMap(ctx context.Context, x, y int) (model.MapTile, error)
	GetItem(ctx context.Context, code string) (model.ItemRecord, error)
	GetMonster(ctx context.Context, code string) (model.MonsterRecord, error)
	GetResource(ctx context.Context, code string) (model.ResourceRecord, error)

	Move(ctx context.Context, name string, x, y int) (ActionResponse, error)
	Attack(ctx context.Context, name string) (ActionResponse, error)
	Gather(ctx context.Context, name string) (ActionResponse, error)
	Craft(ctx context.Context, name, code string, quantity int) (ActionResponse, error)
	Equip(ctx context.Context, name, code string, slot model.EquipmentSlot) (ActionResponse, error)
	Unequip(ctx context.Context, name string, slot model.EquipmentSlot, quantity int) (ActionResponse, error)
	Rest(ctx context.Context, name string) (ActionResponse, error)

	// SupportsSearch probes whether the item search endpoint is available.
	// spec.md §9 Open Question: LookupItemInfoAction's search endpoint is
	// missing from the real API; actions gate on this instead of assuming it.
	SupportsSearch() bool
	SearchItems(ctx context.Context, query string) ([]model.ItemRecord, error)
}

// Deadline is the default per-request timeout (spec.md §5 "Timeouts").
const Deadline = 30 * time.Second
