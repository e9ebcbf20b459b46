package gameclient

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/errtaxonomy"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
)

// Fake is an in-memory GameClient for unit tests, playing the same role as
// the teacher's internal/testutil mock HTTP server but skipping the wire
// format entirely since the core never talks HTTP directly.
type Fake struct {
	Characters map[string]model.Character
	Maps       map[string]model.MapTile
	Items      map[string]model.ItemRecord
	Monsters   map[string]model.MonsterRecord
	Resources  map[string]model.ResourceRecord

	// MoveFunc etc. let tests script specific action behavior; nil means
	// "apply a trivial default" (move to requested coords, no cooldown).
	MoveFunc   func(ctx context.Context, name string, x, y int) (ActionResponse, error)
	AttackFunc func(ctx context.Context, name string) (ActionResponse, error)
	GatherFunc func(ctx context.Context, name string) (ActionResponse, error)
	CraftFunc  func(ctx context.Context, name, code string, qty int) (ActionResponse, error)
	RestFunc   func(ctx context.Context, name string) (ActionResponse, error)

	SearchEnabled bool
	SearchResults []model.ItemRecord
}

// NewFake returns an empty Fake ready for population by tests.
func NewFake() *Fake {
	return &Fake{
		Characters: map[string]model.Character{},
		Maps:       map[string]model.MapTile{},
		Items:      map[string]model.ItemRecord{},
		Monsters:   map[string]model.MonsterRecord{},
		Resources:  map[string]model.ResourceRecord{},
	}
}

func (f *Fake) GetCharacter(_ context.Context, name string) (model.Character, error) {
	c, ok := f.Characters[name]
	if !ok {
		return model.Character{}, errtaxonomy.New(errtaxonomy.NotFound, "get_character", nil)
	}
	return c, nil
}

func (f *Fake) GetCharacters(_ context.Context) ([]model.Character, error) {
	out := make([]model.Character, 0, len(f.Characters))
	for _, c := range f.Characters {
		out = append(out, c)
	}
	return out, nil
}

func (f *Fake) GetMap(_ context.Context, x, y int) (model.MapTile, error) {
	t, ok := f.Maps[model.Coord(x, y)]
	if !ok {
		return model.MapTile{}, errtaxonomy.New(errtaxonomy.NotFound, "get_map", nil)
	}
	return t, nil
}

func (f *Fake) GetItem(_ context.Context, code string) (model.ItemRecord, error) {
	i, ok := f.Items[code]
	if !ok {
		return model.ItemRecord{}, errtaxonomy.New(errtaxonomy.NotFound, "get_item", nil)
	}
	return i, nil
}

func (f *Fake) GetMonster(_ context.Context, code string) (model.MonsterRecord, error) {
	m, ok := f.Monsters[code]
	if !ok {
		return model.MonsterRecord{}, errtaxonomy.New(errtaxonomy.NotFound, "get_monster", nil)
	}
	return m, nil
}

func (f *Fake) GetResource(_ context.Context, code string) (model.ResourceRecord, error) {
	r, ok := f.Resources[code]
	if !ok {
		return model.ResourceRecord{}, errtaxonomy.New(errtaxonomy.NotFound, "get_resource", nil)
	}
	return r, nil
}

func (f *Fake) Move(ctx context.Context, name string, x, y int) (ActionResponse, error) {
	if f.MoveFunc != nil {
		return f.MoveFunc(ctx, name, x, y)
	}
	c := f.Characters[name]
	if c.X == x && c.Y == y {
		return ActionResponse{Character: c}, nil
	}
	c.X, c.Y = x, y
	f.Characters[name] = c
	return ActionResponse{Character: c}, nil
}

func (f *Fake) Attack(ctx context.Context, name string) (ActionResponse, error) {
	if f.AttackFunc != nil {
		return f.AttackFunc(ctx, name)
	}
	return ActionResponse{Character: f.Characters[name]}, nil
}

func (f *Fake) Gather(ctx context.Context, name string) (ActionResponse, error) {
	if f.GatherFunc != nil {
		return f.GatherFunc(ctx, name)
	}
	return ActionResponse{Character: f.Characters[name]}, nil
}

func (f *Fake) Craft(ctx context.Context, name, code string, qty int) (ActionResponse, error) {
	if f.CraftFunc != nil {
		return f.CraftFunc(ctx, name, code, qty)
	}
	return ActionResponse{Character: f.Characters[name]}, nil
}

func (f *Fake) Equip(_ context.Context, name, code string, slot model.EquipmentSlot) (ActionResponse, error) {
	c := f.Characters[name]
	switch slot {
	case model.SlotWeapon:
		c.Equipment.Weapon = code
	}
	f.Characters[name] = c
	return ActionResponse{Character: c}, nil
}

func (f *Fake) Unequip(_ context.Context, name string, slot model.EquipmentSlot, _ int) (ActionResponse, error) {
	c := f.Characters[name]
	switch slot {
	case model.SlotWeapon:
		c.Equipment.Weapon = ""
	}
	f.Characters[name] = c
	return ActionResponse{Character: c}, nil
}

func (f *Fake) Rest(ctx context.Context, name string) (ActionResponse, error) {
	if f.RestFunc != nil {
		return f.RestFunc(ctx, name)
	}
	c := f.Characters[name]
	c.HP = c.MaxHP
	f.Characters[name] = c
	return ActionResponse{Character: c}, nil
}

func (f *Fake) SupportsSearch() bool { return f.SearchEnabled }

func (f *Fake) SearchItems(_ context.Context, _ string) ([]model.ItemRecord, error) {
	if !f.SearchEnabled {
		return nil, errtaxonomy.New(errtaxonomy.NotFound, "search_items", nil)
	}
	return f.SearchResults, nil
}

var _ GameClient = (*Fake)(nil)
