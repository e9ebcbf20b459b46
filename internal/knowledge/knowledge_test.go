package knowledge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	monsters  map[string]model.MonsterRecord
	resources map[string]model.ResourceRecord
	items     map[string]model.ItemRecord
	calls     int
}

func (f *fakeFetcher) GetMonster(_ context.Context, code string) (model.MonsterRecord, error) {
	f.calls++
	m, ok := f.monsters[code]
	if !ok {
		return model.MonsterRecord{}, errors.New("not found")
	}
	return m, nil
}

func (f *fakeFetcher) GetResource(_ context.Context, code string) (model.ResourceRecord, error) {
	f.calls++
	r, ok := f.resources[code]
	if !ok {
		return model.ResourceRecord{}, errors.New("not found")
	}
	return r, nil
}

func (f *fakeFetcher) GetItem(_ context.Context, code string) (model.ItemRecord, error) {
	f.calls++
	i, ok := f.items[code]
	if !ok {
		return model.ItemRecord{}, errors.New("not found")
	}
	return i, nil
}

func TestGetMonsterFetchesOnceThenCaches(t *testing.T) {
	b := New("")
	fetcher := &fakeFetcher{monsters: map[string]model.MonsterRecord{"chicken": {Code: "chicken", Level: 1}}}

	m, ok, err := b.GetMonster(context.Background(), fetcher, "chicken")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, m.Level)
	assert.Equal(t, 1, fetcher.calls)

	_, _, err = b.GetMonster(context.Background(), fetcher, "chicken")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls, "second lookup must not hit the fetcher again")
}

func TestLearnCombatAppendsHistory(t *testing.T) {
	b := New("")
	b.LearnCombat("chicken", "win", 3)
	b.LearnCombat("chicken", "loss", 10)
	rate, samples := b.monsters["chicken"].WinRate()
	assert.Equal(t, 2, samples)
	assert.Equal(t, 0.5, rate)
}

func TestLearnLocationDeduplicates(t *testing.T) {
	b := New("")
	b.LearnLocation("resource", "copper_rocks", 1, 2)
	b.LearnLocation("resource", "copper_rocks", 1, 2)
	b.LearnLocation("resource", "copper_rocks", 3, 4)
	assert.Len(t, b.resources["copper_rocks"].Locations, 2)
}

func TestFindResourcesForMaterial(t *testing.T) {
	b := New("")
	b.resources["copper_rocks"] = model.ResourceRecord{Code: "copper_rocks", Drops: []model.Drop{{Code: "copper_ore"}}}
	b.resources["ash_tree"] = model.ResourceRecord{Code: "ash_tree", Drops: []model.Drop{{Code: "ash_wood"}}}
	codes := b.FindResourcesForMaterial("copper_ore")
	assert.Equal(t, []string{"copper_rocks"}, codes)
}

func TestFindResourcesInMapFiltersByRadiusAndCache(t *testing.T) {
	b := New("")
	b.resources["copper_rocks"] = model.ResourceRecord{
		Code:      "copper_rocks",
		Locations: []model.Location{{X: 1, Y: 0}, {X: 10, Y: 10}},
	}
	cache := fakeLookup{tiles: map[string]model.MapTile{
		"1,0": {X: 1, Y: 0, Content: &model.Content{Type: model.ContentResource, Code: "copper_rocks"}},
	}}
	locs := b.FindResourcesInMap([]string{"copper_rocks"}, 0, 0, 3, cache)
	require.Len(t, locs, 1)
	assert.Equal(t, 1, locs[0].X)
}

type fakeLookup struct {
	tiles map[string]model.MapTile
}

func (f fakeLookup) Get(x, y int, _ bool) (model.MapTile, bool) {
	t, ok := f.tiles[model.Coord(x, y)]
	return t, ok
}

func TestGetMaterialRequirementsNonRecursive(t *testing.T) {
	b := New("")
	b.items["iron_sword"] = model.ItemRecord{
		Code: "iron_sword",
		CraftData: &model.CraftData{
			Items: []model.CraftMaterial{{Code: "iron", Quantity: 3}, {Code: "wood", Quantity: 1}},
		},
	}
	reqs := b.GetMaterialRequirements("iron_sword")
	assert.Equal(t, 3, reqs["iron"])
	assert.Equal(t, 1, reqs["wood"])
}

func TestIsMonsterEngageableUnknownPolicy(t *testing.T) {
	b := New("")
	b.monsters["chicken"] = model.MonsterRecord{Code: "chicken", Level: 1}
	assert.True(t, b.IsMonsterEngageable("chicken", 3), "level 1 monster within +2 of level 3 character is engageable")

	b.monsters["dragon"] = model.MonsterRecord{Code: "dragon", Level: 30}
	assert.False(t, b.IsMonsterEngageable("dragon", 3))

	assert.False(t, b.IsMonsterEngageable("unseen", 3))
}

func TestIsMonsterEngageableAboveSampleThresholdIgnoresLevel(t *testing.T) {
	b := New("")
	b.monsters["dragon"] = model.MonsterRecord{
		Code:  "dragon",
		Level: 30,
		Combat: []model.CombatResult{
			{Result: "win"}, {Result: "win"},
		},
	}
	assert.True(t, b.IsMonsterEngageable("dragon", 3))
}

func TestHasTargetItemChecksInventoryAndEquipment(t *testing.T) {
	c := model.Character{Inventory: []model.InventorySlot{{ItemCode: "copper_ore", Quantity: 2}}}
	assert.True(t, HasTargetItem(c, "copper_ore"))
	assert.False(t, HasTargetItem(c, "iron_ore"))

	c2 := model.Character{Equipment: model.Equipment{Weapon: "iron_sword"}}
	assert.True(t, HasTargetItem(c2, "iron_sword"))
}

func TestIsAtWorkshopMatchesSkillAndPosition(t *testing.T) {
	b := New("")
	b.LearnWorkshop("weaponcrafting", "weaponcrafting", 4, 1)
	c := model.Character{X: 4, Y: 1}
	assert.True(t, b.IsAtWorkshop(c, "weaponcrafting"))
	assert.False(t, b.IsAtWorkshop(c, "cooking"))
}

func TestIsAtResourceLocationMatchesDropAndPosition(t *testing.T) {
	b := New("")
	b.resources["copper_rocks"] = model.ResourceRecord{
		Code:      "copper_rocks",
		Drops:     []model.Drop{{Code: "copper_ore"}},
		Locations: []model.Location{{X: 2, Y: 2}},
	}
	c := model.Character{X: 2, Y: 2}
	assert.True(t, b.IsAtResourceLocation(c, "copper_ore"))
	assert.False(t, b.IsAtResourceLocation(c, "ash_wood"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.yaml")

	b := New(path)
	b.LearnCombat("chicken", "win", 1)
	b.LearnWorkshop("weaponcrafting", "weaponcrafting", 4, 1)
	require.NoError(t, b.Save())

	reloaded := New(path)
	require.NoError(t, reloaded.Load())
	_, samples := reloaded.monsters["chicken"].WinRate()
	assert.Equal(t, 1, samples)
	_, ok := reloaded.GetWorkshop("weaponcrafting")
	assert.True(t, ok)
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, b.Load())
}
