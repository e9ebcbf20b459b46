// Package knowledge implements the KnowledgeBase (spec.md 4.3): an
// append-mostly store of discovered monsters, resources, items, and
// workshops, plus heuristic capability checks computed live from a
// character snapshot rather than persisted as booleans.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"gopkg.in/yaml.v3"
)

// MinimumCombatResults is the sample count below which a monster is
// classified as unknown (spec.md 4.5).
const MinimumCombatResults = 2

// UnknownMonsterMaxLevelDelta bounds how far above the character's level an
// unknown monster may be and still be considered engageable (spec.md 4.5:
// "monster level <= character level + 2").
const UnknownMonsterMaxLevelDelta = 2

// Fetcher is the one-shot API lookup used when an entity is unknown
// locally. gameclient.GameClient satisfies this for the entity kinds it
// covers.
type Fetcher interface {
	GetMonster(ctx context.Context, code string) (model.MonsterRecord, error)
	GetResource(ctx context.Context, code string) (model.ResourceRecord, error)
	GetItem(ctx context.Context, code string) (model.ItemRecord, error)
}

// Base is the KnowledgeBase.
type Base struct {
	monsters  map[string]model.MonsterRecord
	resources map[string]model.ResourceRecord
	items     map[string]model.ItemRecord
	workshops map[string]model.WorkshopRecord
	path      string
}

type onDisk struct {
	Monsters  map[string]model.MonsterRecord  `yaml:"monsters"`
	Resources map[string]model.ResourceRecord `yaml:"resources"`
	Items     map[string]model.ItemRecord     `yaml:"items"`
	Workshops map[string]model.WorkshopRecord `yaml:"workshops"`
}

// New constructs an empty Base. path is where Save/Load persist; empty
// disables persistence.
func New(path string) *Base {
	return &Base{
		monsters:  map[string]model.MonsterRecord{},
		resources: map[string]model.ResourceRecord{},
		items:     map[string]model.ItemRecord{},
		workshops: map[string]model.WorkshopRecord{},
		path:      path,
	}
}

// GetMonster returns the known record for code, fetching it once via
// fetcher if not already known (spec.md 4.3).
func (b *Base) GetMonster(ctx context.Context, fetcher Fetcher, code string) (model.MonsterRecord, bool, error) {
	if m, ok := b.monsters[code]; ok {
		return m, true, nil
	}
	if fetcher == nil {
		return model.MonsterRecord{}, false, nil
	}
	m, err := fetcher.GetMonster(ctx, code)
	if err != nil {
		return model.MonsterRecord{}, false, err
	}
	b.monsters[code] = m
	return m, true, nil
}

// GetResource mirrors GetMonster for resources.
func (b *Base) GetResource(ctx context.Context, fetcher Fetcher, code string) (model.ResourceRecord, bool, error) {
	if r, ok := b.resources[code]; ok {
		return r, true, nil
	}
	if fetcher == nil {
		return model.ResourceRecord{}, false, nil
	}
	r, err := fetcher.GetResource(ctx, code)
	if err != nil {
		return model.ResourceRecord{}, false, err
	}
	b.resources[code] = r
	return r, true, nil
}

// GetItem mirrors GetMonster for items.
func (b *Base) GetItem(ctx context.Context, fetcher Fetcher, code string) (model.ItemRecord, bool, error) {
	if i, ok := b.items[code]; ok {
		return i, true, nil
	}
	if fetcher == nil {
		return model.ItemRecord{}, false, nil
	}
	i, err := fetcher.GetItem(ctx, code)
	if err != nil {
		return model.ItemRecord{}, false, err
	}
	b.items[code] = i
	return i, true, nil
}

// GetWorkshop returns the known record for code. Workshops have no direct
// API lookup (they are discovered only by scanning the map), so there is
// no fetcher fallback.
func (b *Base) GetWorkshop(code string) (model.WorkshopRecord, bool) {
	w, ok := b.workshops[code]
	return w, ok
}

// LearnWorkshop records a workshop's skill and location the first time it
// is observed; subsequent sightings append the location if new.
func (b *Base) LearnWorkshop(code, skill string, x, y int) {
	w, ok := b.workshops[code]
	if !ok {
		w = model.WorkshopRecord{Code: code, Skill: skill}
	}
	w.Locations = appendLocation(w.Locations, x, y)
	b.workshops[code] = w
}

// LearnCombat appends a combat outcome to the monster's history (spec.md
// 4.3). outcome is "win" or "loss".
func (b *Base) LearnCombat(code, outcome string, hpLost int) {
	m := b.monsters[code]
	m.Code = code
	m.Combat = append(m.Combat, model.CombatResult{Result: outcome, HPLost: hpLost, At: time.Now()})
	b.monsters[code] = m
}

// LearnLocation appends (x,y) to entityCode's discovered locations,
// whichever record kind it belongs to. kind selects monster/resource to
// avoid ambiguity when a code could collide across kinds.
func (b *Base) LearnLocation(kind, entityCode string, x, y int) {
	switch kind {
	case "monster":
		m := b.monsters[entityCode]
		m.Code = entityCode
		m.Locations = appendLocation(m.Locations, x, y)
		b.monsters[entityCode] = m
	case "resource":
		r := b.resources[entityCode]
		r.Code = entityCode
		r.Locations = appendLocation(r.Locations, x, y)
		b.resources[entityCode] = r
	}
}

func appendLocation(locs []model.Location, x, y int) []model.Location {
	for _, l := range locs {
		if l.X == x && l.Y == y {
			return locs
		}
	}
	return append(locs, model.Location{X: x, Y: y})
}

// FindResourcesForMaterial returns the codes of resources known to drop
// materialCode (spec.md 4.3: "reverse index").
func (b *Base) FindResourcesForMaterial(materialCode string) []string {
	var codes []string
	for code, r := range b.resources {
		if r.DropsCode(materialCode) {
			codes = append(codes, code)
		}
	}
	return codes
}

// ResourceLocation is one coordinate at which a resource is known to exist.
type ResourceLocation struct {
	X, Y int
	Code string
}

// MapLookup is the subset of MapCache used by FindResourcesInMap: a plain
// tile lookup rather than the full Scanner, since this join only reads
// already-cached/known locations.
type MapLookup interface {
	Get(x, y int, requireFresh bool) (model.MapTile, bool)
}

// FindResourcesInMap joins the resource locations known for any of codes
// against the map cache, returning only those within Chebyshev distance
// maxRadius of center (spec.md 4.3).
func (b *Base) FindResourcesInMap(codes []string, centerX, centerY, maxRadius int, cache MapLookup) []ResourceLocation {
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}
	var out []ResourceLocation
	for code, r := range b.resources {
		if !wanted[code] {
			continue
		}
		for _, loc := range r.Locations {
			if chebyshev(centerX, centerY, loc.X, loc.Y) > maxRadius {
				continue
			}
			if cache != nil {
				if tile, ok := cache.Get(loc.X, loc.Y, false); !ok || tile.Content == nil || tile.Content.Code != code {
					continue
				}
			}
			out = append(out, ResourceLocation{X: loc.X, Y: loc.Y, Code: code})
		}
	}
	return out
}

func chebyshev(x1, y1, x2, y2 int) int {
	dx, dy := x2-x1, y2-y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// GetMaterialRequirements returns materialCode -> quantity for itemCode's
// recipe, non-recursive (spec.md 4.3): it does not expand sub-recipes of
// the materials themselves.
func (b *Base) GetMaterialRequirements(itemCode string) map[string]int {
	item, ok := b.items[itemCode]
	if !ok || item.CraftData == nil {
		return nil
	}
	out := make(map[string]int, len(item.CraftData.Items))
	for _, m := range item.CraftData.Items {
		out[m.Code] = m.Quantity
	}
	return out
}

// IsMonsterEngageable applies the unknown-monster policy (spec.md 4.5):
// below MinimumCombatResults samples the monster is unknown and engageable
// only if its level is within UnknownMonsterMaxLevelDelta of the
// character's level; at or above the sample threshold it returns true
// without consulting the win rate. A code with no record returns false.
func (b *Base) IsMonsterEngageable(code string, characterLevel int) bool {
	m, ok := b.monsters[code]
	if !ok {
		return false
	}
	_, samples := m.WinRate()
	if samples >= MinimumCombatResults {
		return true
	}
	return m.Level <= characterLevel+UnknownMonsterMaxLevelDelta
}

// HasTargetItem reports whether the character is carrying or wearing
// itemCode (spec.md 4.3 "has_target_item").
func HasTargetItem(character model.Character, itemCode string) bool {
	if character.InventoryQuantity(itemCode) > 0 {
		return true
	}
	return character.Equipment.HasEquipped(itemCode)
}

// IsAtWorkshop reports whether the character's position matches a known
// location for the workshop serving skill (spec.md 4.3
// "is_at_workshop").
func (b *Base) IsAtWorkshop(character model.Character, skill string) bool {
	for _, w := range b.workshops {
		if w.Skill != skill {
			continue
		}
		for _, loc := range w.Locations {
			if loc.X == character.X && loc.Y == character.Y {
				return true
			}
		}
	}
	return false
}

// IsAtResourceLocation reports whether the character's position matches a
// known location for a resource that drops materialCode (spec.md 4.3
// "is_at_resource_location").
func (b *Base) IsAtResourceLocation(character model.Character, materialCode string) bool {
	for _, r := range b.resources {
		if !r.DropsCode(materialCode) {
			continue
		}
		for _, loc := range r.Locations {
			if loc.X == character.X && loc.Y == character.Y {
				return true
			}
		}
	}
	return false
}

// Save persists the base atomically (temp-file + rename), mirroring
// mapcache.Cache.Save.
func (b *Base) Save() error {
	if b.path == "" {
		return nil
	}
	snapshot := onDisk{
		Monsters:  b.monsters,
		Resources: b.resources,
		Items:     b.items,
		Workshops: b.workshops,
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal knowledge base: %w", err)
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create knowledge base dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".knowledge-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp knowledge base file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp knowledge base file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp knowledge base file: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename knowledge base file: %w", err)
	}
	return nil
}

// Load replaces in-memory state with what's on disk; a missing file is not
// an error.
func (b *Base) Load() error {
	if b.path == "" {
		return nil
	}
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read knowledge base file: %w", err)
	}
	var snapshot onDisk
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal knowledge base file: %w", err)
	}
	if snapshot.Monsters != nil {
		b.monsters = snapshot.Monsters
	}
	if snapshot.Resources != nil {
		b.resources = snapshot.Resources
	}
	if snapshot.Items != nil {
		b.items = snapshot.Items
	}
	if snapshot.Workshops != nil {
		b.workshops = snapshot.Workshops
	}
	return nil
}
