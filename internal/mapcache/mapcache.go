// Package mapcache implements the MapCache (spec.md 4.2): a per-tile content
// cache with TTL freshness, expanding-ring search, and off-map boundary
// detection. Persistence follows the teacher's internal/cache single-file,
// atomic temp-file-plus-rename approach (internal/cache.Manager), adapted
// from one-file-per-key to one file for the whole tile mapping since tiles
// are searched jointly rather than fetched by a single key.
package mapcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultTTL is how long a scanned tile's content is considered authoritative
// (spec.md 4.5: "default TTL: 180 s").
const DefaultTTL = 180 * time.Second

// boundaryThreshold is N in "after N rejections (N >= 2) ... treated as
// outside the playable map" (spec.md 4.2).
const boundaryThreshold = 2

// Scanner fetches a tile from the authoritative source when the cache
// misses or is stale. gameclient.GameClient satisfies this.
type Scanner interface {
	GetMap(ctx context.Context, x, y int) (model.MapTile, error)
}

// Filter selects tiles of interest during a search.
type Filter func(model.MapTile) bool

// Result pairs a matched tile with its Chebyshev distance from the search
// center.
type Result struct {
	Tile     model.MapTile
	Distance int
}

type direction int

const (
	dirEast direction = iota
	dirWest
	dirNorth
	dirSouth
)

// Cache is the MapCache.
type Cache struct {
	mu      sync.Mutex
	tiles   map[string]persistedTile
	offMap  map[string]bool
	bandHit map[direction]map[int]int
	blocked map[direction]int
	ttl     time.Duration
	path    string
}

type persistedTile struct {
	Tile       model.MapTile `yaml:"tile"`
	LastScan   time.Time     `yaml:"last_scanned"`
}

type onDisk struct {
	Tiles map[string]persistedTile `yaml:"tiles"`
}

// New constructs an empty Cache. path is where Save/Load persist to; an
// empty path disables persistence.
func New(path string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		tiles:   map[string]persistedTile{},
		offMap:  map[string]bool{},
		bandHit: map[direction]map[int]int{dirEast: {}, dirWest: {}, dirNorth: {}, dirSouth: {}},
		blocked: map[direction]int{},
		ttl:     ttl,
		path:    path,
	}
}

// Get returns the cached tile at (x,y). When requireFresh is true, a tile
// older than the TTL is treated as a miss (spec.md 8.2).
func (c *Cache) Get(x, y int, requireFresh bool) (model.MapTile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pt, ok := c.tiles[model.Coord(x, y)]
	if !ok {
		return model.MapTile{}, false
	}
	if requireFresh && time.Since(pt.LastScan) > c.ttl {
		return model.MapTile{}, false
	}
	return pt.Tile, true
}

// Put records a freshly scanned tile.
func (c *Cache) Put(tile model.MapTile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tiles[tile.Key()] = persistedTile{Tile: tile, LastScan: time.Now()}
}

// RecordBoundary marks (x,y) as rejected by the server as off-map, and
// updates the cardinal-direction band rejection counters used to prune
// future searches (spec.md 4.2 "Boundary detection").
func (c *Cache) RecordBoundary(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offMap[model.Coord(x, y)] = true

	dir, band := classify(x, y)
	c.bandHit[dir][band]++
	if c.bandHit[dir][band] >= boundaryThreshold {
		if cur, ok := c.blocked[dir]; !ok || band < cur {
			c.blocked[dir] = band
		}
	}
}

// classify assigns a coordinate to the cardinal direction and band
// (Chebyshev ring from the origin) it lies in, since the playable map's
// boundary is fixed relative to spawn rather than to any given search
// center.
func classify(x, y int) (direction, int) {
	band := chebyshev(0, 0, x, y)
	if abs(x) >= abs(y) {
		if x >= 0 {
			return dirEast, band
		}
		return dirWest, band
	}
	if y >= 0 {
		return dirNorth, band
	}
	return dirSouth, band
}

func (c *Cache) isBlocked(x, y int) bool {
	if c.offMap[model.Coord(x, y)] {
		return true
	}
	dir, band := classify(x, y)
	if blockedBand, ok := c.blocked[dir]; ok && band >= blockedBand {
		return true
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func chebyshev(x1, y1, x2, y2 int) int {
	dx, dy := abs(x2-x1), abs(y2-y1)
	if dx > dy {
		return dx
	}
	return dy
}

// Search walks expanding Chebyshev rings around center out to radius,
// consulting the cache first (honoring freshness) and falling back to
// scanner for tiles not yet cached. Matches are returned in ascending
// distance order. When nearestOnly is true, Search stops at the first
// ring containing a match (spec.md 4.2).
func (c *Cache) Search(ctx context.Context, scanner Scanner, centerX, centerY, radius int, filter Filter, nearestOnly bool) ([]Result, error) {
	var results []Result
	for ring := 0; ring <= radius; ring++ {
		var ringResults []Result
		for _, coord := range ringCoords(centerX, centerY, ring) {
			if c.isBlocked(coord[0], coord[1]) {
				continue
			}
			tile, err := c.resolve(ctx, scanner, coord[0], coord[1])
			if err != nil {
				continue
			}
			if filter == nil || filter(tile) {
				ringResults = append(ringResults, Result{Tile: tile, Distance: ring})
			}
		}
		sort.Slice(ringResults, func(i, j int) bool {
			return ringResults[i].Tile.Key() < ringResults[j].Tile.Key()
		})
		results = append(results, ringResults...)
		if nearestOnly && len(ringResults) > 0 {
			return results, nil
		}
	}
	return results, nil
}

func (c *Cache) resolve(ctx context.Context, scanner Scanner, x, y int) (model.MapTile, error) {
	if tile, ok := c.Get(x, y, true); ok {
		return tile, nil
	}
	tile, err := scanner.GetMap(ctx, x, y)
	if err != nil {
		return model.MapTile{}, err
	}
	c.Put(tile)
	return tile, nil
}

// ringCoords enumerates the coordinates at exact Chebyshev distance ring
// from the center (ring 0 is just the center itself).
func ringCoords(cx, cy, ring int) [][2]int {
	if ring == 0 {
		return [][2]int{{cx, cy}}
	}
	var out [][2]int
	for dx := -ring; dx <= ring; dx++ {
		out = append(out, [2]int{cx + dx, cy - ring}, [2]int{cx + dx, cy + ring})
	}
	for dy := -ring + 1; dy <= ring-1; dy++ {
		out = append(out, [2]int{cx - ring, cy + dy}, [2]int{cx + ring, cy + dy})
	}
	return out
}

// Save persists the cache atomically: write to a temp file in the same
// directory, then rename over the destination (spec.md 4.2 "Persistence").
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}
	c.mu.Lock()
	snapshot := onDisk{Tiles: make(map[string]persistedTile, len(c.tiles))}
	for k, v := range c.tiles {
		snapshot.Tiles[k] = v
	}
	c.mu.Unlock()

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal map cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create map cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".map-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp map cache file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp map cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp map cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename map cache file: %w", err)
	}
	return nil
}

// Load replaces the in-memory tile set with what's on disk. A missing file
// is not an error: it means no scans have been persisted yet.
func (c *Cache) Load() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read map cache file: %w", err)
	}
	var snapshot onDisk
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal map cache file: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if snapshot.Tiles == nil {
		snapshot.Tiles = map[string]persistedTile{}
	}
	c.tiles = snapshot.Tiles
	return nil
}
