package mapcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanner struct {
	tiles map[string]model.MapTile
	calls int
}

func (f *fakeScanner) GetMap(_ context.Context, x, y int) (model.MapTile, error) {
	f.calls++
	t, ok := f.tiles[model.Coord(x, y)]
	if !ok {
		return model.MapTile{}, errors.New("off-map")
	}
	return t, nil
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New("", 0)
	_, ok := c.Get(1, 1, false)
	assert.False(t, ok)
}

func TestPutThenGet(t *testing.T) {
	c := New("", 0)
	c.Put(model.MapTile{X: 3, Y: 4})
	tile, ok := c.Get(3, 4, false)
	require.True(t, ok)
	assert.Equal(t, 3, tile.X)
}

func TestGetRequireFreshHonorsTTL(t *testing.T) {
	c := New("", 10*time.Millisecond)
	c.Put(model.MapTile{X: 0, Y: 0})
	_, ok := c.Get(0, 0, true)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(0, 0, true)
	assert.False(t, ok, "stale tile must miss when freshness is required")
}

func TestSearchExpandsRingsAndSortsByDistance(t *testing.T) {
	c := New("", 0)
	scanner := &fakeScanner{tiles: map[string]model.MapTile{
		model.Coord(2, 0): {X: 2, Y: 0, Content: &model.Content{Type: model.ContentMonster, Code: "chicken"}},
		model.Coord(0, 0): {X: 0, Y: 0},
	}}
	results, err := c.Search(context.Background(), scanner, 0, 0, 3, func(t model.MapTile) bool {
		return t.Content != nil && t.Content.Code == "chicken"
	}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Distance)
}

func TestSearchNearestOnlyStopsAtFirstRing(t *testing.T) {
	c := New("", 0)
	scanner := &fakeScanner{tiles: map[string]model.MapTile{
		model.Coord(1, 0): {X: 1, Y: 0, Content: &model.Content{Type: model.ContentResource, Code: "copper_rocks"}},
		model.Coord(2, 0): {X: 2, Y: 0, Content: &model.Content{Type: model.ContentResource, Code: "copper_rocks"}},
	}}
	matchAny := func(t model.MapTile) bool { return t.Content != nil }
	results, err := c.Search(context.Background(), scanner, 0, 0, 3, matchAny, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Distance)
}

func TestSearchRadiusZeroReturnsOnlyCenter(t *testing.T) {
	c := New("", 0)
	scanner := &fakeScanner{tiles: map[string]model.MapTile{
		model.Coord(0, 0): {X: 0, Y: 0, Content: &model.Content{Type: model.ContentTown}},
	}}
	results, err := c.Search(context.Background(), scanner, 0, 0, 0, func(model.MapTile) bool { return true }, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Distance)
}

func TestRecordBoundaryBlocksBandAfterThreshold(t *testing.T) {
	c := New("", 0)
	c.RecordBoundary(10, 0)
	c.RecordBoundary(10, 1)
	assert.True(t, c.isBlocked(10, 0))
	assert.True(t, c.isBlocked(11, 0), "band beyond the blocked threshold should also be skipped")
}

func TestSearchSkipsBlockedBoundaryCoordinates(t *testing.T) {
	c := New("", 0)
	c.RecordBoundary(1, 0)
	c.RecordBoundary(1, 1)
	scanner := &fakeScanner{tiles: map[string]model.MapTile{}}
	_, err := c.Search(context.Background(), scanner, 0, 0, 1, func(model.MapTile) bool { return true }, false)
	require.NoError(t, err)
	assert.Equal(t, 6, scanner.calls, "boundary-blocked coordinates must not be scanned: of the 9 coordinates within radius 1, the 3 in the blocked east band are skipped")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")

	c := New(path, 0)
	c.Put(model.MapTile{X: 5, Y: -2, Content: &model.Content{Type: model.ContentWorkshop, Code: "weaponcrafting"}})
	require.NoError(t, c.Save())

	reloaded := New(path, 0)
	require.NoError(t, reloaded.Load())
	tile, ok := reloaded.Get(5, -2, false)
	require.True(t, ok)
	assert.Equal(t, "weaponcrafting", tile.Content.Code)
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.yaml"), 0)
	assert.NoError(t, c.Load())
}
