package gameclient_test

import (
	"net/http"
	"testing"

	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestGetCharacterSuccess(t *testing.T) {
	srv := testutil.NewMockServer(map[string]http.HandlerFunc{
		"/characters/Bob": testutil.WithJSONResponse(200, map[string]any{
			"data": map[string]any{"name": "Bob", "x": 1, "y": 2, "hp": 50, "max_hp": 50},
		}),
	})
	t.Cleanup(srv.Close)

	c := gameclient.NewHTTPClient(srv.URL, "tok")
	ch, err := c.GetCharacter(t.Context(), "Bob")
	require.NoError(t, err)
	require.Equal(t, "Bob", ch.Name)
	require.Equal(t, 1, ch.X)
}

func TestGetCharacterNotFound(t *testing.T) {
	srv := testutil.NewMockServer(map[string]http.HandlerFunc{
		"/characters/Ghost": testutil.WithJSONResponse(404, map[string]any{"error": "not found"}),
	})
	t.Cleanup(srv.Close)

	c := gameclient.NewHTTPClient(srv.URL, "tok")
	_, err := c.GetCharacter(t.Context(), "Ghost")
	require.Error(t, err)
}
