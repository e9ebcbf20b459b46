package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"
)

// NewMockServer creates a test HTTP server with specified handlers.
// Handlers are registered for exact path matches.
// Any unmatched paths return 404.
func NewMockServer(handlers map[string]http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()

	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}

	return httptest.NewServer(mux)
}

// WithJSONResponse creates an HTTP handler that returns a JSON response.
func WithJSONResponse(statusCode int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

// WithDelayedResponse wraps a handler to add artificial latency.
// Useful for testing timeout behavior.
func WithDelayedResponse(delay time.Duration, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		handler(w, r)
	}
}

// MockCharacter is the mutable character state a GameServer tracks. Field
// names mirror model.Character's JSON shape; the server re-serializes this
// struct into the "data.character" envelope on every action response.
type MockCharacter struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Level  int    `json:"level"`
	Gold   int    `json:"gold"`
}

// GameServer is an httptest-backed fake of the ArtifactsMMO action API
// (spec.md §6.1): it serves GetCharacter/GetMap/GetItem/GetMonster/
// GetResource lookups and the seven action endpoints HTTPClient calls,
// mutating a single in-memory MockCharacter the way the real server
// mutates account state. CooldownSeconds is the cooldown every action
// response reports; callers can change it between calls to exercise
// CooldownGate arming.
type GameServer struct {
	*httptest.Server
	Character       *MockCharacter
	CooldownSeconds float64
}

// NewMockGameServer builds a GameServer seeded with character. Move
// requests targeting the character's current (x,y) respond with HTTP 490
// ("already at destination", spec.md 4.6/8.4 scenario 1) instead of moving
// it.
func NewMockGameServer(character MockCharacter) *GameServer {
	gs := &GameServer{Character: &character, CooldownSeconds: 5}

	mux := http.NewServeMux()
	mux.HandleFunc("/characters/"+character.Name, gs.handleGetCharacter)
	mux.HandleFunc("/my/characters", gs.handleListCharacters)
	mux.HandleFunc("/maps", gs.handleGetMap)
	mux.HandleFunc("/items/", gs.handleNotFoundEnvelope("item"))
	mux.HandleFunc("/monsters/", gs.handleNotFoundEnvelope("monster"))
	mux.HandleFunc("/resources/", gs.handleNotFoundEnvelope("resource"))
	mux.HandleFunc("/my/"+character.Name+"/action/move", gs.handleMove)
	mux.HandleFunc("/my/"+character.Name+"/action/fight", gs.handleAction)
	mux.HandleFunc("/my/"+character.Name+"/action/gathering", gs.handleAction)
	mux.HandleFunc("/my/"+character.Name+"/action/crafting", gs.handleAction)
	mux.HandleFunc("/my/"+character.Name+"/action/equip", gs.handleAction)
	mux.HandleFunc("/my/"+character.Name+"/action/unequip", gs.handleAction)
	mux.HandleFunc("/my/"+character.Name+"/action/rest", gs.handleAction)

	gs.Server = httptest.NewServer(mux)
	return gs
}

func (gs *GameServer) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": gs.Character})
}

func (gs *GameServer) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": []*MockCharacter{gs.Character}})
}

func (gs *GameServer) handleGetMap(w http.ResponseWriter, r *http.Request) {
	x, y := r.URL.Query().Get("x"), r.URL.Query().Get("y")
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"x": x, "y": y}})
}

// handleNotFoundEnvelope answers any entity-lookup path with 404; tests
// that need a found entity register their own handler on the mux instead.
func (gs *GameServer) handleNotFoundEnvelope(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": fmt.Sprintf("%s not found", kind)})
	}
}

func (gs *GameServer) handleMove(w http.ResponseWriter, r *http.Request) {
	var body struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.X == gs.Character.X && body.Y == gs.Character.Y {
		writeJSON(w, 490, map[string]any{"error": "already at destination"})
		return
	}
	gs.Character.X, gs.Character.Y = body.X, body.Y
	gs.respondAction(w)
}

// handleAction answers the remaining action endpoints uniformly: they all
// return the same cooldown+character envelope shape and none of them
// mutate position (spec.md §6.1's ActionResponse shape).
func (gs *GameServer) handleAction(w http.ResponseWriter, r *http.Request) {
	gs.respondAction(w)
}

func (gs *GameServer) respondAction(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"cooldown":  map[string]any{"remaining_seconds": gs.CooldownSeconds},
			"character": gs.Character,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
