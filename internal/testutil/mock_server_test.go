package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockServer(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"/health": WithJSONResponse(200, map[string]string{"status": "ok"}),
		"/users":  WithJSONResponse(200, []string{"user1", "user2"}),
	}

	server := NewMockServer(handlers)
	defer server.Close()

	// Test /health endpoint
	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	// Test /users endpoint
	resp2, err := http.Get(server.URL + "/users")
	require.NoError(t, err)
	defer resp2.Body.Close()

	assert.Equal(t, 200, resp2.StatusCode)

	// Test non-existent endpoint returns 404
	resp3, err := http.Get(server.URL + "/not-found")
	require.NoError(t, err)
	defer resp3.Body.Close()

	assert.Equal(t, 404, resp3.StatusCode)
}

func TestMockServerHandlers(t *testing.T) {
	called := false
	customHandler := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(201)
		w.Write([]byte("custom response"))
	}

	handlers := map[string]http.HandlerFunc{
		"/custom": customHandler,
	}

	server := NewMockServer(handlers)
	defer server.Close()

	resp, err := http.Get(server.URL + "/custom")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.True(t, called, "custom handler should be called")
	assert.Equal(t, 201, resp.StatusCode)
}

func TestMockServerClose(t *testing.T) {
	server := NewMockServer(map[string]http.HandlerFunc{})

	// Verify server is running
	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	// Close server
	server.Close()

	// Verify server is no longer accessible
	_, err = http.Get(server.URL + "/")
	assert.Error(t, err, "should not be able to connect after close")
}

func TestWithJSONResponse(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"count": 42,
	}

	handler := WithJSONResponse(200, data)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"name":"test"`)
	assert.Contains(t, rec.Body.String(), `"count":42`)
}

func TestWithDelayedResponse(t *testing.T) {
	baseHandler := WithJSONResponse(200, map[string]string{"status": "ok"})
	delayedHandler := WithDelayedResponse(50*time.Millisecond, baseHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	start := time.Now()
	delayedHandler(rec, req)
	duration := time.Since(start)

	assert.GreaterOrEqual(t, duration, 50*time.Millisecond, "should delay at least 50ms")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMockGameServerMoveAndAlreadyAtDestination(t *testing.T) {
	gs := NewMockGameServer(MockCharacter{Name: "Bob", X: 1, Y: 1, HP: 10, MaxHP: 10})
	defer gs.Close()

	moved, err := http.Post(gs.URL+"/my/Bob/action/move", "application/json",
		jsonBody(t, map[string]int{"x": 5, "y": 5}))
	require.NoError(t, err)
	defer moved.Body.Close()
	assert.Equal(t, 200, moved.StatusCode)
	assert.Equal(t, 5, gs.Character.X)
	assert.Equal(t, 5, gs.Character.Y)

	again, err := http.Post(gs.URL+"/my/Bob/action/move", "application/json",
		jsonBody(t, map[string]int{"x": 5, "y": 5}))
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Equal(t, 490, again.StatusCode)
}

func TestMockGameServerActionEndpoints(t *testing.T) {
	gs := NewMockGameServer(MockCharacter{Name: "Bob", X: 1, Y: 1, HP: 10, MaxHP: 10})
	defer gs.Close()

	for _, path := range []string{"fight", "gathering", "crafting", "equip", "unequip", "rest"} {
		resp, err := http.Post(gs.URL+"/my/Bob/action/"+path, "application/json", jsonBody(t, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, "action %s", path)
		resp.Body.Close()
	}
}

func jsonBody(t *testing.T, v any) *bytesReader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return &bytesReader{Reader: bytes.NewReader(data)}
}

// bytesReader adapts bytes.Reader to io.ReadCloser for http.Post bodies.
type bytesReader struct{ *bytes.Reader }

func (bytesReader) Close() error { return nil }
