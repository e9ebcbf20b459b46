package executor

import (
	"context"
	"testing"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/cooldown"
	"github.com/blentz/artifactsmmo-sub002/internal/errtaxonomy"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRunsSuccessfulActionAndArmsCooldown(t *testing.T) {
	registry := actions.NewRegistry()
	registry.Register(&actions.Descriptor{
		Name: "tick",
		Execute: func(context.Context, gameclient.GameClient, *actioncontext.Context) actions.Result {
			return actions.Result{Success: true, CooldownSeconds: 5}
		},
	})

	fake := gameclient.NewFake()
	gate := cooldown.New(cooldown.WithBuffer(0))
	e := New(registry, gate, fake)
	ac := actioncontext.New(model.Character{Name: "Bob"}, nil, nil, fake)

	result, err := e.Execute(context.Background(), "tick", ac)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, gate.IsReady())
}

func TestExecuteReturnsErrorForUnknownAction(t *testing.T) {
	registry := actions.NewRegistry()
	fake := gameclient.NewFake()
	e := New(registry, cooldown.New(), fake)
	ac := actioncontext.New(model.Character{}, nil, nil, fake)

	_, err := e.Execute(context.Background(), "missing", ac)
	assert.Error(t, err)
}

func TestExecuteWaitsForCooldownGate(t *testing.T) {
	registry := actions.NewRegistry()
	var started time.Time
	registry.Register(&actions.Descriptor{
		Name: "tick",
		Execute: func(context.Context, gameclient.GameClient, *actioncontext.Context) actions.Result {
			started = time.Now()
			return actions.Result{Success: true}
		},
	})

	fake := gameclient.NewFake()
	gate := cooldown.New(cooldown.WithBuffer(0))
	gate.Arm(0.05)
	before := time.Now()

	e := New(registry, gate, fake)
	ac := actioncontext.New(model.Character{}, nil, nil, fake)
	_, err := e.Execute(context.Background(), "tick", ac)
	require.NoError(t, err)
	assert.True(t, started.Sub(before) >= 40*time.Millisecond)
}

func TestExecuteResyncsOnCooldownError(t *testing.T) {
	registry := actions.NewRegistry()
	registry.Register(&actions.Descriptor{
		Name: "attack_now",
		Execute: func(context.Context, gameclient.GameClient, *actioncontext.Context) actions.Result {
			return actions.Result{Success: false, Err: errtaxonomy.New(errtaxonomy.Cooldown, "attack", nil)}
		},
	})

	fake := gameclient.NewFake()
	expires := time.Now().Add(2 * time.Second)
	fake.Characters["Bob"] = model.Character{Name: "Bob", CooldownExpiration: expires}

	gate := cooldown.New(cooldown.WithBuffer(0))
	e := New(registry, gate, fake)
	ac := actioncontext.New(model.Character{Name: "Bob"}, nil, nil, fake)

	_, err := e.Execute(context.Background(), "attack_now", ac)
	require.Error(t, err)
	assert.False(t, gate.IsReady())
	assert.WithinDuration(t, expires, gate.ReadyAt(), time.Millisecond)
}

func TestExecuteInvokesParameterBinder(t *testing.T) {
	registry := actions.NewRegistry()
	bound := false
	registry.Register(&actions.Descriptor{
		Name: "bind_test",
		ParameterBinder: func(*actioncontext.Context) map[string]any {
			bound = true
			return nil
		},
		Execute: func(context.Context, gameclient.GameClient, *actioncontext.Context) actions.Result {
			return actions.Result{Success: true}
		},
	})

	fake := gameclient.NewFake()
	e := New(registry, cooldown.New(), fake)
	ac := actioncontext.New(model.Character{}, nil, nil, fake)

	_, err := e.Execute(context.Background(), "bind_test", ac)
	require.NoError(t, err)
	assert.True(t, bound)
}
