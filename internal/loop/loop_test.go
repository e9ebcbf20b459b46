package loop_test

import (
	"context"
	"testing"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/cooldown"
	"github.com/blentz/artifactsmmo-sub002/internal/executor"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/goal"
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/logging"
	"github.com/blentz/artifactsmmo-sub002/internal/loop"
	"github.com/blentz/artifactsmmo-sub002/internal/mapcache"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T, character model.Character) (*gameclient.Fake, *loop.Loop) {
	t.Helper()

	fake := gameclient.NewFake()
	fake.Characters[character.Name] = character

	registry := actions.NewFullRegistry()
	gate := cooldown.New()
	kb := knowledge.New("")
	mc := mapcache.New("", time.Minute)
	exec := executor.New(registry, gate, fake)
	log := logging.New(logging.Debug).WithOutput(devNull{})

	templates := []goal.Template{
		{Name: "critical_hp_rest", Gate: func(model.Character, *knowledge.Base) bool { return true }, Goal: goal.RestAndHealGoal},
	}
	goals := goal.New(templates...)

	l := loop.New(character.Name, fake, kb, mc, gate, registry, goals, exec, log, loop.Params{
		ReplanBackoff: time.Millisecond,
		RefreshTTL:    time.Hour,
		SaveInterval:  time.Hour,
	})
	return fake, l
}

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }

func TestLoopHealsCharacterThenIdles(t *testing.T) {
	character := model.Character{Name: "hero", HP: 10, MaxHP: 100, Level: 1, X: 0, Y: 0}
	fake, l := newHarness(t, character)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	require.Eventually(t, func() bool {
		c := fake.Characters["hero"]
		return c.HP == c.MaxHP
	}, time.Second, time.Millisecond, "character should have been healed by the rest action")

	l.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after Stop()")
	}
}

func TestLoopStopIsIdempotentAndCancellable(t *testing.T) {
	character := model.Character{Name: "hero", HP: 100, MaxHP: 100, Level: 1}
	_, l := newHarness(t, character)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after context cancellation")
	}

	l.Stop()
	l.Stop()
}

func TestSnapshotReflectsState(t *testing.T) {
	character := model.Character{Name: "hero", HP: 10, MaxHP: 100, Level: 1}
	_, l := newHarness(t, character)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	require.Eventually(t, func() bool {
		return l.Snapshot().IterationCount > 0
	}, time.Second, time.Millisecond)

	snap := l.Snapshot()
	assert.Equal(t, "hero", snap.CharacterName)

	l.Stop()
	<-done
}
