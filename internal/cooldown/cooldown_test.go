package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateIsImmediatelyReady(t *testing.T) {
	g := New()
	assert.True(t, g.IsReady())
}

func TestArmBlocksUntilExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	g := New(WithBuffer(0), withClock(clock))

	g.Arm(5)
	assert.False(t, g.IsReady())

	now = now.Add(5 * time.Second)
	assert.True(t, g.IsReady())
}

func TestArmIsMonotonic(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	g := New(WithBuffer(0), withClock(clock))

	g.Arm(10)
	first := g.ReadyAt()

	g.Arm(2)
	assert.Equal(t, first, g.ReadyAt(), "a shorter cooldown must not shorten an armed gate")
}

func TestWaitUntilReadyReturnsImmediatelyWhenReady(t *testing.T) {
	g := New()
	err := g.WaitUntilReady(context.Background())
	require.NoError(t, err)
}

func TestWaitUntilReadyRespectsCancellation(t *testing.T) {
	g := New(WithBuffer(0))
	g.Arm(60)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := g.WaitUntilReady(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestArmUntilSetsAbsoluteExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	g := New(WithBuffer(0), withClock(clock))

	g.ArmUntil(now.Add(3 * time.Second))
	assert.False(t, g.IsReady())

	now = now.Add(3 * time.Second)
	assert.True(t, g.IsReady())
}
