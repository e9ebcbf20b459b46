// Package loop implements the AIPlayerLoop (spec.md 4.8): the
// perceive/select-goal/plan/execute/learn control loop binding every other
// core component together, respecting cooldowns, replanning on divergence,
// and persisting the knowledge base and map cache on an interval.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/cooldown"
	"github.com/blentz/artifactsmmo-sub002/internal/errtaxonomy"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/goal"
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/logging"
	"github.com/blentz/artifactsmmo-sub002/internal/mapcache"
	"github.com/blentz/artifactsmmo-sub002/internal/planner"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
	"github.com/blentz/artifactsmmo-sub002/internal/worldstate"
	"github.com/google/uuid"
)

// Executor is the capability the loop drives one plan step through
// (internal/executor.Executor satisfies this).
type Executor interface {
	Execute(ctx context.Context, actionName string, ac *actioncontext.Context) (actions.Result, error)
}

// Params configures one Loop's tuning knobs (spec.md 4.1-4.8 defaults,
// sourced from config.Config by the CLI layer).
type Params struct {
	MaxNodes          int
	RefreshTTL        time.Duration
	SaveInterval      time.Duration
	ReplanBackoff     time.Duration
	MaxRuntime        time.Duration // 0 = unbounded
	MaxGatherAttempts int
}

// Snapshot is the read-only diagnostic view returned by Loop.Snapshot
// (spec.md §6.3); tui.Model renders it when given a snapshot function.
type Snapshot struct {
	CharacterName  string
	IterationCount int
	PlanID         string
	RemainingSteps []string
	LastGoal       state.Map
	LastError      string
	Started        time.Time
}

// Loop is the AIPlayerLoop.
type Loop struct {
	characterName string
	client        gameclient.GameClient
	kb            *knowledge.Base
	mapCache      *mapcache.Cache
	gate          *cooldown.Gate
	registry      *actions.Registry
	goals         *goal.Manager
	executor      Executor
	log           *logging.Logger
	params        Params

	mu       sync.Mutex
	ac       *actioncontext.Context
	plan     planner.Plan
	planID   string
	lastGoal state.Map

	lastRefresh time.Time
	lastSave    time.Time
	started     time.Time

	iterationCount int
	lastErr        error

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New constructs a Loop. characterName identifies the character the loop
// drives; the other handles are shared with the CLI layer so it can
// inspect/persist them independently (e.g. `diagnose-state`).
func New(characterName string, client gameclient.GameClient, kb *knowledge.Base, mc *mapcache.Cache, gate *cooldown.Gate, registry *actions.Registry, goals *goal.Manager, executor Executor, log *logging.Logger, params Params) *Loop {
	if params.MaxNodes <= 0 {
		params.MaxNodes = planner.DefaultMaxNodes
	}
	if params.RefreshTTL <= 0 {
		params.RefreshTTL = 5 * time.Second
	}
	if params.SaveInterval <= 0 {
		params.SaveInterval = 300 * time.Second
	}
	if params.ReplanBackoff <= 0 {
		params.ReplanBackoff = 2 * time.Second
	}
	if params.MaxGatherAttempts <= 0 {
		params.MaxGatherAttempts = 20
	}
	return &Loop{
		characterName: characterName,
		client:        client,
		kb:            kb,
		mapCache:      mc,
		gate:          gate,
		registry:      registry,
		goals:         goals,
		executor:      executor,
		log:           log,
		params:        params,
		stopCh:        make(chan struct{}),
	}
}

// Stop requests the loop exit at the next iteration boundary (spec.md §5
// "Cancellation": checked at each loop iteration boundary and inside the
// cooldown wait). Safe to call more than once or concurrently with Start.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Snapshot returns a point-in-time view for diagnostics. Safe for
// concurrent use with Start.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	steps := make([]string, 0, len(l.plan))
	for _, s := range l.plan {
		steps = append(steps, s.Descriptor.Name)
	}
	errMsg := ""
	if l.lastErr != nil {
		errMsg = l.lastErr.Error()
	}
	return Snapshot{
		CharacterName:  l.characterName,
		IterationCount: l.iterationCount,
		PlanID:         l.planID,
		RemainingSteps: steps,
		LastGoal:       l.lastGoal,
		LastError:      errMsg,
		Started:        l.started,
	}
}

// Start runs the loop until Stop is called, ctx is cancelled, MaxRuntime
// elapses, or a Fatal error occurs (spec.md 4.8). It always persists the
// knowledge base and map cache before returning.
func (l *Loop) Start(ctx context.Context) error {
	character, err := l.client.GetCharacter(ctx, l.characterName)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.ac = actioncontext.New(character, l.kb, l.mapCache, l.client)
	l.gate.ArmUntil(character.CooldownExpiration)
	l.started = time.Now()
	l.lastRefresh = l.started
	l.lastSave = l.started
	l.mu.Unlock()

	l.log.Infof("loop started for %s at (%d,%d) level %d", character.Name, character.X, character.Y, character.Level)

	// execCtx is also cancelled by Stop, so an executor blocked in the
	// cooldown wait wakes and returns when a stop is requested.
	execCtx, cancelExec := context.WithCancel(ctx)
	defer cancelExec()
	go func() {
		select {
		case <-l.stopCh:
			cancelExec()
		case <-execCtx.Done():
		}
	}()

	var lastFailedAction string
	var consecutiveRejections int

	for {
		select {
		case <-l.stopCh:
			return l.shutdown("stop requested")
		case <-ctx.Done():
			l.shutdown("context cancelled")
			return ctx.Err()
		default:
		}

		if l.params.MaxRuntime > 0 && time.Since(l.started) >= l.params.MaxRuntime {
			return l.shutdown("max runtime elapsed")
		}

		l.refreshIfDue(ctx)

		currentState := worldstate.Build(l.ac)

		if len(l.plan) == 0 {
			if err := l.planNext(currentState); err != nil {
				l.log.Warningf("%v", err)
				if !l.sleep(ctx, l.params.ReplanBackoff) {
					return l.shutdown("stopped during backoff")
				}
				continue
			}
			if len(l.plan) == 0 {
				// Goal predicate already satisfied; nothing to do this
				// iteration. Re-evaluate goals next time around.
				if !l.sleep(ctx, l.params.ReplanBackoff) {
					return l.shutdown("stopped during backoff")
				}
				continue
			}
		}

		step := l.plan[0]

		if step.Descriptor.Name == "gather_resource_quantity" {
			if err := l.runGatherUntilQuantity(execCtx, step); err != nil {
				l.log.Warningf("gather_resource_quantity: %v", err)
			}
			l.mu.Lock()
			l.plan = l.plan[1:]
			l.mu.Unlock()
			l.periodicSave()
			continue
		}

		targetBefore := l.ac.Target

		result, err := l.executor.Execute(execCtx, step.Descriptor.Name, l.ac)
		l.mu.Lock()
		l.iterationCount++
		l.lastErr = err
		l.mu.Unlock()

		if err != nil || !result.Success {
			l.log.Warningf("action %s failed: %v", step.Descriptor.Name, err)
			if errtaxonomy.Is(err, errtaxonomy.Fatal) {
				return l.shutdown("fatal error: " + err.Error())
			}
			if errtaxonomy.Is(err, errtaxonomy.Rejected) {
				if lastFailedAction == step.Descriptor.Name {
					consecutiveRejections++
				} else {
					consecutiveRejections = 1
				}
				lastFailedAction = step.Descriptor.Name
				if consecutiveRejections >= 2 {
					return l.shutdown("fatal: repeated rejection of " + step.Descriptor.Name)
				}
			} else {
				consecutiveRejections = 0
				lastFailedAction = ""
			}
			l.mu.Lock()
			l.plan = nil
			l.mu.Unlock()
			continue
		}
		consecutiveRejections = 0
		lastFailedAction = ""

		postState := worldstate.Build(l.ac)
		if l.diverged(step, currentState, postState, targetBefore) {
			l.log.Infof("divergence detected after %s; discarding remaining plan", step.Descriptor.Name)
			l.mu.Lock()
			l.plan = nil
			l.mu.Unlock()
			continue
		}

		l.mu.Lock()
		l.plan = l.plan[1:]
		l.mu.Unlock()

		l.periodicSave()
	}
}

func (l *Loop) refreshIfDue(ctx context.Context) {
	if time.Since(l.lastRefresh) < l.params.RefreshTTL {
		return
	}
	character, err := l.client.GetCharacter(ctx, l.characterName)
	if err != nil {
		l.log.Warningf("refresh character: %v", err)
		return
	}
	l.mu.Lock()
	l.ac.RefreshCharacter(character)
	l.lastRefresh = time.Now()
	l.mu.Unlock()
}

func (l *Loop) planNext(currentState state.Map) error {
	goalPredicate, ok := l.goals.NextGoal(l.ac.Character, l.kb, currentState)
	if !ok {
		return errors.New("no eligible goal template")
	}

	plan, ok := planner.Plan(currentState, goalPredicate, l.registry, l.params.MaxNodes)
	if !ok {
		return errors.New("no plan found toward goal")
	}

	l.mu.Lock()
	l.plan = plan
	l.planID = uuid.NewString()
	l.lastGoal = goalPredicate
	l.ac.Goal = goalPredicate
	l.mu.Unlock()

	l.log.Infof("plan %s: %d step(s) toward goal", l.planID, len(plan))
	return nil
}

// diverged compares the step's declared effects against the observed
// post-state (spec.md 4.8 "Divergence detection"). Position is special-
// cased: action effects describe symbolic flags (at_resource, ...), not
// concrete coordinates, so a move's predicted destination is the target
// coordinate bound before execution, not a declared effect.
func (l *Loop) diverged(step planner.Step, preState, postState state.Map, targetBefore actioncontext.Target) bool {
	if targetBefore.Kind == actioncontext.TargetCoords {
		if l.ac.Character.X != targetBefore.X || l.ac.Character.Y != targetBefore.Y {
			return true
		}
	}
	if len(step.Descriptor.Effects) == 0 {
		return false
	}
	return !postState.Satisfies(step.Descriptor.Effects)
}

// runGatherUntilQuantity repeats gather_resource_quantity (spec.md 8.4
// scenario 2) until the character's inventory count of the target resource
// meets the active goal's threshold or MaxGatherAttempts is exhausted.
func (l *Loop) runGatherUntilQuantity(ctx context.Context, step planner.Step) error {
	target := l.ac.Target
	if target.Kind != actioncontext.TargetResource {
		_, err := l.executor.Execute(ctx, step.Descriptor.Name, l.ac)
		return err
	}

	want := l.desiredQuantity(target.ResourceCode)

	for attempt := 0; attempt < l.params.MaxGatherAttempts; attempt++ {
		select {
		case <-l.stopCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := l.executor.Execute(ctx, step.Descriptor.Name, l.ac)
		l.mu.Lock()
		l.iterationCount++
		l.mu.Unlock()
		if err != nil || !result.Success {
			if errtaxonomy.Is(err, errtaxonomy.Fatal) {
				return err
			}
			continue
		}
		if l.ac.Character.InventoryQuantity(target.ResourceCode) >= want {
			l.log.Infof("gathered sufficient %s after %d attempt(s)", target.ResourceCode, attempt+1)
			return nil
		}
	}
	l.log.Warningf("gather_resource_quantity exhausted %d attempts for %s (partial)", l.params.MaxGatherAttempts, target.ResourceCode)
	return nil
}

func (l *Loop) desiredQuantity(resourceCode string) int {
	l.mu.Lock()
	goalMap := l.lastGoal
	l.mu.Unlock()
	if goalMap == nil {
		return 1
	}
	if _, threshold, ok := state.Threshold(goalMap.Get("inventory_status.target_material_qty")); ok {
		return int(threshold)
	}
	return 1
}

// sleep blocks for d or until Stop/ctx cancellation, returning false if it
// was interrupted rather than completing normally.
func (l *Loop) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-l.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

func (l *Loop) periodicSave() {
	if time.Since(l.lastSave) < l.params.SaveInterval {
		return
	}
	l.persist()
	l.lastSave = time.Now()
}

func (l *Loop) persist() {
	if l.kb != nil {
		if err := l.kb.Save(); err != nil {
			l.log.Warningf("save knowledge base: %v", err)
		}
	}
	if l.mapCache != nil {
		if err := l.mapCache.Save(); err != nil {
			l.log.Warningf("save map cache: %v", err)
		}
	}
}

func (l *Loop) shutdown(reason string) error {
	l.log.Infof("loop stopping: %s", reason)
	l.persist()
	return nil
}
