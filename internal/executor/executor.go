// Package executor implements the ActionExecutor (spec.md 4.6): resolving
// and running one action descriptor against the cooldown gate, the game
// client, and the shared action context.
package executor

import (
	"context"
	"fmt"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/cooldown"
	"github.com/blentz/artifactsmmo-sub002/internal/errtaxonomy"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
)

// Executor is the ActionExecutor.
type Executor struct {
	registry *actions.Registry
	gate     *cooldown.Gate
	client   gameclient.GameClient
}

// New constructs an Executor wired to registry, gate, and client.
func New(registry *actions.Registry, gate *cooldown.Gate, client gameclient.GameClient) *Executor {
	return &Executor{registry: registry, gate: gate, client: client}
}

// Execute runs the named action end to end (spec.md 4.6): resolve the
// descriptor, wait for the cooldown gate, bind parameters, call its Execute
// function, then arm the cooldown on success. Result.StateChanges is
// returned to the caller as is; Execute does not merge it into any state.
func (e *Executor) Execute(ctx context.Context, actionName string, ac *actioncontext.Context) (actions.Result, error) {
	descriptor, ok := e.registry.Get(actionName)
	if !ok {
		return actions.Result{}, fmt.Errorf("executor: unknown action %q", actionName)
	}

	if err := e.gate.WaitUntilReady(ctx); err != nil {
		return actions.Result{}, err
	}

	if descriptor.ParameterBinder != nil {
		descriptor.ParameterBinder(ac)
	}

	result := descriptor.Execute(ctx, e.client, ac)

	switch {
	case result.Success:
		e.gate.Arm(result.CooldownSeconds)
	case errtaxonomy.Is(result.Err, errtaxonomy.Cooldown):
		// Step 5 (spec.md 4.6): failure doesn't arm the gate unless the
		// error is server-side cooldown, in which case resync from the
		// character's authoritative cooldown_expiration rather than
		// guessing a duration.
		if character, err := e.client.GetCharacter(ctx, ac.Character.Name); err == nil {
			ac.RefreshCharacter(character)
			e.gate.ArmUntil(character.CooldownExpiration)
		}
	}

	return result, result.Err
}
