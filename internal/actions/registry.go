// Package actions implements the ActionRegistry, ActionDescriptor, and the
// concrete action catalog (spec.md 4.4) the planner searches over.
package actions

import (
	"context"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// Result is the ActionResult returned by an action's Execute function
// (spec.md 4.6).
type Result struct {
	Success         bool
	Data            map[string]any
	Err             error
	StateChanges    state.Map
	CooldownSeconds float64
}

// ExecuteFunc performs the action against client, reading and writing
// through ac. It is documented as "pure function from inputs to result"
// in spec.md 4.4, though in Go terms that means it must not retain state
// outside ac/client and must be safe to call exactly once per plan step.
type ExecuteFunc func(ctx context.Context, client gameclient.GameClient, ac *actioncontext.Context) Result

// ParameterBinder extracts concrete arguments from ac before Execute runs,
// e.g. resolving which resource code a generic "gather" should target.
type ParameterBinder func(ac *actioncontext.Context) map[string]any

// Descriptor is the ActionDescriptor (spec.md 4.4).
type Descriptor struct {
	Name            string
	Preconditions   state.Map
	Effects         state.Map
	Weight          int
	Execute         ExecuteFunc
	ParameterBinder ParameterBinder
}

// Registry is the ActionRegistry: register/get/all_actions/applicable.
type Registry struct {
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Descriptor{}}
}

// Register adds or replaces a descriptor. Registration order is preserved
// for deterministic iteration (the planner's tie-break by insertion order,
// spec.md 4.5).
func (r *Registry) Register(d *Descriptor) {
	if _, exists := r.byName[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.byName[d.Name] = d
}

// Get returns the descriptor named name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Applicable returns the descriptors whose preconditions hold against s.
func (r *Registry) Applicable(s state.Map) []*Descriptor {
	var out []*Descriptor
	for _, d := range r.All() {
		if s.Satisfies(d.Preconditions) {
			out = append(out, d)
		}
	}
	return out
}

// NewFullRegistry returns a Registry populated with every concrete action
// family (spec.md 4.4's full catalog), as used by the CLI's loop/diagnostic
// commands and integration tests.
func NewFullRegistry() *Registry {
	r := NewRegistry()
	RegisterMovement(r)
	RegisterCombat(r)
	RegisterGathering(r)
	RegisterCrafting(r)
	RegisterEquipment(r)
	RegisterKnowledge(r)
	return r
}
