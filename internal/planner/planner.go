// Package planner implements the GOAPPlanner (spec.md 4.5): A* search over
// the action registry from a start state to a goal predicate.
package planner

import (
	"container/heap"

	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// DefaultMaxNodes bounds search size (spec.md 4.5: "default 10,000").
const DefaultMaxNodes = 10000

// Step is one action in a Plan. Parameter binding happens at execution
// time, not here: Descriptor.ParameterBinder reads the live ActionContext,
// which may have changed since this step was planned.
type Step struct {
	Descriptor *actions.Descriptor
}

// Plan is an ordered sequence of actions, emitted head-first.
type Plan []Step

// node is one A* frontier/closed-set entry.
type node struct {
	state    state.Map
	g        int
	h        int
	action   *actions.Descriptor
	parent   *node
	sequence int // insertion order, for deterministic tie-break
}

func (n *node) f() int { return n.g + n.h }

// frontier is a container/heap min-heap ordered by f, then g, then
// insertion order (spec.md 4.5: "ties in f are broken by lower g then
// insertion order").
type frontier []*node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].f() != f[j].f() {
		return f[i].f() < f[j].f()
	}
	if f[i].g != f[j].g {
		return f[i].g < f[j].g
	}
	return f[i].sequence < f[j].sequence
}
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(*node)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// Plan runs A* from start to the first state satisfying goal, using the
// actions applicable under registry. Returns (nil, false) if no plan is
// found within maxNodes expansions. maxNodes <= 0 always fails (spec.md
// 8.3: "Planner with max_nodes=0 returns no plan") — callers that want the
// spec default pass DefaultMaxNodes explicitly.
func Plan(start state.Map, goal state.Map, registry *actions.Registry, maxNodes int) (Plan, bool) {
	if maxNodes <= 0 {
		return nil, false
	}

	startState := start.Clone()
	if startState.Satisfies(goal) {
		return Plan{}, true
	}

	seq := 0
	root := &node{state: startState, g: 0, h: state.UnsatisfiedCount(startState, goal), sequence: seq}
	seq++

	open := &frontier{root}
	heap.Init(open)
	closed := map[string]bool{}

	expanded := 0
	for open.Len() > 0 && expanded < maxNodes {
		current := heap.Pop(open).(*node)
		hash := state.Hash(current.state)
		if closed[hash] {
			continue
		}
		closed[hash] = true
		expanded++

		if current.state.Satisfies(goal) {
			return extractPlan(current), true
		}

		for _, d := range registry.Applicable(current.state) {
			next := current.state.Overlay(d.Effects)
			nextHash := state.Hash(next)
			if closed[nextHash] {
				continue
			}
			child := &node{
				state:    next,
				g:        current.g + d.Weight,
				h:        state.UnsatisfiedCount(next, goal),
				action:   d,
				parent:   current,
				sequence: seq,
			}
			seq++
			heap.Push(open, child)
		}
	}

	return nil, false
}

func extractPlan(goalNode *node) Plan {
	var reversed Plan
	for n := goalNode; n.action != nil; n = n.parent {
		reversed = append(reversed, Step{Descriptor: n.action})
	}
	plan := make(Plan, len(reversed))
	for i, step := range reversed {
		plan[len(reversed)-1-i] = step
	}
	return plan
}
