// Package state implements the nested StateMap the planner reasons over,
// along with precondition/goal matching and effect application.
//
// A StateMap is a two-level nested mapping of string keys to scalar values
// (bool, int, float64, string). Predicates and effects are expressed in the
// same shape: "character_status.alive", "combat_context.status", etc.
package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Map is a nested state/precondition/effect/goal representation.
// Top-level keys name a "section" (e.g. "character_status"); their values
// are either leaf scalars or another map one level deep.
type Map map[string]any

// Clone produces a deep copy, as required for the planner's canonicalized
// per-node state (spec.md 4.5: "a canonicalized deep copy").
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		if sub, ok := v.(Map); ok {
			out[k] = sub.Clone()
		} else {
			out[k] = v
		}
	}
	return out
}

// Get returns the scalar at "section.key", or nil if absent.
func (m Map) Get(path string) any {
	section, key, nested := splitPath(path)
	sub, ok := m[section]
	if !ok {
		return nil
	}
	if !nested {
		return sub
	}
	subMap, ok := sub.(Map)
	if !ok {
		return nil
	}
	return subMap[key]
}

// Set writes a scalar at "section.key", creating the section if needed.
func (m Map) Set(path string, value any) {
	section, key, nested := splitPath(path)
	if !nested {
		m[section] = value
		return
	}
	sub, ok := m[section].(Map)
	if !ok {
		sub = Map{}
		m[section] = sub
	}
	sub[key] = value
}

func splitPath(path string) (section, key string, nested bool) {
	idx := strings.IndexByte(path, '.')
	if idx < 0 {
		return path, "", false
	}
	return path[:idx], path[idx+1:], true
}

// Overlay applies effects onto m, returning a new Map (m is not mutated).
// Nested keys merge; leaves overwrite, per spec.md 4.5.
func (m Map) Overlay(effects Map) Map {
	out := m.Clone()
	for section, v := range effects {
		sub, isMap := v.(Map)
		if !isMap {
			out[section] = v
			continue
		}
		existing, ok := out[section].(Map)
		if !ok {
			existing = Map{}
		} else {
			existing = existing.Clone()
		}
		for k, leaf := range sub {
			existing[k] = leaf
		}
		out[section] = existing
	}
	return out
}

// Satisfies reports whether every key in predicate holds in m, using the
// comparison rules of spec.md 4.5: exact equality for scalars, numeric
// comparison for "<", "<=", ">", ">=" prefixed string predicates, and set
// containment for list-valued predicates.
func (m Map) Satisfies(predicate Map) bool {
	for section, v := range predicate {
		sub, isMap := v.(Map)
		if !isMap {
			if !matches(m[section], v) {
				return false
			}
			continue
		}
		actualSub, _ := m[section].(Map)
		for k, want := range sub {
			if !matches(actualSub[k], want) {
				return false
			}
		}
	}
	return true
}

func matches(actual, want any) bool {
	if op, threshold, ok := asComparison(want); ok {
		af, ok := toFloat(actual)
		if !ok {
			return false
		}
		return compare(af, op, threshold)
	}
	if list, ok := want.([]any); ok {
		for _, item := range list {
			if equalScalar(actual, item) {
				return true
			}
		}
		return false
	}
	return equalScalar(actual, want)
}

// Threshold exposes asComparison for callers outside this package that
// need a goal's numeric bound directly (e.g. the loop's gather-until-
// quantity retry, which needs the target count rather than a bool).
func Threshold(want any) (op string, threshold float64, ok bool) {
	return asComparison(want)
}

// asComparison recognizes string predicates like "<5", ">=3".
func asComparison(want any) (op string, threshold float64, ok bool) {
	s, isStr := want.(string)
	if !isStr {
		return "", 0, false
	}
	for _, candidate := range []string{"<=", ">=", "<", ">"} {
		if strings.HasPrefix(s, candidate) {
			rest := strings.TrimSpace(strings.TrimPrefix(s, candidate))
			f, err := strconv.ParseFloat(rest, 64)
			if err != nil {
				return "", 0, false
			}
			return candidate, f, true
		}
	}
	return "", 0, false
}

func compare(actual float64, op string, threshold float64) bool {
	switch op {
	case "<":
		return actual < threshold
	case "<=":
		return actual <= threshold
	case ">":
		return actual > threshold
	case ">=":
		return actual >= threshold
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func equalScalar(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// UnsatisfiedCount returns the number of top-level goal keys not satisfied
// in m; used as the planner's admissible heuristic h(n).
func UnsatisfiedCount(m, goal Map) int {
	count := 0
	for section := range goal {
		single := Map{section: goal[section]}
		if !m.Satisfies(single) {
			count++
		}
	}
	return count
}

// Hash returns a stable serialization of m suitable for use as a closed-set
// key; equal states (by deep structural comparison) hash identically.
func Hash(m Map) string {
	var b strings.Builder
	writeMapHash(&b, m)
	return b.String()
}

func writeMapHash(b *strings.Builder, m Map) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		if sub, ok := m[k].(Map); ok {
			writeMapHash(b, sub)
		} else {
			fmt.Fprintf(b, "%v", m[k])
		}
	}
	b.WriteByte('}')
}
