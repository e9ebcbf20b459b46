package cmd

import (
	"fmt"
	"strconv"

	"github.com/blentz/artifactsmmo-sub002/internal/query"
	"github.com/blentz/artifactsmmo-sub002/internal/state"
)

// goalFromFilters converts a "key=value,key2>value2" filter string (parsed
// via internal/query, the same syntax the teacher used for its list
// commands) into a goal predicate state.Map: comparison operators become
// the planner's "<5"/">=3" predicate strings (state.Threshold's format),
// equality becomes a literal scalar.
func goalFromFilters(filterStr string) (state.Map, error) {
	filters, err := query.ParseFilters(filterStr)
	if err != nil {
		return nil, err
	}

	goal := state.Map{}
	for _, f := range filters {
		goal.Set(f.Key, filterValue(f))
	}
	return goal, nil
}

func filterValue(f query.Filter) any {
	switch f.Operator {
	case "gt":
		return ">" + f.Value
	case "gte":
		return ">=" + f.Value
	case "lt":
		return "<" + f.Value
	case "lte":
		return "<=" + f.Value
	default:
		return scalarValue(f.Value)
	}
}

// scalarValue interprets a raw filter value as bool, float64, or string, in
// that preference order, matching how goal templates declare literal
// targets in state.Map.
func scalarValue(raw string) any {
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func printStateMap(path string, m state.Map) {
	for section, v := range m {
		if sub, ok := v.(state.Map); ok {
			printStateMap(path+section+".", sub)
			continue
		}
		fmt.Printf("  %s%s = %v\n", path, section, v)
	}
}
