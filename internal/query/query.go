// Package query parses the --filter flag shared by the diagnostic
// commands into structured predicates goal construction can consume.
package query

import (
	"fmt"
	"strings"
)

// Filter represents a single filter condition.
type Filter struct {
	Key      string
	Value    string
	Operator string // "eq", "ne", "gt", "lt", "contains", etc.
}

// ParseFilters parses a filter string in format "key1=value1,key2=value2".
// Also supports operators: key>value, key<value, key!=value, key~value (contains)
func ParseFilters(filterStr string) ([]Filter, error) {
	if filterStr == "" {
		return nil, nil
	}

	parts := strings.Split(filterStr, ",")
	filters := make([]Filter, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Check for operators
		var key, value, operator string

		if strings.Contains(part, "!=") {
			subparts := strings.SplitN(part, "!=", 2)
			key, value, operator = subparts[0], subparts[1], "ne"
		} else if strings.Contains(part, ">=") {
			subparts := strings.SplitN(part, ">=", 2)
			key, value, operator = subparts[0], subparts[1], "gte"
		} else if strings.Contains(part, "<=") {
			subparts := strings.SplitN(part, "<=", 2)
			key, value, operator = subparts[0], subparts[1], "lte"
		} else if strings.Contains(part, ">") {
			subparts := strings.SplitN(part, ">", 2)
			key, value, operator = subparts[0], subparts[1], "gt"
		} else if strings.Contains(part, "<") {
			subparts := strings.SplitN(part, "<", 2)
			key, value, operator = subparts[0], subparts[1], "lt"
		} else if strings.Contains(part, "~") {
			subparts := strings.SplitN(part, "~", 2)
			key, value, operator = subparts[0], subparts[1], "contains"
		} else if strings.Contains(part, "=") {
			subparts := strings.SplitN(part, "=", 2)
			key, value, operator = subparts[0], subparts[1], "eq"
		} else {
			return nil, fmt.Errorf("invalid filter format: %s (expected key=value or key<op>value)", part)
		}

		filters = append(filters, Filter{
			Key:      strings.TrimSpace(key),
			Value:    strings.TrimSpace(value),
			Operator: operator,
		})
	}

	return filters, nil
}
