package pipeline

import (
	"strings"

	"dealflow/internal/models"
)

// AttributeFilter is a discrete equality predicate over one attribute,
// e.g. Field "priority", Value "high". Multiple filters are ANDed.
type AttributeFilter struct {
	Field string
	Value string
}

// ApplyFilter computes the visible subset of deals. The query is
// matched case-insensitively as a substring against the configured
// searchable fields; filters require exact attribute equality.
//
// Pure function: identical inputs yield identical output, and an empty
// query with no filters preserves the input set and order.
func ApplyFilter(deals []models.Deal, query string, filters []AttributeFilter, searchFields []string) []models.Deal {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && len(filters) == 0 {
		out := make([]models.Deal, len(deals))
		copy(out, deals)
		return out
	}

	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if query != "" && !matchesQuery(d, query, searchFields) {
			continue
		}
		if !matchesFilters(d, filters) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchesQuery(d models.Deal, query string, fields []string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(d.Attr(f)), query) {
			return true
		}
	}
	return false
}

func matchesFilters(d models.Deal, filters []AttributeFilter) bool {
	for _, f := range filters {
		if d.Attr(f.Field) != f.Value {
			return false
		}
	}
	return true
}
