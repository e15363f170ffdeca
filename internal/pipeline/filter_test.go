package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealflow/internal/models"
)

var searchFields = []string{"name", "company"}

func filterDeals() []models.Deal {
	return []models.Deal{
		{ID: "1", Stage: "sourcing", Attributes: map[string]any{
			"name": "TechCorp Acquisition", "company": "TechCorp", "priority": "high",
		}},
		{ID: "2", Stage: "negotiation", Attributes: map[string]any{
			"name": "Harbor Asset Purchase", "company": "Harbor Foods", "priority": "medium",
		}},
		{ID: "3", Stage: "sourcing", Attributes: map[string]any{
			"name": "Atlas Minority Stake", "company": "Atlas Robotics", "priority": "high",
		}},
	}
}

// Filter identity: empty query and no filters preserve ids and order.
func TestApplyFilter_Identity(t *testing.T) {
	deals := filterDeals()
	got := ApplyFilter(deals, "", nil, searchFields)

	require.Len(t, got, len(deals))
	for i := range deals {
		assert.Equal(t, deals[i].ID, got[i].ID)
	}
}

func TestApplyFilter_Query(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "case-insensitive substring", query: "techcorp", wantIDs: []string{"1"}},
		{name: "uppercase query", query: "HARBOR", wantIDs: []string{"2"}},
		{name: "matches any searchable field", query: "robotics", wantIDs: []string{"3"}},
		{name: "substring not fuzzy", query: "tchcorp", wantIDs: nil},
		{name: "surrounding whitespace trimmed", query: "  atlas ", wantIDs: []string{"3"}},
		{name: "no match", query: "zebra", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(filterDeals(), tt.query, nil, searchFields)
			var ids []string
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyFilter_AttributeFilters(t *testing.T) {
	high := []AttributeFilter{{Field: "priority", Value: "high"}}

	got := ApplyFilter(filterDeals(), "", high, searchFields)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	// Filters are ANDed with the query.
	got = ApplyFilter(filterDeals(), "atlas", high, searchFields)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	// Equality is exact, not substring.
	got = ApplyFilter(filterDeals(), "", []AttributeFilter{{Field: "priority", Value: "hig"}}, searchFields)
	assert.Empty(t, got)
}

// Determinism: identical inputs yield identical output.
func TestApplyFilter_Deterministic(t *testing.T) {
	a := ApplyFilter(filterDeals(), "a", []AttributeFilter{{Field: "priority", Value: "high"}}, searchFields)
	b := ApplyFilter(filterDeals(), "a", []AttributeFilter{{Field: "priority", Value: "high"}}, searchFields)
	assert.Equal(t, a, b)
}
