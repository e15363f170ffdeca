package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealflow/internal/models"
)

func TestGroupByStage_Scenario(t *testing.T) {
	stages := []models.Stage{
		{Key: "sourcing", Label: "Sourcing", Order: 0},
		{Key: "negotiation", Label: "Negotiation", Order: 1},
		{Key: "closed_won", Label: "Closed Won", Order: 2},
	}
	deals := []models.Deal{
		{ID: "1", Stage: "sourcing"},
		{ID: "2", Stage: "negotiation"},
	}

	buckets := GroupByStage(deals, stages, "")
	require.Len(t, buckets, 3)

	assert.Equal(t, "sourcing", buckets[0].Stage.Key)
	require.Len(t, buckets[0].Items, 1)
	assert.Equal(t, "1", buckets[0].Items[0].ID)

	assert.Equal(t, "negotiation", buckets[1].Stage.Key)
	require.Len(t, buckets[1].Items, 1)
	assert.Equal(t, "2", buckets[1].Items[0].ID)

	// Empty stages still get a bucket so every column renders.
	assert.Equal(t, "closed_won", buckets[2].Stage.Key)
	assert.Empty(t, buckets[2].Items)
	assert.Equal(t, 0, buckets[2].Count)
}

// Grouping completeness: one bucket per configured stage, and the union
// of bucket items equals the input set exactly once each.
func TestGroupByStage_Completeness(t *testing.T) {
	stages := testStages()
	deals := []models.Deal{
		deal("1", "sourcing"), deal("2", "closed_won"), deal("3", "sourcing"),
		deal("4", "negotiation"), deal("5", "closed_won"),
	}

	buckets := GroupByStage(deals, stages, "")
	require.Len(t, buckets, len(stages))

	seen := map[string]int{}
	total := 0
	for _, b := range buckets {
		assert.Equal(t, len(b.Items), b.Count)
		for _, d := range b.Items {
			seen[d.ID]++
			total++
			assert.Equal(t, b.Stage.Key, d.Stage)
		}
	}
	assert.Equal(t, len(deals), total)
	for _, d := range deals {
		assert.Equal(t, 1, seen[d.ID], "deal %s must appear exactly once", d.ID)
	}
}

// Bucket order follows stage order, item order follows input order.
func TestGroupByStage_Ordering(t *testing.T) {
	stages := []models.Stage{
		{Key: "b", Order: 1},
		{Key: "a", Order: 0},
	}
	deals := []models.Deal{
		{ID: "3", Stage: "b"},
		{ID: "1", Stage: "a"},
		{ID: "2", Stage: "b"},
	}

	buckets := GroupByStage(deals, stages, "")
	require.Len(t, buckets, 2)
	assert.Equal(t, "a", buckets[0].Stage.Key)
	assert.Equal(t, "b", buckets[1].Stage.Key)

	require.Len(t, buckets[1].Items, 2)
	assert.Equal(t, "3", buckets[1].Items[0].ID)
	assert.Equal(t, "2", buckets[1].Items[1].ID)
}

func TestGroupByStage_SumAggregate(t *testing.T) {
	stages := []models.Stage{{Key: "sourcing", Order: 0}}
	deals := []models.Deal{
		{ID: "1", Stage: "sourcing", Attributes: map[string]any{"value": 2500000.0}},
		{ID: "2", Stage: "sourcing", Attributes: map[string]any{"value": 500000}},
		{ID: "3", Stage: "sourcing", Attributes: map[string]any{"value": "not a number"}},
		{ID: "4", Stage: "sourcing"}, // missing attribute counts as zero
	}

	buckets := GroupByStage(deals, stages, "value")
	require.Len(t, buckets, 1)
	assert.Equal(t, 4, buckets[0].Count)
	assert.Equal(t, 3000000.0, buckets[0].Sum)
}
