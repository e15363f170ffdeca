package pipeline

import (
	"sort"

	"dealflow/internal/models"
)

// StageBucket is the derived, per-stage view the board renders: the
// deals currently in the stage plus the header aggregates. Buckets are
// ephemeral and recomputed from the store on every change.
type StageBucket struct {
	Stage models.Stage
	Items []models.Deal
	Count int
	Sum   float64 // total of sumField across Items, 0 when unset
}

// GroupByStage partitions deals into one bucket per configured stage,
// ordered by stage order. Every configured stage appears in the result
// even when empty, so the board can render all columns unconditionally.
// Within a bucket, deals keep the input (store) order.
//
// Deals whose stage is not in the configured set are ignored here; the
// store already rejects them on Load, so this is only a guard against
// a stale stage config.
func GroupByStage(deals []models.Deal, stages []models.Stage, sumField string) []StageBucket {
	ordered := make([]models.Stage, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	byKey := make(map[string]int, len(ordered))
	buckets := make([]StageBucket, len(ordered))
	for i, st := range ordered {
		byKey[st.Key] = i
		buckets[i] = StageBucket{Stage: st, Items: []models.Deal{}}
	}

	for _, d := range deals {
		i, ok := byKey[d.Stage]
		if !ok {
			continue
		}
		buckets[i].Items = append(buckets[i].Items, d)
		buckets[i].Count++
		if sumField != "" {
			buckets[i].Sum += d.AttrNumber(sumField)
		}
	}
	return buckets
}
