package evaluation

import "sort"

const (
	DefaultWorkloadThreshold = 15

	LoadHigh   = "ALTA"
	LoadNormal = "NORMAL"
)

type WorkloadEntry struct {
	EvaluatorID string `json:"evaluatorId"`
	Boss        int    `json:"boss"`
	Peer        int    `json:"peer"`
	Team        int    `json:"team"`
	Total       int    `json:"total"`
	Load        string `json:"load"`
}

// AggregateWorkload tallies how often each person appears as an evaluator.
// Self evaluations are not counted. Entries are flagged LoadHigh when the
// total exceeds threshold; a non-positive threshold means the default.
func AggregateWorkload(assignments []Assignment, threshold int) []WorkloadEntry {
	if threshold <= 0 {
		threshold = DefaultWorkloadThreshold
	}
	byID := make(map[string]*WorkloadEntry)
	var order []string
	tally := func(evaluateeID string, ids []string, bump func(*WorkloadEntry)) {
		for _, id := range ids {
			if id == evaluateeID {
				continue
			}
			entry, ok := byID[id]
			if !ok {
				entry = &WorkloadEntry{EvaluatorID: id}
				byID[id] = entry
				order = append(order, id)
			}
			bump(entry)
			entry.Total++
		}
	}
	for _, a := range assignments {
		tally(a.EvaluateeID, a.Managers, func(e *WorkloadEntry) { e.Boss++ })
		tally(a.EvaluateeID, a.Peers, func(e *WorkloadEntry) { e.Peer++ })
		tally(a.EvaluateeID, a.Subordinates, func(e *WorkloadEntry) { e.Team++ })
	}

	out := make([]WorkloadEntry, 0, len(order))
	for _, id := range order {
		entry := *byID[id]
		entry.Load = LoadNormal
		if entry.Total > threshold {
			entry.Load = LoadHigh
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].EvaluatorID < out[j].EvaluatorID
		}
		return out[i].Total > out[j].Total
	})
	return out
}
