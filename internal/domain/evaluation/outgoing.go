package evaluation

// Outgoing lists the evaluatees a person must evaluate, by direction.
type Outgoing struct {
	ToManagers     []string `json:"toManagers"`
	ToPeers        []string `json:"toPeers"`
	ToSubordinates []string `json:"toSubordinates"`
}

func (o Outgoing) Total() int {
	return len(o.ToManagers) + len(o.ToPeers) + len(o.ToSubordinates)
}

// OutgoingFor scans every other assignment for targetID. There is no reverse
// index; callers recompute after any roster or override change.
func OutgoingFor(targetID string, assignments []Assignment) Outgoing {
	var out Outgoing
	for _, other := range assignments {
		if other.EvaluateeID == targetID {
			continue
		}
		if containsID(other.Managers, targetID) {
			out.ToSubordinates = append(out.ToSubordinates, other.EvaluateeID)
		}
		if containsID(other.Peers, targetID) {
			out.ToPeers = append(out.ToPeers, other.EvaluateeID)
		}
		if containsID(other.Subordinates, targetID) {
			out.ToManagers = append(out.ToManagers, other.EvaluateeID)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
