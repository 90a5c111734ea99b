package evaluation

// RoleCounts is one side of the incoming/outgoing matrix.
type RoleCounts struct {
	Auto     int `json:"auto"`
	Managers int `json:"managers"`
	Peers    int `json:"peers"`
	Team     int `json:"team"`
}

func (c RoleCounts) Total() int {
	return c.Auto + c.Managers + c.Peers + c.Team
}

// TheoreticalCounts are display counts for the campaign matrix. Session
// generation never reads them; it uses the resolved Plan.
type TheoreticalCounts struct {
	Incoming RoleCounts `json:"incoming"`
	Outgoing RoleCounts `json:"outgoing"`
}

// CountsFor is the strategy rule table. subLeaders is the number of team
// members who have direct reports of their own.
func CountsFor(strategy Strategy, rel RelationshipSet, subLeaders int) TheoreticalCounts {
	managers, team, peers := len(rel.Managers), len(rel.Team), len(rel.Peers)
	switch strategy {
	case StrategySelfOnly:
		return TheoreticalCounts{
			Incoming: RoleCounts{Auto: 1},
			Outgoing: RoleCounts{Auto: 1},
		}
	case StrategyTopDown:
		return TheoreticalCounts{
			Incoming: RoleCounts{Auto: 1, Managers: managers},
			Outgoing: RoleCounts{Auto: 1, Team: team},
		}
	case StrategyPeerToPeer:
		return TheoreticalCounts{
			Incoming: RoleCounts{Auto: 1, Peers: peers},
			Outgoing: RoleCounts{Auto: 1, Peers: peers},
		}
	case StrategyLeadership180:
		return TheoreticalCounts{
			Incoming: RoleCounts{Auto: 1, Managers: managers, Team: team},
			Outgoing: RoleCounts{Auto: 1, Team: subLeaders},
		}
	case StrategyFull360:
		return TheoreticalCounts{
			Incoming: RoleCounts{Auto: 1, Managers: managers, Peers: peers, Team: team},
			Outgoing: RoleCounts{Auto: 1, Managers: managers, Peers: peers, Team: team},
		}
	}
	return TheoreticalCounts{}
}

// TheoreticalCountsFor detects relationships for one evaluatee and applies the rule table.
func TheoreticalCountsFor(r *Roster, evaluateeID string, strategy Strategy) TheoreticalCounts {
	rel := Detect(r, evaluateeID)
	subLeaders := 0
	if strategy == StrategyLeadership180 {
		subLeaders = len(SubLeaders(r, rel.Team))
	}
	return CountsFor(strategy, rel, subLeaders)
}

// FilterForStrategy blanks the roles a strategy does not use so the matrix
// only shows relationships that will produce evaluations.
func FilterForStrategy(rel RelationshipSet, strategy Strategy) RelationshipSet {
	var out RelationshipSet
	switch strategy {
	case StrategyTopDown, StrategyLeadership180:
		out.Managers = rel.Managers
		out.Team = rel.Team
	case StrategyPeerToPeer:
		out.Peers = rel.Peers
	case StrategyFull360:
		out = rel
	}
	return out
}
