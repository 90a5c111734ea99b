package evaluation

// DetectedIDs returns the detected evaluator ids for a role. The subordinate
// role is served by the evaluatee's team.
func DetectedIDs(rel RelationshipSet, role Role) []string {
	switch role {
	case RoleManager:
		return employeeIDs(rel.Managers)
	case RolePeer:
		return employeeIDs(rel.Peers)
	case RoleSubordinate:
		return employeeIDs(rel.Team)
	}
	return nil
}

// Effective applies override precedence: a set override wins, otherwise the
// detected relationship is used. No strategy filtering happens here.
func Effective(ev Evaluatee, role Role, rel RelationshipSet) []string {
	if override := ev.Custom.For(role); override.IsSet() {
		return override.IDs()
	}
	return DetectedIDs(rel, role)
}

// Assignment is the authoritative evaluator set of one evaluatee.
type Assignment struct {
	EvaluateeID  string   `json:"evaluateeId"`
	Self         bool     `json:"self"`
	Managers     []string `json:"managers"`
	Peers        []string `json:"peers"`
	Subordinates []string `json:"subordinates"`
	Outgoing     Outgoing `json:"outgoing"`
}

func (a Assignment) EvaluatorsFor(role Role) []string {
	switch role {
	case RoleManager:
		return a.Managers
	case RolePeer:
		return a.Peers
	case RoleSubordinate:
		return a.Subordinates
	}
	return nil
}

// IncomingTotal counts every evaluation this evaluatee receives, self included.
func (a Assignment) IncomingTotal() int {
	total := len(a.Managers) + len(a.Peers) + len(a.Subordinates)
	if a.Self {
		total++
	}
	return total
}

// ResolveEvaluatee builds the assignment for the roles the strategy uses.
// Outgoing is left empty; it needs every assignment and is filled by Resolve.
func ResolveEvaluatee(ev Evaluatee, rel RelationshipSet, strategy Strategy, rules Rules) Assignment {
	a := Assignment{EvaluateeID: ev.ID, Self: rules.Self}
	for _, role := range strategy.IncomingRoles() {
		ids := Effective(ev, role, rel)
		switch role {
		case RoleManager:
			a.Managers = ids
		case RolePeer:
			a.Peers = ids
		case RoleSubordinate:
			a.Subordinates = ids
		}
	}
	return a
}
