package evaluation

import "reviewhub/internal/domain/directory"

// RelationshipSet is what detection found for one evaluatee.
type RelationshipSet struct {
	Managers []directory.Employee `json:"managers"`
	Team     []directory.Employee `json:"team"`
	Peers    []directory.Employee `json:"peers"`
}

// Roster is an indexed, read-only snapshot of the directory.
type Roster struct {
	employees []directory.Employee
	byID      map[string]int
}

func NewRoster(employees []directory.Employee) *Roster {
	r := &Roster{
		employees: make([]directory.Employee, 0, len(employees)),
		byID:      make(map[string]int, len(employees)),
	}
	for _, emp := range employees {
		if emp.ID == "" {
			continue
		}
		if _, ok := r.byID[emp.ID]; ok {
			continue
		}
		r.byID[emp.ID] = len(r.employees)
		r.employees = append(r.employees, emp)
	}
	return r
}

func (r *Roster) Get(id string) (directory.Employee, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return directory.Employee{}, false
	}
	return r.employees[idx], true
}

func (r *Roster) Employees() []directory.Employee {
	return r.employees
}

func (r *Roster) Len() int {
	return len(r.employees)
}

// Detect computes the natural relationships of one evaluatee. An id missing
// from the roster yields an empty set.
func Detect(r *Roster, evaluateeID string) RelationshipSet {
	emp, ok := r.Get(evaluateeID)
	if !ok {
		return RelationshipSet{}
	}
	var set RelationshipSet
	for _, other := range r.employees {
		if other.ID == emp.ID {
			continue
		}
		if Manages(other, emp) {
			set.Managers = append(set.Managers, other)
		}
		if Manages(emp, other) {
			set.Team = append(set.Team, other)
		}
		if ArePeers(emp, other) {
			set.Peers = append(set.Peers, other)
		}
	}
	return set
}

// DetectAll runs Detect for every roster member, keyed by employee id.
func DetectAll(r *Roster) map[string]RelationshipSet {
	out := make(map[string]RelationshipSet, r.Len())
	for _, emp := range r.employees {
		out[emp.ID] = Detect(r, emp.ID)
	}
	return out
}

// Manages reports whether m is a declared manager of a, by id or by email.
// Team detection uses the same predicate with the arguments swapped, which is
// what keeps managers and teams symmetric.
func Manages(m, a directory.Employee) bool {
	if m.ID == a.ID {
		return false
	}
	for _, id := range a.ManagerIDs {
		if id == m.ID {
			return true
		}
	}
	return a.ManagerEmail != "" && directory.SameEmail(m.Email, a.ManagerEmail)
}

// ArePeers applies the three peer branches:
// both managed: share a manager id or a manager email;
// neither managed: same job family id, or same job family name when an id is missing;
// mixed: never peers.
func ArePeers(a, b directory.Employee) bool {
	if a.ID == b.ID {
		return false
	}
	aManaged, bManaged := a.HasManager(), b.HasManager()
	switch {
	case aManaged && bManaged:
		return shareManager(a, b)
	case !aManaged && !bManaged:
		return sameJobFamily(a, b)
	default:
		return false
	}
}

func shareManager(a, b directory.Employee) bool {
	for _, x := range a.ManagerIDs {
		for _, y := range b.ManagerIDs {
			if x == y {
				return true
			}
		}
	}
	return directory.SameEmail(a.ManagerEmail, b.ManagerEmail)
}

func sameJobFamily(a, b directory.Employee) bool {
	if a.JobFamilyID != "" && a.JobFamilyID == b.JobFamilyID {
		return true
	}
	if a.JobFamilyID != "" && b.JobFamilyID != "" {
		return false
	}
	name := directory.Fold(a.JobFamilyName)
	return name != "" && name == directory.Fold(b.JobFamilyName)
}

// HasDirectReports reports whether anyone in the roster is managed by emp.
func HasDirectReports(r *Roster, emp directory.Employee) bool {
	for _, other := range r.employees {
		if Manages(emp, other) {
			return true
		}
	}
	return false
}

// SubLeaders returns the members of team who themselves manage someone.
func SubLeaders(r *Roster, team []directory.Employee) []directory.Employee {
	var out []directory.Employee
	for _, member := range team {
		if HasDirectReports(r, member) {
			out = append(out, member)
		}
	}
	return out
}

func employeeIDs(emps []directory.Employee) []string {
	if len(emps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(emps))
	for _, emp := range emps {
		ids = append(ids, emp.ID)
	}
	return ids
}
