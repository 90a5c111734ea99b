package evaluation

import "reviewhub/internal/domain/directory"

func emp(id string, managers ...string) directory.Employee {
	return directory.Employee{ID: id, Name: id, Email: id + "@example.com", ManagerIDs: managers, Status: directory.StatusActive}
}

func topLevel(id, family string) directory.Employee {
	e := emp(id)
	e.JobFamilyName = family
	return e
}

func ids(emps []directory.Employee) []string {
	return employeeIDs(emps)
}

// orgChart:
//
//	ceo
//	├── d1 ── e1 ── g1
//	│     └── f1
//	└── d2
//	cfo (top level, same family as ceo)
func orgChart() []directory.Employee {
	return []directory.Employee{
		topLevel("ceo", "Exec"),
		topLevel("cfo", "exec "),
		emp("d1", "ceo"),
		emp("d2", "ceo"),
		emp("e1", "d1"),
		emp("f1", "d1"),
		emp("g1", "e1"),
	}
}
