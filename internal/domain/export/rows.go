package export

import (
	"strings"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
)

type AssignmentRow struct {
	EvaluatorID   string
	EvaluatorName string
	EvaluateeID   string
	EvaluateeName string
	Role          evaluation.Role
}

type WorkloadRow struct {
	EvaluatorID   string
	EvaluatorName string
	Boss          int
	Peer          int
	Team          int
	Total         int
	Load          string
}

// CoverageRow is one evaluatee with the evaluations it receives and gives and
// the findings raised against it.
type CoverageRow struct {
	EvaluateeID  string
	Name         string
	Self         bool
	Managers     int
	Peers        int
	Subordinates int
	Incoming     int
	Outgoing     int
	Findings     []string
	Blocked      bool
}

type names map[string]string

func nameIndex(roster []directory.Employee) names {
	idx := make(names, len(roster))
	for _, e := range roster {
		idx[e.ID] = e.Name
	}
	return idx
}

func (n names) of(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id
}

func AssignmentRows(plan evaluation.Plan, roster []directory.Employee) []AssignmentRow {
	idx := nameIndex(roster)
	pairs := plan.Pairs()
	rows := make([]AssignmentRow, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, AssignmentRow{
			EvaluatorID:   p.EvaluatorID,
			EvaluatorName: idx.of(p.EvaluatorID),
			EvaluateeID:   p.EvaluateeID,
			EvaluateeName: idx.of(p.EvaluateeID),
			Role:          p.Role,
		})
	}
	return rows
}

func WorkloadRows(workload []evaluation.WorkloadEntry, roster []directory.Employee) []WorkloadRow {
	idx := nameIndex(roster)
	rows := make([]WorkloadRow, 0, len(workload))
	for _, w := range workload {
		rows = append(rows, WorkloadRow{
			EvaluatorID:   w.EvaluatorID,
			EvaluatorName: idx.of(w.EvaluatorID),
			Boss:          w.Boss,
			Peer:          w.Peer,
			Team:          w.Team,
			Total:         w.Total,
			Load:          w.Load,
		})
	}
	return rows
}

// CoverageRows follows plan order. Findings are listed in the order the
// validator raised them.
func CoverageRows(result evaluation.Result, roster []directory.Employee) []CoverageRow {
	idx := nameIndex(roster)
	findings := make(map[string][]evaluation.Finding)
	for _, f := range result.Report.Findings {
		findings[f.EvaluateeID] = append(findings[f.EvaluateeID], f)
	}

	rows := make([]CoverageRow, 0, len(result.Plan.Assignments))
	for _, a := range result.Plan.Assignments {
		row := CoverageRow{
			EvaluateeID:  a.EvaluateeID,
			Name:         idx.of(a.EvaluateeID),
			Self:         a.Self,
			Managers:     len(a.Managers),
			Peers:        len(a.Peers),
			Subordinates: len(a.Subordinates),
			Incoming:     a.IncomingTotal(),
			Outgoing:     a.Outgoing.Total(),
		}
		for _, f := range findings[a.EvaluateeID] {
			row.Findings = append(row.Findings, f.Reason)
			if f.Severity == evaluation.SeverityBlock {
				row.Blocked = true
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// OverloadedCount is the number of evaluators flagged above the threshold.
func OverloadedCount(rows []WorkloadRow) int {
	n := 0
	for _, r := range rows {
		if r.Load == evaluation.LoadHigh {
			n++
		}
	}
	return n
}

func joinFindings(findings []string) string {
	return strings.Join(findings, "; ")
}
