package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
)

func sampleRoster() []directory.Employee {
	return []directory.Employee{
		{ID: "ceo", Name: "Ana Ceo", Status: directory.StatusActive},
		{ID: "d1", Name: "Dan Lead", ManagerIDs: []string{"ceo"}, Status: directory.StatusActive},
		{ID: "e1", Name: "Eve", ManagerIDs: []string{"d1"}, Status: directory.StatusActive},
		{ID: "f1", Name: "Finn", ManagerIDs: []string{"d1"}, Status: directory.StatusActive},
	}
}

func sampleResult(t *testing.T) evaluation.Result {
	t.Helper()
	result, err := evaluation.Resolve(evaluation.Input{
		OrgID:      "org-1",
		CampaignID: "c1",
		Roster:     sampleRoster(),
		Evaluatees: []evaluation.Evaluatee{{ID: "ceo"}, {ID: "e1"}, {ID: "f1"}},
		Strategy:   evaluation.StrategyTopDown,
		Rules:      evaluation.Rules{Self: true, Manager: true},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return result
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

func TestAssignmentsCSV(t *testing.T) {
	result := sampleResult(t)
	var buf bytes.Buffer
	if err := WriteAssignmentsCSV(&buf, AssignmentRows(result.Plan, sampleRoster())); err != nil {
		t.Fatalf("write: %v", err)
	}
	records := readCSV(t, buf.Bytes())
	// header + ceo self + e1 self + d1->e1 + f1 self + d1->f1
	if len(records) != 6 {
		t.Fatalf("expected 6 records, got %d: %v", len(records), records)
	}
	if records[0][0] != "evaluator_id" {
		t.Fatalf("unexpected header %v", records[0])
	}
	found := false
	for _, r := range records[1:] {
		if r[0] == "d1" && r[2] == "e1" {
			found = true
			if r[1] != "Dan Lead" || r[4] != string(evaluation.RoleManager) {
				t.Fatalf("unexpected manager row %v", r)
			}
		}
	}
	if !found {
		t.Fatalf("missing d1 -> e1 row")
	}
}

func TestWorkloadCSV(t *testing.T) {
	result := sampleResult(t)
	rows := WorkloadRows(result.Workload, sampleRoster())
	var buf bytes.Buffer
	if err := WriteWorkloadCSV(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	records := readCSV(t, buf.Bytes())
	if len(records) != 2 {
		t.Fatalf("expected header and one evaluator, got %v", records)
	}
	if records[1][0] != "d1" || records[1][5] != "2" || records[1][6] != evaluation.LoadNormal {
		t.Fatalf("unexpected workload row %v", records[1])
	}
	if OverloadedCount(rows) != 0 {
		t.Fatalf("expected no overloaded evaluators")
	}
}

func TestCoverageCSVCarriesFindings(t *testing.T) {
	result := sampleResult(t)
	rows := CoverageRows(result, sampleRoster())
	if len(rows) != 3 {
		t.Fatalf("expected 3 coverage rows, got %d", len(rows))
	}
	if rows[0].EvaluateeID != "ceo" || len(rows[0].Findings) != 1 || rows[0].Findings[0] != evaluation.ReasonMissingManager {
		t.Fatalf("expected missing manager finding for ceo, got %+v", rows[0])
	}
	if rows[0].Blocked {
		t.Fatalf("missing manager is a warning")
	}

	var buf bytes.Buffer
	if err := WriteCoverageCSV(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	records := readCSV(t, buf.Bytes())
	if records[1][8] != evaluation.ReasonMissingManager {
		t.Fatalf("unexpected findings column %q", records[1][8])
	}
	if records[2][6] != "2" {
		t.Fatalf("expected e1 to receive self and manager, got %v", records[2])
	}
}

func TestWorkloadPDF(t *testing.T) {
	result := sampleResult(t)
	var buf bytes.Buffer
	err := WriteWorkloadPDF(&buf, Report{CampaignName: "H2 review", Strategy: "TOP_DOWN", Threshold: 15},
		WorkloadRows(result.Workload, sampleRoster()), CoverageRows(result, sampleRoster()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Fatalf("output is not a pdf")
	}
}
