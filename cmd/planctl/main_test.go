package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reviewhub/internal/domain/evaluation"
)

const yamlSnapshot = `
orgId: org-1
campaignId: c1
strategy: leadership
rules:
  self: true
  manager: true
  subordinates: true
employees:
  - id: ceo
    name: Ceo
  - id: lead
    name: Lead
    managerId: ceo
  - id: dev
    name: Dev
    managerIds: [lead]
  - id: gone
    managerId: lead
    status: inactive
evaluatees:
  - id: lead
  - id: dev
    customEvaluators:
      managers: [ceo]
`

func writeSnapshot(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveYAMLSnapshot(t *testing.T) {
	path := writeSnapshot(t, "snap.yaml", yamlSnapshot)
	result, err := loadAndResolve(path, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.Plan.Strategy != evaluation.StrategyLeadership180 {
		t.Fatalf("unexpected strategy %s", result.Plan.Strategy)
	}
	dev, ok := result.Plan.Assignment("dev")
	if !ok || len(dev.Managers) != 1 || dev.Managers[0] != "ceo" {
		t.Fatalf("expected override manager for dev, got %+v", dev)
	}
	lead, _ := result.Plan.Assignment("lead")
	if len(lead.Subordinates) != 1 || lead.Subordinates[0] != "dev" {
		t.Fatalf("inactive employees must not be evaluators, got %v", lead.Subordinates)
	}
	if !result.Report.Blocked {
		t.Fatal("dev has no team under leadership and should block")
	}
}

func TestValidateCommandFailsWhenBlocked(t *testing.T) {
	path := writeSnapshot(t, "snap.yaml", yamlSnapshot)
	out, err := execute(t, "validate", "-f", path)
	if err == nil || !strings.Contains(err.Error(), "launch blocked") {
		t.Fatalf("expected blocked error, got %v", err)
	}
	if !strings.Contains(out, evaluation.ReasonMissingTeam) {
		t.Fatalf("expected finding in output:\n%s", out)
	}
}

func TestWorkloadCommandJSON(t *testing.T) {
	snapshot := `{"orgId":"o","campaignId":"c","strategy":"TOP_DOWN","rules":{"self":true},
"employees":[{"id":"m"},{"id":"a","managerId":"m"},{"id":"b","managerId":"m"}],
"evaluatees":[{"id":"a"},{"id":"b"}]}`
	path := writeSnapshot(t, "snap.json", snapshot)

	out, err := execute(t, "workload", "-f", path, "-o", "json", "--threshold", "1")
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	var entries []evaluation.WorkloadEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].EvaluatorID != "m" || entries[0].Total != 2 || entries[0].Load != evaluation.LoadHigh {
		t.Fatalf("unexpected workload %+v", entries)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	path := writeSnapshot(t, "snap.yaml", yamlSnapshot)
	if _, err := execute(t, "resolve", "-f", path, "-o", "xml"); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestResolveTableOutput(t *testing.T) {
	path := writeSnapshot(t, "snap.yaml", yamlSnapshot)
	out, err := execute(t, "resolve", "-f", path, "-o", "yaml")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "fingerprint:") {
		t.Fatalf("expected yaml plan output:\n%s", out)
	}
	out, err = execute(t, "resolve", "-f", path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "EVALUATEE") || !strings.Contains(out, "ceo") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}
