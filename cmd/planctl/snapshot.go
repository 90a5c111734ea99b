package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
)

// Snapshot is one campaign's inputs as exported from the directory and the
// campaign editor.
type Snapshot struct {
	OrgID             string                  `json:"orgId" yaml:"orgId"`
	CampaignID        string                  `json:"campaignId" yaml:"campaignId"`
	Strategy          string                  `json:"strategy" yaml:"strategy"`
	Rules             evaluation.Rules        `json:"rules" yaml:"rules"`
	WorkloadThreshold int                     `json:"workloadThreshold" yaml:"workloadThreshold"`
	Employees         []directory.RawEmployee `json:"employees" yaml:"employees"`
	Evaluatees        []evaluation.Evaluatee  `json:"evaluatees" yaml:"evaluatees"`
}

func decodeSnapshot(name string, data []byte) (Snapshot, error) {
	var snap Snapshot
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".json" || (ext == "" && bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))) {
		if err := json.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("parse json snapshot: %w", err)
		}
		return snap, nil
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse yaml snapshot: %w", err)
	}
	return snap, nil
}

// Input normalizes the raw employees and drops inactive ones, as the server
// does when it loads a roster.
func (s Snapshot) Input(thresholdOverride int) (evaluation.Input, error) {
	strategy, err := evaluation.ParseStrategy(s.Strategy)
	if err != nil {
		return evaluation.Input{}, err
	}
	var roster []directory.Employee
	for _, e := range directory.NormalizeAll(s.Employees) {
		if e.Status == directory.StatusInactive {
			continue
		}
		roster = append(roster, e)
	}
	threshold := s.WorkloadThreshold
	if thresholdOverride > 0 {
		threshold = thresholdOverride
	}
	return evaluation.Input{
		OrgID:             s.OrgID,
		CampaignID:        s.CampaignID,
		Roster:            roster,
		Evaluatees:        s.Evaluatees,
		Strategy:          strategy,
		Rules:             s.Rules,
		WorkloadThreshold: threshold,
	}, nil
}

func loadAndResolve(path string, thresholdOverride int) (evaluation.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return evaluation.Result{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := decodeSnapshot(path, data)
	if err != nil {
		return evaluation.Result{}, err
	}
	in, err := snap.Input(thresholdOverride)
	if err != nil {
		return evaluation.Result{}, err
	}
	return evaluation.Resolve(in)
}
