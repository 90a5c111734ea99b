package evaluation

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"reviewhub/internal/domain/directory"
)

var ErrMissingScope = errors.New("organization and campaign ids are required")

// RoleSelf marks a self evaluation pair. It is never a detection role.
const RoleSelf Role = "self"

type Input struct {
	OrgID             string               `json:"orgId" yaml:"orgId"`
	CampaignID        string               `json:"campaignId" yaml:"campaignId"`
	Roster            []directory.Employee `json:"roster" yaml:"roster"`
	Evaluatees        []Evaluatee          `json:"evaluatees" yaml:"evaluatees"`
	Strategy          Strategy             `json:"strategy" yaml:"strategy"`
	Rules             Rules                `json:"rules" yaml:"rules"`
	WorkloadThreshold int                  `json:"workloadThreshold" yaml:"workloadThreshold"`
}

// Plan is the authoritative output handed to session generation and exports.
type Plan struct {
	OrgID       string       `json:"orgId"`
	CampaignID  string       `json:"campaignId"`
	Strategy    Strategy     `json:"strategy"`
	Rules       Rules        `json:"rules"`
	Assignments []Assignment `json:"assignments"`
	Fingerprint string       `json:"fingerprint"`
}

func (p Plan) Assignment(evaluateeID string) (Assignment, bool) {
	for _, a := range p.Assignments {
		if a.EvaluateeID == evaluateeID {
			return a, true
		}
	}
	return Assignment{}, false
}

// Pair is one evaluator evaluating one evaluatee.
type Pair struct {
	EvaluatorID string `json:"evaluatorId"`
	EvaluateeID string `json:"evaluateeId"`
	Role        Role   `json:"role"`
}

// Pairs flattens the plan into one pair per evaluator and evaluatee. When an
// evaluator shows up under several roles the first of self, manager, peer,
// subordinate is kept.
func (p Plan) Pairs() []Pair {
	var out []Pair
	for _, a := range p.Assignments {
		seen := make(map[string]struct{})
		push := func(evaluatorID string, role Role) {
			if _, ok := seen[evaluatorID]; ok {
				return
			}
			seen[evaluatorID] = struct{}{}
			out = append(out, Pair{EvaluatorID: evaluatorID, EvaluateeID: a.EvaluateeID, Role: role})
		}
		if a.Self {
			push(a.EvaluateeID, RoleSelf)
		} else {
			seen[a.EvaluateeID] = struct{}{}
		}
		for _, id := range a.Managers {
			push(id, RoleManager)
		}
		for _, id := range a.Peers {
			push(id, RolePeer)
		}
		for _, id := range a.Subordinates {
			push(id, RoleSubordinate)
		}
	}
	return out
}

type Result struct {
	Plan          Plan                         `json:"plan"`
	Counts        map[string]TheoreticalCounts `json:"counts"`
	Relationships map[string]RelationshipSet   `json:"relationships"`
	Workload      []WorkloadEntry              `json:"workload"`
	Report        Report                       `json:"report"`
	State         State                        `json:"state"`
}

// Resolve runs the whole pipeline over one snapshot: detection, rule table,
// override resolution, outgoing lists, workload and validation. It keeps no
// state between calls.
func Resolve(in Input) (Result, error) {
	if err := checkInput(in); err != nil {
		return Result{}, err
	}
	fingerprint, err := hashInput(in)
	if err != nil {
		return Result{}, err
	}
	return resolve(in, fingerprint), nil
}

func checkInput(in Input) error {
	if strings.TrimSpace(in.OrgID) == "" || strings.TrimSpace(in.CampaignID) == "" {
		return ErrMissingScope
	}
	if !in.Strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, in.Strategy)
	}
	return nil
}

// resolve runs the pipeline for an input already checked and hashed.
func resolve(in Input, fingerprint string) Result {
	roster := NewRoster(in.Roster)
	evaluatees := uniqueEvaluatees(in.Evaluatees)

	result := Result{
		Counts:        make(map[string]TheoreticalCounts, len(evaluatees)),
		Relationships: make(map[string]RelationshipSet, len(evaluatees)),
		State:         StateOf(evaluatees, false),
	}
	assignments := make([]Assignment, 0, len(evaluatees))
	entries := make([]validationEntry, 0, len(evaluatees))
	for _, ev := range evaluatees {
		_, found := roster.Get(ev.ID)
		rel := Detect(roster, ev.ID)
		subLeaders := 0
		if in.Strategy == StrategyLeadership180 {
			subLeaders = len(SubLeaders(roster, rel.Team))
		}
		result.Counts[ev.ID] = CountsFor(in.Strategy, rel, subLeaders)
		result.Relationships[ev.ID] = FilterForStrategy(rel, in.Strategy)
		assignments = append(assignments, ResolveEvaluatee(ev, rel, in.Strategy, in.Rules))
		entries = append(entries, validationEntry{evaluatee: ev, rel: rel, found: found})
	}
	for i := range assignments {
		assignments[i].Outgoing = OutgoingFor(assignments[i].EvaluateeID, assignments)
	}

	result.Plan = Plan{
		OrgID:       in.OrgID,
		CampaignID:  in.CampaignID,
		Strategy:    in.Strategy,
		Rules:       in.Rules,
		Assignments: assignments,
		Fingerprint: fingerprint,
	}
	result.Workload = AggregateWorkload(assignments, in.WorkloadThreshold)
	result.Report = validate(entries, in.Strategy, in.Rules)
	return result
}

// hashInput is swapped in tests to count fingerprint passes.
var hashInput = Fingerprint

// Fingerprint hashes everything Resolve depends on. Equal fingerprints mean
// equal results.
func Fingerprint(in Input) (string, error) {
	if in.WorkloadThreshold <= 0 {
		in.WorkloadThreshold = DefaultWorkloadThreshold
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode plan input: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func uniqueEvaluatees(evaluatees []Evaluatee) []Evaluatee {
	out := make([]Evaluatee, 0, len(evaluatees))
	seen := make(map[string]struct{}, len(evaluatees))
	for _, ev := range evaluatees {
		ev.ID = strings.TrimSpace(ev.ID)
		if ev.ID == "" {
			continue
		}
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		seen[ev.ID] = struct{}{}
		out = append(out, ev)
	}
	return out
}
