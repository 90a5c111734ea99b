package evaluation

import "errors"

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityBlock   Severity = "block"
)

const (
	ReasonMissingManager      = "Falta Superior"
	ReasonMissingTeam         = "Sin Equipo a Cargo"
	ReasonMissingPeers        = "Sin Pares"
	ReasonMissingSubordinates = "Sin Subordinados"
	ReasonNotInDirectory      = "No Encontrado en Directorio"
)

var (
	ErrLaunchBlocked        = errors.New("launch blocked by validation findings")
	ErrConfirmationRequired = errors.New("launch has warnings and needs confirmation")
)

type Finding struct {
	EvaluateeID string   `json:"evaluateeId"`
	Reason      string   `json:"reason"`
	Severity    Severity `json:"severity"`
}

// Report aggregates every finding of a validation run. Nothing is raised
// while checking; the caller decides what to do with the result.
type Report struct {
	Findings []Finding `json:"findings"`
	Blocked  bool      `json:"blocked"`
}

func (r *Report) add(evaluateeID, reason string, severity Severity) {
	r.Findings = append(r.Findings, Finding{EvaluateeID: evaluateeID, Reason: reason, Severity: severity})
	if severity == SeverityBlock {
		r.Blocked = true
	}
}

func (r Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r Report) Blocks() []Finding {
	return r.filter(SeverityBlock)
}

func (r Report) filter(severity Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// Gate decides whether a launch may proceed. Blocks cannot be confirmed away.
func (r Report) Gate(confirmed bool) error {
	if r.Blocked {
		return ErrLaunchBlocked
	}
	if len(r.Findings) > 0 && !confirmed {
		return ErrConfirmationRequired
	}
	return nil
}

type validationEntry struct {
	evaluatee Evaluatee
	rel       RelationshipSet
	found     bool
}

// Validate re-runs detection against roster and checks every evaluatee.
func Validate(r *Roster, evaluatees []Evaluatee, strategy Strategy, rules Rules) Report {
	entries := make([]validationEntry, 0, len(evaluatees))
	for _, ev := range uniqueEvaluatees(evaluatees) {
		_, found := r.Get(ev.ID)
		entries = append(entries, validationEntry{evaluatee: ev, rel: Detect(r, ev.ID), found: found})
	}
	return validate(entries, strategy, rules)
}

func validate(entries []validationEntry, strategy Strategy, rules Rules) Report {
	var report Report
	for _, entry := range entries {
		ev := entry.evaluatee
		if !entry.found {
			report.add(ev.ID, ReasonNotInDirectory, SeverityWarning)
		}
		if rules.Manager && !ev.SkipManagerEvaluation && len(Effective(ev, RoleManager, entry.rel)) == 0 {
			report.add(ev.ID, ReasonMissingManager, SeverityWarning)
		}
		subordinates := Effective(ev, RoleSubordinate, entry.rel)
		if strategy == StrategyLeadership180 && len(subordinates) == 0 {
			report.add(ev.ID, ReasonMissingTeam, SeverityBlock)
		} else if rules.Subordinates && strategy.Uses(RoleSubordinate) && len(subordinates) == 0 {
			report.add(ev.ID, ReasonMissingSubordinates, SeverityWarning)
		}
		if rules.Peers && strategy.Uses(RolePeer) && len(Effective(ev, RolePeer, entry.rel)) == 0 {
			report.add(ev.ID, ReasonMissingPeers, SeverityWarning)
		}
	}
	return report
}

// State is where a campaign's assignments sit in their lifecycle.
type State string

const (
	StateDetected   State = "detected"
	StateCustomized State = "customized"
	StateResolved   State = "resolved"
)

// StateOf derives the lifecycle state. frozen is true once the campaign has
// been activated and its plan handed to session generation.
func StateOf(evaluatees []Evaluatee, frozen bool) State {
	if frozen {
		return StateResolved
	}
	for _, ev := range evaluatees {
		if ev.Custom.Any() {
			return StateCustomized
		}
	}
	return StateDetected
}
