package evaluation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/domain/directory"
)

func TestValidateMissingManager(t *testing.T) {
	r := NewRoster([]directory.Employee{topLevel("solo", "")})
	report := Validate(r, []Evaluatee{{ID: "solo"}}, StrategyTopDown, Rules{Manager: true})

	require.Len(t, report.Findings, 1)
	assert.Equal(t, Finding{EvaluateeID: "solo", Reason: ReasonMissingManager, Severity: SeverityWarning}, report.Findings[0])
	assert.False(t, report.Blocked)
}

func TestValidateSkipManagerEvaluation(t *testing.T) {
	r := NewRoster([]directory.Employee{topLevel("ceo", "")})
	report := Validate(r, []Evaluatee{{ID: "ceo", SkipManagerEvaluation: true}}, StrategyTopDown, Rules{Manager: true})
	assert.Empty(t, report.Findings)
}

func TestValidateManagerOverrideSatisfiesRule(t *testing.T) {
	r := NewRoster([]directory.Employee{topLevel("solo", ""), topLevel("board", "")})
	ev := Evaluatee{ID: "solo", Custom: CustomEvaluators{Managers: OverrideWith("board")}}
	report := Validate(r, []Evaluatee{ev}, StrategyTopDown, Rules{Manager: true})
	assert.Empty(t, report.Findings)
}

func TestValidateLeadershipRequiresTeam(t *testing.T) {
	r := NewRoster(orgChart())
	report := Validate(r, []Evaluatee{{ID: "d1"}, {ID: "f1"}}, StrategyLeadership180, Rules{})

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "f1", report.Findings[0].EvaluateeID)
	assert.Equal(t, ReasonMissingTeam, report.Findings[0].Reason)
	assert.True(t, report.Blocked)
	assert.True(t, errors.Is(report.Gate(true), ErrLaunchBlocked), "blocks cannot be confirmed away")
}

func TestValidateSoftWarnings(t *testing.T) {
	r := NewRoster(orgChart())
	report := Validate(r, []Evaluatee{{ID: "g1"}, {ID: "ghost"}}, StrategyFull360, Rules{Peers: true, Subordinates: true})

	reasons := map[string][]string{}
	for _, f := range report.Findings {
		assert.Equal(t, SeverityWarning, f.Severity)
		reasons[f.EvaluateeID] = append(reasons[f.EvaluateeID], f.Reason)
	}
	assert.ElementsMatch(t, []string{ReasonMissingSubordinates, ReasonMissingPeers}, reasons["g1"])
	assert.ElementsMatch(t, []string{ReasonNotInDirectory, ReasonMissingSubordinates, ReasonMissingPeers}, reasons["ghost"])
	assert.False(t, report.Blocked)
}

func TestReportGate(t *testing.T) {
	assert.NoError(t, Report{}.Gate(false))

	warned := Report{Findings: []Finding{{EvaluateeID: "a", Reason: ReasonMissingManager, Severity: SeverityWarning}}}
	assert.True(t, errors.Is(warned.Gate(false), ErrConfirmationRequired))
	assert.NoError(t, warned.Gate(true))
	assert.Len(t, warned.Warnings(), 1)
	assert.Empty(t, warned.Blocks())
}

func TestStateOf(t *testing.T) {
	plain := []Evaluatee{{ID: "a"}}
	custom := []Evaluatee{{ID: "a"}, {ID: "b", Custom: CustomEvaluators{Peers: OverrideWith()}}}

	assert.Equal(t, StateDetected, StateOf(plain, false))
	assert.Equal(t, StateCustomized, StateOf(custom, false))
	assert.Equal(t, StateResolved, StateOf(custom, true))
}
