package evaluation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/domain/directory"
)

func TestEffectiveOverridePrecedence(t *testing.T) {
	rel := RelationshipSet{Peers: []directory.Employee{emp("z")}}
	ev := Evaluatee{ID: "a", Custom: CustomEvaluators{Peers: OverrideWith("x", "y")}}

	assert.Equal(t, []string{"x", "y"}, Effective(ev, RolePeer, rel))
}

func TestEffectiveFallsBackWhenUnset(t *testing.T) {
	r := NewRoster(orgChart())
	for _, e := range r.Employees() {
		rel := Detect(r, e.ID)
		ev := Evaluatee{ID: e.ID}
		for _, role := range []Role{RoleManager, RolePeer, RoleSubordinate} {
			assert.Equalf(t, DetectedIDs(rel, role), Effective(ev, role, rel), "%s %s", e.ID, role)
		}
	}
}

func TestEffectiveExplicitEmptyOverride(t *testing.T) {
	rel := RelationshipSet{Peers: []directory.Employee{emp("z")}}
	ev := Evaluatee{ID: "a", Custom: CustomEvaluators{Peers: OverrideWith()}}

	assert.Empty(t, Effective(ev, RolePeer, rel))
}

func TestCustomEvaluatorsJSONBoundary(t *testing.T) {
	var custom CustomEvaluators
	require.NoError(t, json.Unmarshal([]byte(`{"managers":[],"peers":["x"," x","y"],"explicitEmpty":["subordinates"]}`), &custom))

	assert.False(t, custom.Managers.IsSet(), "empty array keeps falling back to detection")
	assert.Equal(t, []string{"x", "y"}, custom.Peers.IDs())
	assert.True(t, custom.Subordinates.IsSet())
	assert.Empty(t, custom.Subordinates.IDs())

	out, err := json.Marshal(custom)
	require.NoError(t, err)
	assert.JSONEq(t, `{"peers":["x","y"],"explicitEmpty":["subordinate"]}`, string(out))
}

func TestResolveEvaluateeOnlyUsesStrategyRoles(t *testing.T) {
	r := NewRoster(orgChart())
	rel := Detect(r, "d1")
	ev := Evaluatee{ID: "d1"}

	peer := ResolveEvaluatee(ev, rel, StrategyPeerToPeer, Rules{Self: true})
	assert.True(t, peer.Self)
	assert.Empty(t, peer.Managers)
	assert.Empty(t, peer.Subordinates)
	assert.Equal(t, []string{"d2"}, peer.Peers)

	full := ResolveEvaluatee(ev, rel, StrategyFull360, Rules{})
	assert.False(t, full.Self)
	assert.Equal(t, []string{"ceo"}, full.Managers)
	assert.Equal(t, []string{"e1", "f1"}, full.Subordinates)
}
