package evaluation

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

type Role string

const (
	RoleManager     Role = "manager"
	RolePeer        Role = "peer"
	RoleSubordinate Role = "subordinate"
)

// Rules are the campaign-level switches deciding which roles are required.
// They do not change the strategy-derived counts.
type Rules struct {
	Self         bool `json:"self" yaml:"self"`
	Manager      bool `json:"manager" yaml:"manager"`
	Peers        bool `json:"peers" yaml:"peers"`
	Subordinates bool `json:"subordinates" yaml:"subordinates"`
	External     bool `json:"external" yaml:"external"`
}

// Override is an explicit tri-state: unset (fall back to detection) or set to
// a list of evaluator ids, which may be empty.
type Override struct {
	set bool
	ids []string
}

func Unset() Override {
	return Override{}
}

// OverrideWith sets the role to exactly ids. Blank and repeated ids are dropped;
// calling it with no ids records "nobody" for the role.
func OverrideWith(ids ...string) Override {
	return Override{set: true, ids: cleanIDs(ids)}
}

func (o Override) IsSet() bool {
	return o.set
}

func (o Override) IDs() []string {
	if len(o.ids) == 0 {
		return nil
	}
	out := make([]string, len(o.ids))
	copy(out, o.ids)
	return out
}

type CustomEvaluators struct {
	Managers     Override
	Peers        Override
	Subordinates Override
}

func (c CustomEvaluators) For(role Role) Override {
	switch role {
	case RoleManager:
		return c.Managers
	case RolePeer:
		return c.Peers
	case RoleSubordinate:
		return c.Subordinates
	}
	return Unset()
}

func (c CustomEvaluators) Any() bool {
	return c.Managers.IsSet() || c.Peers.IsSet() || c.Subordinates.IsSet()
}

type customEvaluatorsWire struct {
	Managers      []string `json:"managers,omitempty" yaml:"managers,omitempty"`
	Peers         []string `json:"peers,omitempty" yaml:"peers,omitempty"`
	Subordinates  []string `json:"subordinates,omitempty" yaml:"subordinates,omitempty"`
	ExplicitEmpty []Role   `json:"explicitEmpty,omitempty" yaml:"explicitEmpty,omitempty"`
}

// An empty or missing array decodes as Unset so stored overrides keep their
// historical meaning; a role named in explicitEmpty decodes as an empty override.
func (w customEvaluatorsWire) decode() CustomEvaluators {
	explicit := make(map[Role]bool, len(w.ExplicitEmpty))
	for _, role := range w.ExplicitEmpty {
		explicit[canonicalRole(string(role))] = true
	}
	pick := func(role Role, ids []string) Override {
		if cleaned := cleanIDs(ids); len(cleaned) > 0 {
			return Override{set: true, ids: cleaned}
		}
		if explicit[role] {
			return OverrideWith()
		}
		return Unset()
	}
	return CustomEvaluators{
		Managers:     pick(RoleManager, w.Managers),
		Peers:        pick(RolePeer, w.Peers),
		Subordinates: pick(RoleSubordinate, w.Subordinates),
	}
}

func (c CustomEvaluators) wire() customEvaluatorsWire {
	var w customEvaluatorsWire
	put := func(role Role, o Override, dst *[]string) {
		if !o.IsSet() {
			return
		}
		if len(o.ids) == 0 {
			w.ExplicitEmpty = append(w.ExplicitEmpty, role)
			return
		}
		*dst = o.IDs()
	}
	put(RoleManager, c.Managers, &w.Managers)
	put(RolePeer, c.Peers, &w.Peers)
	put(RoleSubordinate, c.Subordinates, &w.Subordinates)
	return w
}

func (c CustomEvaluators) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

func (c *CustomEvaluators) UnmarshalJSON(data []byte) error {
	var w customEvaluatorsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = w.decode()
	return nil
}

func (c *CustomEvaluators) UnmarshalYAML(node *yaml.Node) error {
	var w customEvaluatorsWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*c = w.decode()
	return nil
}

// Evaluatee is a participant selected into a campaign.
type Evaluatee struct {
	ID                    string           `json:"id" yaml:"id"`
	Custom                CustomEvaluators `json:"customEvaluators" yaml:"customEvaluators"`
	SkipManagerEvaluation bool             `json:"skipManagerEvaluation" yaml:"skipManagerEvaluation"`
}

// canonicalRole accepts the plural field names as well as role names.
func canonicalRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "manager", "managers":
		return RoleManager
	case "peer", "peers":
		return RolePeer
	case "subordinate", "subordinates":
		return RoleSubordinate
	}
	return Role(raw)
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
