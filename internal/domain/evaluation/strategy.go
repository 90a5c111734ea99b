package evaluation

import (
	"errors"
	"fmt"
	"strings"
)

type Strategy string

const (
	StrategySelfOnly      Strategy = "SELF_ONLY"
	StrategyTopDown       Strategy = "TOP_DOWN"
	StrategyPeerToPeer    Strategy = "PEER_TO_PEER"
	StrategyLeadership180 Strategy = "LEADERSHIP_180"
	StrategyFull360       Strategy = "FULL_360"
)

var ErrUnknownStrategy = errors.New("unknown evaluation strategy")

// strategyAliases is the only place alias spellings are recognized. Keys are
// upper-cased with spaces and dashes turned into underscores.
var strategyAliases = map[string]Strategy{
	"SELF_ONLY":       StrategySelfOnly,
	"SELF":            StrategySelfOnly,
	"AUTO":            StrategySelfOnly,
	"SELF_EVALUATION": StrategySelfOnly,

	"TOP_DOWN": StrategyTopDown,
	"TOPDOWN":  StrategyTopDown,
	"DOWNWARD": StrategyTopDown,
	"MANAGER":  StrategyTopDown,
	"90":       StrategyTopDown,

	"PEER_TO_PEER":  StrategyPeerToPeer,
	"PEER":          StrategyPeerToPeer,
	"PEERS":         StrategyPeerToPeer,
	"P2P":           StrategyPeerToPeer,
	"PEER_ONLY":     StrategyPeerToPeer,
	"COLLABORATION": StrategyPeerToPeer,

	"LEADERSHIP_180": StrategyLeadership180,
	"LEADERSHIP":     StrategyLeadership180,
	"180":            StrategyLeadership180,

	"FULL_360": StrategyFull360,
	"FULL":     StrategyFull360,
	"360":      StrategyFull360,
}

// ParseStrategy maps any accepted spelling to its canonical Strategy.
func ParseStrategy(raw string) (Strategy, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if strategy, ok := strategyAliases[key]; ok {
		return strategy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
}

func (s Strategy) Valid() bool {
	switch s {
	case StrategySelfOnly, StrategyTopDown, StrategyPeerToPeer, StrategyLeadership180, StrategyFull360:
		return true
	}
	return false
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// IncomingRoles lists the relational roles whose evaluators take part in the
// strategy. Self evaluation is not a role; it is gated by Rules.Self.
func (s Strategy) IncomingRoles() []Role {
	switch s {
	case StrategyTopDown:
		return []Role{RoleManager}
	case StrategyPeerToPeer:
		return []Role{RolePeer}
	case StrategyLeadership180:
		return []Role{RoleManager, RoleSubordinate}
	case StrategyFull360:
		return []Role{RoleManager, RolePeer, RoleSubordinate}
	}
	return nil
}

func (s Strategy) Uses(role Role) bool {
	for _, r := range s.IncomingRoles() {
		if r == role {
			return true
		}
	}
	return false
}
