package isolate

import "fmt"

// Strategy selects how the deploy branch tree is derived from the
// build artifact.
type Strategy int

const (
	// Subtree derives the deploy ref from the committed artifact
	// subdirectory of the source branch. No working-tree mutation, no
	// leftover-file risk. The default.
	Subtree Strategy = iota
	// Orphan rebuilds the deploy branch from scratch with no history.
	Orphan
	// WhitelistPrune removes the previous artifact paths from the
	// existing deploy branch and copies in the new whitelist,
	// preserving history.
	WhitelistPrune
	// WipeExceptMarkers removes every tracked path except the keep
	// markers, then repopulates. Preserves history and is robust
	// against whitelist drift.
	WipeExceptMarkers
)

func (s Strategy) String() string {
	switch s {
	case Subtree:
		return "subtree"
	case Orphan:
		return "orphan"
	case WhitelistPrune:
		return "prune"
	case WipeExceptMarkers:
		return "wipe"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration token to a Strategy.
func ParseStrategy(token string) (Strategy, error) {
	switch token {
	case "", "subtree":
		return Subtree, nil
	case "orphan":
		return Orphan, nil
	case "prune":
		return WhitelistPrune, nil
	case "wipe":
		return WipeExceptMarkers, nil
	default:
		return Subtree, fmt.Errorf("unknown isolation strategy %q", token)
	}
}
