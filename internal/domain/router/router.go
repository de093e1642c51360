// Package router maps a confidence score to a mutation decision. It is the
// single gate shared by update and merge proposals so threshold tuning
// happens in one place.
package router

// Action is the decision for a confidence-scored proposal.
type Action int

const (
	// Discard drops the proposal silently. Expected and frequent; not logged.
	Discard Action = iota
	// Suggest surfaces the proposal for confirmation. Never mutates on its own.
	Suggest
	// AutoApply mutates state immediately without confirmation.
	AutoApply
)

// String implements fmt.Stringer for logging and metrics labels.
func (a Action) String() string {
	switch a {
	case AutoApply:
		return "auto_apply"
	case Suggest:
		return "suggest"
	default:
		return "discard"
	}
}

// Thresholds on the 0..100 confidence scale. Boundary-exact: 60 and 90 both
// land in the suggest tier.
const (
	suggestFloor   = 60
	autoApplyFloor = 90
)

// Route maps confidence to an action:
//
//	c < 60        -> Discard
//	60 <= c <= 90 -> Suggest
//	c > 90        -> AutoApply
func Route(confidence float64) Action {
	switch {
	case confidence > autoApplyFloor:
		return AutoApply
	case confidence >= suggestFloor:
		return Suggest
	default:
		return Discard
	}
}
