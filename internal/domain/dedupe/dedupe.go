// Package dedupe detects likely duplicate person records. The local pass is
// a pure pairwise heuristic over a store snapshot; ambiguous pairs are left
// for the identity oracle. Hard negatives are absolute vetoes, not
// confidence adjustments.
package dedupe

import (
	"fmt"
	"strings"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// Heuristic confidence levels. Both clear the auto-apply threshold; the
// oracle pass produces its own scores.
const (
	exactNameConfidence  = 96
	prefixNameConfidence = 92
)

// Propose runs the local heuristic over every record pair and returns merge
// proposals. The earlier record in the slice becomes the merge target, so
// callers should order snapshots oldest-first to keep the original card.
//
// A pair is proposed when either:
//   - normalized names are exactly equal, and company and role are each
//     absent-or-equal on both sides, or
//   - one name is a whole-token prefix of the other (first name vs full
//     name) and company or role matches.
func Propose(records []*model.Record) []model.MergeProposal {
	var out []model.MergeProposal
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if p, ok := comparePair(records[i], records[j]); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func comparePair(target, source *model.Record) (model.MergeProposal, bool) {
	if HardNegative(target, source) {
		return model.MergeProposal{}, false
	}

	na, nb := model.NormalizeName(target.Name), model.NormalizeName(source.Name)
	if na == "" || nb == "" {
		return model.MergeProposal{}, false
	}

	if na == nb && absentOrEqual(target.Company, source.Company) && absentOrEqual(target.Role, source.Role) {
		return model.MergeProposal{
			SourceID:   source.ID,
			TargetID:   target.ID,
			Confidence: exactNameConfidence,
			Reason:     fmt.Sprintf("same name %q with compatible company and role", target.Name),
		}, true
	}

	if model.IsNamePrefix(na, nb) && (bothEqual(target.Company, source.Company) || bothEqual(target.Role, source.Role)) {
		return model.MergeProposal{
			SourceID:   source.ID,
			TargetID:   target.ID,
			Confidence: prefixNameConfidence,
			Reason:     fmt.Sprintf("%q extends %q with matching company or role", source.Name, target.Name),
		}, true
	}

	return model.MergeProposal{}, false
}

// HardNegative reports pairings that must never merge regardless of any
// other similarity or confidence: differing last names, differing non-empty
// companies, or differing non-empty roles at an otherwise equal company.
// Every merge application path checks this, not just the local heuristic;
// oracle verdicts are subject to the same veto.
func HardNegative(a, b *model.Record) bool {
	la, lb := model.LastName(a.Name), model.LastName(b.Name)
	if la != "" && lb != "" && la != lb {
		return true
	}
	if bothPresentAndDiffer(a.Company, b.Company) {
		return true
	}
	if bothEqual(a.Company, b.Company) && bothPresentAndDiffer(a.Role, b.Role) {
		return true
	}
	return false
}

func norm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func absentOrEqual(a, b string) bool {
	na, nb := norm(a), norm(b)
	return na == "" || nb == "" || na == nb
}

func bothEqual(a, b string) bool {
	na, nb := norm(a), norm(b)
	return na != "" && na == nb
}

func bothPresentAndDiffer(a, b string) bool {
	na, nb := norm(a), norm(b)
	return na != "" && nb != "" && na != nb
}

// BatchGuard enforces the anti-chain-merge invariant: within one processing
// batch, an id that has participated in an applied merge (as source or
// target) may not participate in another. Not safe for concurrent use; each
// batch owns its guard.
type BatchGuard struct {
	used map[string]struct{}
}

// NewBatchGuard creates a guard for a single batch.
func NewBatchGuard() *BatchGuard {
	return &BatchGuard{used: make(map[string]struct{})}
}

// Blocked reports whether either side of the proposal already merged in
// this batch.
func (g *BatchGuard) Blocked(p model.MergeProposal) bool {
	if _, ok := g.used[p.SourceID]; ok {
		return true
	}
	_, ok := g.used[p.TargetID]
	return ok
}

// MarkApplied records both sides of an applied merge.
func (g *BatchGuard) MarkApplied(p model.MergeProposal) {
	g.used[p.SourceID] = struct{}{}
	g.used[p.TargetID] = struct{}{}
}
