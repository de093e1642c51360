// Package oracle defines the contracts for the external language-model
// collaborators: the extraction oracle (transcript -> candidate attributes)
// and the identity oracle (record snapshots -> update/merge verdicts).
//
// Oracles are opaque and unreliable: calls may block for seconds, time out,
// or return malformed output. Every failure collapses to "no proposal";
// nothing in this package may stall or crash the ingestion path.
package oracle

import (
	"context"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// ExtractionOracle proposes candidate attributes for the person currently
// being spoken with, given a transcript window and the known fields of the
// active card.
type ExtractionOracle interface {
	// Extract returns a candidate, possibly empty. A malformed or failed
	// response surfaces as an error; callers treat it as "no candidate".
	Extract(ctx context.Context, transcript string, active *model.Record) (model.Candidate, error)
}

// Verdict is the identity oracle's review of a record snapshot.
type Verdict struct {
	Updates []model.UpdateProposal `json:"updates"`
	Merges  []model.MergeProposal  `json:"merges"`
}

// IdentityOracle reviews record snapshots for duplicates and corrections.
type IdentityOracle interface {
	// Review returns confidence-scored proposals. Results must be
	// re-validated against current store state before any mutation; the
	// store may have changed while the call was outstanding.
	Review(ctx context.Context, records []*model.Record, transcript string) (Verdict, error)
}

// Noop implements both oracles with empty results, for offline runs and
// tests.
type Noop struct{}

// Extract returns an empty candidate.
func (Noop) Extract(_ context.Context, _ string, _ *model.Record) (model.Candidate, error) {
	return model.Candidate{}, nil
}

// Review returns an empty verdict.
func (Noop) Review(_ context.Context, _ []*model.Record, _ string) (Verdict, error) {
	return Verdict{}, nil
}
