package service

import (
	"testing"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

func TestLedgerOrderAndDedup(t *testing.T) {
	l := newSuggestionLedger()

	l.addMerge(model.MergeProposal{SourceID: "b", TargetID: "a", Confidence: 75})
	l.addUpdate(model.UpdateProposal{RecordID: "a", Confidence: 70})
	l.addMerge(model.MergeProposal{SourceID: "b", TargetID: "a", Confidence: 80})
	l.addUpdate(model.UpdateProposal{RecordID: "a", Confidence: 65})

	got := l.list()
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions after dedup, got %d", len(got))
	}
	if got[0].Kind != SuggestionMerge || got[1].Kind != SuggestionUpdate {
		t.Errorf("expected arrival order merge then update, got %v then %v", got[0].Kind, got[1].Kind)
	}
	if got[0].Merge.Confidence != 75 {
		t.Errorf("expected the first proposal to win the dedup, got confidence %v", got[0].Merge.Confidence)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", got[0].ID, got[1].ID)
	}
}

func TestLedgerTake(t *testing.T) {
	l := newSuggestionLedger()
	l.addMerge(model.MergeProposal{SourceID: "b", TargetID: "a", Confidence: 75})
	id := l.list()[0].ID

	sug, ok := l.take(id)
	if !ok || sug.ID != id {
		t.Fatalf("expected to take %q, got ok=%v", id, ok)
	}
	if len(l.list()) != 0 {
		t.Error("expected an empty ledger after take")
	}
	if _, ok := l.take(id); ok {
		t.Error("expected a second take to miss")
	}

	// A taken pair may be re-proposed later.
	l.addMerge(model.MergeProposal{SourceID: "b", TargetID: "a", Confidence: 80})
	if len(l.list()) != 1 {
		t.Error("expected re-proposal after take to land")
	}
}
