package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// SuggestionKind distinguishes ledger entries.
type SuggestionKind string

// Suggestion kinds.
const (
	SuggestionMerge  SuggestionKind = "merge"
	SuggestionUpdate SuggestionKind = "update"
)

// Suggestion is a mid-confidence proposal awaiting operator review. Exactly
// one of Merge or Update is set, matching Kind.
type Suggestion struct {
	ID        string                `json:"id"`
	Kind      SuggestionKind        `json:"kind"`
	Merge     *model.MergeProposal  `json:"merge,omitempty"`
	Update    *model.UpdateProposal `json:"update,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// suggestionLedger holds pending suggestions in arrival order. Re-proposals
// of an already pending merge pair or record update collapse into the
// existing entry.
type suggestionLedger struct {
	mu    sync.Mutex
	order []string
	byID  map[string]Suggestion
}

func newSuggestionLedger() *suggestionLedger {
	return &suggestionLedger{byID: make(map[string]Suggestion)}
}

func (l *suggestionLedger) addMerge(p model.MergeProposal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.byID {
		if s.Kind == SuggestionMerge && s.Merge.SourceID == p.SourceID && s.Merge.TargetID == p.TargetID {
			return
		}
	}
	l.insert(Suggestion{
		ID:        uuid.NewString(),
		Kind:      SuggestionMerge,
		Merge:     &p,
		CreatedAt: time.Now(),
	})
}

func (l *suggestionLedger) addUpdate(u model.UpdateProposal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.byID {
		if s.Kind == SuggestionUpdate && s.Update.RecordID == u.RecordID {
			return
		}
	}
	l.insert(Suggestion{
		ID:        uuid.NewString(),
		Kind:      SuggestionUpdate,
		Update:    &u,
		CreatedAt: time.Now(),
	})
}

// insert assumes l.mu is held.
func (l *suggestionLedger) insert(s Suggestion) {
	l.byID[s.ID] = s
	l.order = append(l.order, s.ID)
}

func (l *suggestionLedger) list() []Suggestion {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Suggestion, 0, len(l.order))
	for _, id := range l.order {
		if s, ok := l.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// take removes and returns a suggestion by id.
func (l *suggestionLedger) take(id string) (Suggestion, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.byID[id]
	if !ok {
		return Suggestion{}, false
	}
	delete(l.byID, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return s, true
}
