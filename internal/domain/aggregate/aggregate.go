// Package aggregate turns extraction candidates into record mutations. It
// is an explicit two-state machine (no active card / active card) so every
// transition is enumerable: create, update, person switch, re-engage,
// discard.
package aggregate

import (
	"context"

	"github.com/Naveen701372/Networking-Wingman/internal/adapters/repository"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
	"github.com/Naveen701372/Networking-Wingman/pkg/metrics"
)

// actionItemOverlapThreshold is the fuzzy-dedup bar: a new action item is
// dropped when an existing item shares at least half of its significant
// terms.
const actionItemOverlapThreshold = 0.5

// State of the aggregator, derived from the store.
type State int

// The two aggregator states.
const (
	NoActive State = iota
	HasActive
)

// Outcome describes what a candidate did to the record set.
type Outcome int

// Possible outcomes of Apply.
const (
	Discarded Outcome = iota
	Created
	Updated
	Switched
	Reengaged
)

// String implements fmt.Stringer for logging.
func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Switched:
		return "switched"
	case Reengaged:
		return "reengaged"
	default:
		return "discarded"
	}
}

// Aggregator consumes candidates for one session. Mutation goes through the
// record store, which serializes writers; the aggregator itself holds no
// record state.
type Aggregator struct {
	store     repository.Store
	sessionID string
	selfNames map[string]struct{}
	logger    logger.Logger
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an aggregator for a session. selfNames is the operator's own
// identity; candidates carrying one of these names never create or update a
// record.
func New(store repository.Store, sessionID string, selfNames []string, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:     store,
		sessionID: sessionID,
		selfNames: make(map[string]struct{}, len(selfNames)),
		logger:    logger.Get().Named("aggregate"),
	}
	for _, n := range selfNames {
		if norm := model.NormalizeName(n); norm != "" {
			a.selfNames[norm] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State reports the current machine state.
func (a *Aggregator) State(ctx context.Context) State {
	if a.store.GetActive(ctx) != nil {
		return HasActive
	}
	return NoActive
}

// Apply runs one candidate through the state machine and returns what
// happened. Candidates naming the operator are filtered before any other
// processing.
func (a *Aggregator) Apply(ctx context.Context, cand model.Candidate) Outcome {
	cand = a.filterSelf(cand)
	if cand.IsEmpty() {
		metrics.RecordCandidateDiscarded()
		return Discarded
	}

	active := a.store.GetActive(ctx)
	if active == nil {
		return a.applyNoActive(ctx, cand)
	}
	return a.applyHasActive(ctx, active, cand)
}

// applyNoActive creates a card when the candidate carries a name; anything
// else has no card to land on and is dropped.
func (a *Aggregator) applyNoActive(ctx context.Context, cand model.Candidate) Outcome {
	if cand.Name == "" {
		metrics.RecordCandidateDiscarded()
		return Discarded
	}

	rec := model.NewRecord(a.sessionID)
	applyAll(rec, cand)
	if !a.store.SetActive(ctx, rec) {
		metrics.RecordCandidateDiscarded()
		return Discarded
	}

	metrics.RecordCardCreated()
	metrics.RecordCandidateApplied()
	a.logger.Info(ctx, "card created",
		logger.String("recordID", rec.ID),
		logger.String("name", rec.Name),
	)
	return Created
}

// applyHasActive updates the active card, or handles a person switch when
// the candidate is flagged as a new person.
func (a *Aggregator) applyHasActive(ctx context.Context, active *model.Record, cand model.Candidate) Outcome {
	if cand.IsNewPerson && active.Name != "" {
		return a.personSwitch(ctx, cand)
	}

	if !a.store.UpdateActive(ctx, func(rec *model.Record) {
		applyUpdate(rec, cand)
	}) {
		metrics.RecordCandidateDiscarded()
		return Discarded
	}
	metrics.RecordCandidateApplied()
	return Updated
}

// personSwitch demotes the active card and begins a new one. When a card for
// the same person already sits in this session's history, that card comes
// back as the active one so later candidates land on it.
func (a *Aggregator) personSwitch(ctx context.Context, cand model.Candidate) Outcome {
	if cand.Name != "" {
		if prior := a.sameSessionByName(ctx, cand.Name); prior != nil {
			return a.reengage(ctx, prior, cand)
		}
	}

	a.store.DemoteActive(ctx)
	metrics.RecordPersonSwitch()

	if cand.Name == "" {
		// The old card is retired but the new person is still anonymous;
		// the next named candidate creates the card.
		metrics.RecordCandidateDiscarded()
		return Switched
	}

	rec := model.NewRecord(a.sessionID)
	applyAll(rec, cand)
	if !a.store.SetActive(ctx, rec) {
		metrics.RecordCandidateDiscarded()
		return Discarded
	}
	metrics.RecordCardCreated()
	metrics.RecordCandidateApplied()
	a.logger.Info(ctx, "person switch",
		logger.String("recordID", rec.ID),
		logger.String("name", rec.Name),
	)
	return Switched
}

// reengage retires the current card and restores the prior person's card as
// the active one, folding the candidate into it. The conversation has moved
// back to that person, so updates must stop landing on the card being left.
func (a *Aggregator) reengage(ctx context.Context, prior *model.Record, cand model.Candidate) Outcome {
	a.store.DemoteActive(ctx)
	metrics.RecordPersonSwitch()

	if !a.store.PromoteHistory(ctx, prior.ID) {
		// The prior card vanished between the snapshot and now, most likely
		// merged away. Start a fresh card for the person.
		rec := model.NewRecord(a.sessionID)
		applyAll(rec, cand)
		if !a.store.SetActive(ctx, rec) {
			metrics.RecordCandidateDiscarded()
			return Discarded
		}
		metrics.RecordCardCreated()
		metrics.RecordCandidateApplied()
		return Switched
	}

	if !a.store.UpdateActive(ctx, func(rec *model.Record) {
		applyUpdate(rec, cand)
	}) {
		metrics.RecordCandidateDiscarded()
		return Discarded
	}
	metrics.RecordCandidateApplied()
	a.logger.Info(ctx, "re-engaged prior card",
		logger.String("recordID", prior.ID),
		logger.String("name", cand.Name),
	)
	return Reengaged
}

// sameSessionByName finds a history record from this session whose
// normalized name equals the candidate's.
func (a *Aggregator) sameSessionByName(ctx context.Context, name string) *model.Record {
	norm := model.NormalizeName(name)
	for _, rec := range a.store.Snapshot(ctx).History {
		if rec.SessionID == a.sessionID && model.NormalizeName(rec.Name) == norm {
			return rec
		}
	}
	return nil
}

// filterSelf strips the operator's own identity out of a candidate.
func (a *Aggregator) filterSelf(cand model.Candidate) model.Candidate {
	if cand.Name == "" {
		return cand
	}
	if _, self := a.selfNames[model.NormalizeName(cand.Name)]; self {
		cand.Name = ""
		cand.IsNewPerson = false
	}
	return cand
}

// applyAll writes every present candidate field onto a fresh record.
func applyAll(rec *model.Record, cand model.Candidate) {
	rec.Name = cand.Name
	rec.Company = cand.Company
	rec.Role = cand.Role
	if cand.Category != "" {
		rec.Category = model.ParseCategory(cand.Category)
	}
	rec.Summary = cand.Summary
	for _, text := range cand.ActionItems {
		appendActionItem(rec, text)
	}
	rec.ContactURL = model.DeriveContactURL(rec.Name, rec.Company)
}

// applyUpdate applies a candidate to an existing record: fill-empty-only
// for name/company/role (a name may upgrade to a fuller form that extends
// it), fill-if-other for category, always-replace for summary, fuzzy-dedup
// append for action items.
func applyUpdate(rec *model.Record, cand model.Candidate) {
	if cand.Name != "" && (rec.Name == "" || model.IsNamePrefix(rec.Name, cand.Name)) {
		rec.Name = cand.Name
	}
	if cand.Company != "" && rec.Company == "" {
		rec.Company = cand.Company
	}
	if cand.Role != "" && rec.Role == "" {
		rec.Role = cand.Role
	}
	if cand.Category != "" && rec.Category == model.CategoryOther {
		rec.Category = model.ParseCategory(cand.Category)
	}
	if cand.Summary != "" {
		rec.Summary = cand.Summary
	}
	for _, text := range cand.ActionItems {
		appendActionItem(rec, text)
	}
	rec.ContactURL = model.DeriveContactURL(rec.Name, rec.Company)
}

// appendActionItem adds an item unless an existing one already covers at
// least half of its significant terms.
func appendActionItem(rec *model.Record, text string) {
	if text == "" || rec.HasActionItem(text) {
		return
	}
	for _, it := range rec.ActionItems {
		if model.TermOverlap(it.Text, text) >= actionItemOverlapThreshold {
			return
		}
	}
	rec.ActionItems = append(rec.ActionItems, model.NewActionItem(text))
}
