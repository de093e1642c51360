// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	segqueue "github.com/Naveen701372/Networking-Wingman/internal/adapters/mq/queue"
	workerpool "github.com/Naveen701372/Networking-Wingman/internal/adapters/mq/worker"
	"github.com/Naveen701372/Networking-Wingman/internal/adapters/oracle"
	repository "github.com/Naveen701372/Networking-Wingman/internal/adapters/repository"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/aggregate"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/dedupe"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/merge"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/query"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/router"
	"github.com/Naveen701372/Networking-Wingman/internal/scheduler"
	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
	"github.com/Naveen701372/Networking-Wingman/pkg/metrics"
)

// Service wires the ingestion pipeline: segment queue, extraction workers,
// the record store, the paced review pass and the query resolver. One
// conversation session is live at a time; starting a new session finishes
// the previous one.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	segQueue   segqueue.Queue
	workerPool *workerpool.Pool
	window     *workerpool.Window
	extractor  oracle.ExtractionOracle
	identity   oracle.IdentityOracle
	debouncer  *scheduler.Debouncer
	ledger     *suggestionLedger

	// Per-session state
	sessionID  string
	aggregator *aggregate.Aggregator

	// Query resolution
	resolveMu   sync.Mutex
	resolver    *query.Resolver
	lastMatchID string

	// Configuration
	workerCount      int
	queueSize        int
	selfNames        []string
	oracleEnabled    bool
	oracleModel      string
	oracleBaseURL    string
	oracleTimeout    time.Duration
	debounceChars    int
	debounceInterval time.Duration
	windowChars      int

	// Injected oracles, for tests and alternative backends
	extractorOverride oracle.ExtractionOracle
	identityOverride  oracle.IdentityOracle

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of extraction worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the segment queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSelfNames sets the operator identities filtered out of candidates.
func WithSelfNames(names []string) Option {
	return func(s *Service) {
		s.selfNames = names
	}
}

// WithOracleEnabled toggles the live language-model oracles. When disabled
// the service runs with no-op oracles and only the heuristic pipeline.
func WithOracleEnabled(enabled bool) Option {
	return func(s *Service) {
		s.oracleEnabled = enabled
	}
}

// WithOracleModel sets the chat model used by both oracles.
func WithOracleModel(m string) Option {
	return func(s *Service) {
		if m != "" {
			s.oracleModel = m
		}
	}
}

// WithOracleBaseURL points the oracles at an OpenAI-compatible endpoint.
func WithOracleBaseURL(u string) Option {
	return func(s *Service) {
		s.oracleBaseURL = u
	}
}

// WithOracleTimeout bounds each oracle round trip.
func WithOracleTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.oracleTimeout = d
		}
	}
}

// WithDebounce sets the review pass triggers: accumulated transcript
// characters and the quiet interval.
func WithDebounce(chars int, interval time.Duration) Option {
	return func(s *Service) {
		if chars > 0 {
			s.debounceChars = chars
		}
		if interval > 0 {
			s.debounceInterval = interval
		}
	}
}

// WithWindowChars bounds the rolling transcript window.
func WithWindowChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.windowChars = n
		}
	}
}

// WithOracles injects the extraction and identity oracles directly,
// bypassing client construction. Takes precedence over WithOracleEnabled.
func WithOracles(ext oracle.ExtractionOracle, id oracle.IdentityOracle) Option {
	return func(s *Service) {
		s.extractorOverride = ext
		s.identityOverride = id
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 4,
		queueSize:        10000,
		oracleModel:      "gpt-4o-mini",
		oracleTimeout:    8 * time.Second,
		debounceChars:    400,
		debounceInterval: 2 * time.Second,
		windowChars:      1200,
		resolver:         query.NewResolver(),
		ledger:           newSuggestionLedger(),
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting wingman service...")

	s.store = repository.NewMemStore(ctx)
	s.window = workerpool.NewWindow(s.windowChars)
	s.segQueue = segqueue.NewInMemoryQueue(
		segqueue.WithCapacity(s.queueSize),
		segqueue.WithBufferSize(s.queueSize),
	)

	s.extractor, s.identity = s.buildOracles(ctx)

	s.workerPool = workerpool.NewPool(s.workerCount, s.segQueue, s.extractor, s, s.store, s.window)
	s.workerPool.Start(ctx)

	s.debouncer = scheduler.New(s.reviewPass,
		scheduler.WithCharThreshold(s.debounceChars),
		scheduler.WithQuietInterval(s.debounceInterval),
	)
	s.debouncer.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "wingman service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("oracleEnabled", s.oracleEnabled),
	)

	return nil
}

// buildOracles picks live or no-op oracles. A missing API key degrades to
// no-op so the heuristic pipeline still runs.
func (s *Service) buildOracles(ctx context.Context) (oracle.ExtractionOracle, oracle.IdentityOracle) {
	if s.extractorOverride != nil && s.identityOverride != nil {
		return s.extractorOverride, s.identityOverride
	}
	if !s.oracleEnabled {
		return oracle.Noop{}, oracle.Noop{}
	}

	client, err := oracle.NewClient(s.oracleBaseURL,
		oracle.WithModel(s.oracleModel),
		oracle.WithTimeout(s.oracleTimeout),
	)
	if err != nil {
		s.logger.Warn(ctx, "oracle unavailable, running heuristics only", logger.Error(err))
		return oracle.Noop{}, oracle.Noop{}
	}
	return client, client
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping wingman service...")

	if s.debouncer != nil {
		s.debouncer.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if q, ok := s.segQueue.(*segqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "wingman service stopped")
}

// Apply implements the worker pool's Applier by delegating to the current
// session's aggregator. Segments racing a session teardown are dropped.
func (s *Service) Apply(ctx context.Context, cand model.Candidate) aggregate.Outcome {
	s.mu.RLock()
	agg := s.aggregator
	s.mu.RUnlock()

	if agg == nil {
		metrics.RecordCandidateDiscarded()
		return aggregate.Discarded
	}
	return agg.Apply(ctx, cand)
}

// IngestSegment accepts one transcript segment for asynchronous processing.
// Returns false when the service is stopped or the queue is full.
func (s *Service) IngestSegment(ctx context.Context, seg model.Segment) bool {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return false
	}
	s.ensureSessionLocked(ctx, seg.SessionID)
	s.mu.Unlock()

	if seg.IsFinal {
		s.debouncer.Note(len(seg.Text))
	}
	return s.segQueue.Enqueue(ctx, seg)
}

// ensureSessionLocked points the pipeline at a session, finishing the
// previous one when the id changes. Caller holds s.mu.
func (s *Service) ensureSessionLocked(ctx context.Context, sessionID string) {
	if s.sessionID == sessionID {
		return
	}
	if s.sessionID != "" {
		s.finishSessionLocked(ctx)
	}
	s.sessionID = sessionID
	s.aggregator = aggregate.New(s.store, sessionID, s.selfNames)
	s.logger.Info(ctx, "session started", logger.String("sessionID", sessionID))
}

// EndSession finishes the named session: a final review pass runs, the
// active card retires to history and the transcript window clears. Returns
// false when the session is not the live one.
func (s *Service) EndSession(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.sessionID != sessionID {
		return false
	}
	s.finishSessionLocked(ctx)
	return true
}

// finishSessionLocked flushes pending review work and retires the session.
// Caller holds s.mu.
func (s *Service) finishSessionLocked(ctx context.Context) {
	s.debouncer.Flush(ctx)
	s.store.DemoteActive(ctx)
	s.window.Reset()
	s.logger.Info(ctx, "session finished", logger.String("sessionID", s.sessionID))
	s.sessionID = ""
	s.aggregator = nil
}

// Records returns a point-in-time view of all live records, active card
// first.
func (s *Service) Records(ctx context.Context) []*model.Record {
	return s.store.Snapshot(ctx).Records()
}

// ActiveRecord returns the current active card, nil when none.
func (s *Service) ActiveRecord(ctx context.Context) *model.Record {
	return s.store.GetActive(ctx)
}

// Resolve appends description text to the running query and returns the
// committed match plus the full score table. reset starts a fresh query
// first.
func (s *Service) Resolve(ctx context.Context, text string, reset bool) (*model.Record, []query.Score) {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	if reset {
		s.resolver.Reset()
		s.lastMatchID = ""
	}
	s.resolver.Append(text)

	match, scores := s.resolver.Resolve(s.store.Snapshot(ctx).Records())
	metrics.RecordQueryResolution()
	if match != nil {
		if s.lastMatchID != "" && s.lastMatchID != match.ID {
			metrics.RecordQueryMatchSwitch()
		}
		s.lastMatchID = match.ID
	}
	return match, scores
}

// reviewPass is the debounced background pass: a heuristic duplicate scan
// over all records followed by an identity oracle review. Proposals route
// by confidence; at most one merge per record per pass.
func (s *Service) reviewPass(ctx context.Context) {
	snap := s.store.Snapshot(ctx)

	// Oldest record first so merges collapse toward the earliest card.
	records := make([]*model.Record, 0, len(snap.History)+1)
	for i := len(snap.History) - 1; i >= 0; i-- {
		records = append(records, snap.History[i])
	}
	if snap.Active != nil {
		records = append(records, snap.Active)
	}
	if len(records) < 2 {
		return
	}

	guard := dedupe.NewBatchGuard()
	for _, p := range dedupe.Propose(records) {
		s.routeMerge(ctx, p, guard)
	}

	verdict, err := s.identity.Review(ctx, records, s.window.String())
	if err != nil {
		s.logger.Debug(ctx, "identity review skipped", logger.Error(err))
		return
	}
	for _, p := range verdict.Merges {
		s.routeMerge(ctx, p, guard)
	}
	for _, u := range verdict.Updates {
		s.routeUpdate(ctx, u)
	}
}

// routeMerge sends one merge proposal through the confidence gate.
func (s *Service) routeMerge(ctx context.Context, p model.MergeProposal, guard *dedupe.BatchGuard) {
	switch router.Route(p.Confidence) {
	case router.AutoApply:
		if guard.Blocked(p) {
			metrics.RecordProposalDiscarded()
			return
		}
		if !s.applyMerge(ctx, p) {
			metrics.RecordProposalDiscarded()
			return
		}
		guard.MarkApplied(p)
	case router.Suggest:
		s.ledger.addMerge(p)
		metrics.RecordProposalSuggested()
	default:
		metrics.RecordProposalDiscarded()
	}
}

// applyMerge re-validates a proposal against current store state and
// applies it atomically. Stale proposals (either side tombstoned or gone)
// are rejected, and hard-negative pairings are vetoed no matter which pass
// produced the proposal or how confident it was.
func (s *Service) applyMerge(ctx context.Context, p model.MergeProposal) bool {
	if s.store.IsTombstoned(ctx, p.SourceID) || s.store.IsTombstoned(ctx, p.TargetID) {
		return false
	}

	snap := s.store.Snapshot(ctx)
	target, source := snap.Find(p.TargetID), snap.Find(p.SourceID)
	if target == nil || source == nil {
		return false
	}
	if dedupe.HardNegative(target, source) {
		s.logger.Warn(ctx, "merge vetoed, records describe different people",
			logger.String("sourceID", p.SourceID),
			logger.String("targetID", p.TargetID),
			logger.Float64("confidence", p.Confidence),
		)
		return false
	}

	if !s.store.ApplyMerge(ctx, p, merge.Merge) {
		return false
	}
	metrics.RecordMergeApplied()
	s.logger.Info(ctx, "merge applied",
		logger.String("sourceID", p.SourceID),
		logger.String("targetID", p.TargetID),
		logger.Float64("confidence", p.Confidence),
	)
	return true
}

// routeUpdate sends one field correction through the confidence gate.
func (s *Service) routeUpdate(ctx context.Context, u model.UpdateProposal) {
	switch router.Route(u.Confidence) {
	case router.AutoApply:
		if s.applyCorrection(ctx, u) {
			metrics.RecordCandidateApplied()
		} else {
			metrics.RecordProposalDiscarded()
		}
	case router.Suggest:
		s.ledger.addUpdate(u)
		metrics.RecordProposalSuggested()
	default:
		metrics.RecordProposalDiscarded()
	}
}

// applyCorrection overwrites record fields with the proposal's non-empty
// changes. Corrections are trusted replacements, unlike live candidates
// which only fill gaps.
func (s *Service) applyCorrection(ctx context.Context, u model.UpdateProposal) bool {
	fn := func(rec *model.Record) {
		if u.Changes.Name != "" {
			rec.Name = u.Changes.Name
		}
		if u.Changes.Company != "" {
			rec.Company = u.Changes.Company
		}
		if u.Changes.Role != "" {
			rec.Role = u.Changes.Role
		}
		if u.Changes.Category != "" {
			rec.Category = model.ParseCategory(u.Changes.Category)
		}
		if u.Changes.Summary != "" {
			rec.Summary = u.Changes.Summary
		}
		rec.ContactURL = model.DeriveContactURL(rec.Name, rec.Company)
	}

	if act := s.store.GetActive(ctx); act != nil && act.ID == u.RecordID {
		return s.store.UpdateActive(ctx, fn)
	}
	return s.store.UpdateHistory(ctx, u.RecordID, fn)
}

// Suggestions lists pending mid-confidence proposals, oldest first.
func (s *Service) Suggestions(_ context.Context) []Suggestion {
	return s.ledger.list()
}

// AcceptSuggestion applies a pending suggestion as if it had cleared the
// auto-apply gate. The proposal is re-validated; store drift since the
// suggestion was made surfaces as ErrSuggestionStale.
func (s *Service) AcceptSuggestion(ctx context.Context, id string) error {
	sug, ok := s.ledger.take(id)
	if !ok {
		return ErrSuggestionUnknown
	}

	switch sug.Kind {
	case SuggestionMerge:
		if !s.applyMerge(ctx, *sug.Merge) {
			return ErrSuggestionStale
		}
	case SuggestionUpdate:
		if !s.applyCorrection(ctx, *sug.Update) {
			return ErrSuggestionStale
		}
		metrics.RecordCandidateApplied()
	}
	return nil
}

// DismissSuggestion drops a pending suggestion without applying it.
func (s *Service) DismissSuggestion(_ context.Context, id string) error {
	if _, ok := s.ledger.take(id); !ok {
		return ErrSuggestionUnknown
	}
	metrics.RecordProposalDiscarded()
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"sessionID":   s.sessionID,
	}

	if s.started {
		queueLen := s.segQueue.Len(ctx)
		recordCount := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["recordCount"] = recordCount
		stats["pendingSuggestions"] = len(s.ledger.list())

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateRecordCount(recordCount)
	}

	return stats
}
