package repository

import (
	"context"
	"sync"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/pkg/metrics"
)

// MemStore implements Store with in-memory state guarded by a single mutex.
// One writer at a time per session; readers take snapshots. Listeners fire
// after the write commits, outside the lock.
type MemStore struct {
	mu         sync.RWMutex
	active     *model.Record
	history    []*model.Record // most-recent-first
	tombstones map[string]struct{}

	lmu                sync.RWMutex
	changeListeners    []ChangeListener
	tombstoneListeners []TombstoneListener
}

// NewMemStore creates an empty store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{tombstones: make(map[string]struct{})}
}

// GetActive returns a clone of the active record, or nil.
func (s *MemStore) GetActive(_ context.Context) *model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// SetActive installs rec as the active record.
func (s *MemStore) SetActive(ctx context.Context, rec *model.Record) bool {
	if rec == nil {
		return false
	}
	s.mu.Lock()
	if _, dead := s.tombstones[rec.ID]; dead || s.active != nil {
		s.mu.Unlock()
		return false
	}
	rec = rec.Clone()
	rec.Active = true
	s.active = rec
	changed := rec.Clone()
	s.mu.Unlock()

	metrics.UpdateRecordCount(s.Count(ctx))
	s.emitChanged(changed)
	return true
}

// DemoteActive moves the active record to the front of history.
func (s *MemStore) DemoteActive(ctx context.Context) *model.Record {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return nil
	}
	rec := s.active
	rec.Active = false
	s.history = append([]*model.Record{rec}, s.history...)
	s.active = nil
	changed := rec.Clone()
	s.mu.Unlock()

	s.emitChanged(changed)
	return changed.Clone()
}

// PromoteHistory moves a history record back into the active slot.
func (s *MemStore) PromoteHistory(ctx context.Context, id string) bool {
	s.mu.Lock()
	if _, dead := s.tombstones[id]; dead || s.active != nil {
		s.mu.Unlock()
		return false
	}
	var rec *model.Record
	for i, r := range s.history {
		if r.ID == id {
			rec = r
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}
	if rec == nil {
		s.mu.Unlock()
		return false
	}
	rec.Active = true
	s.active = rec
	changed := rec.Clone()
	s.mu.Unlock()

	s.emitChanged(changed)
	return true
}

// UpdateActive applies fn to the active record under the lock.
func (s *MemStore) UpdateActive(_ context.Context, fn func(*model.Record)) bool {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return false
	}
	if _, dead := s.tombstones[s.active.ID]; dead {
		s.mu.Unlock()
		return false
	}
	fn(s.active)
	changed := s.active.Clone()
	s.mu.Unlock()

	s.emitChanged(changed)
	return true
}

// UpdateHistory applies fn to the identified history record under the lock.
func (s *MemStore) UpdateHistory(_ context.Context, id string, fn func(*model.Record)) bool {
	s.mu.Lock()
	if _, dead := s.tombstones[id]; dead {
		s.mu.Unlock()
		return false
	}
	var changed *model.Record
	for _, rec := range s.history {
		if rec.ID == id {
			fn(rec)
			changed = rec.Clone()
			break
		}
	}
	s.mu.Unlock()

	if changed == nil {
		return false
	}
	s.emitChanged(changed)
	return true
}

// ApplyMerge atomically folds the source record into the target and
// tombstones the source id.
func (s *MemStore) ApplyMerge(ctx context.Context, p model.MergeProposal, combine func(target, source *model.Record) *model.Record) bool {
	s.mu.Lock()
	if _, dead := s.tombstones[p.TargetID]; dead {
		s.mu.Unlock()
		return false
	}
	if _, dead := s.tombstones[p.SourceID]; dead {
		s.mu.Unlock()
		return false
	}

	target := s.locate(p.TargetID)
	source := s.locate(p.SourceID)
	if target == nil || source == nil {
		s.mu.Unlock()
		return false
	}

	merged := combine(target, source)
	merged.ID = target.ID
	merged.Active = target.Active

	// Replace the target in place, drop the source, and tombstone it in one
	// critical section so no reader sees a half-applied merge.
	s.replace(target.ID, merged)
	s.remove(source.ID)
	s.tombstones[source.ID] = struct{}{}
	changed := merged.Clone()
	s.mu.Unlock()

	metrics.RecordTombstone()
	metrics.UpdateRecordCount(s.Count(ctx))
	s.emitChanged(changed)
	s.emitTombstoned(p.SourceID)
	return true
}

// Tombstone permanently retires an id.
func (s *MemStore) Tombstone(ctx context.Context, id string) {
	s.mu.Lock()
	_, already := s.tombstones[id]
	s.tombstones[id] = struct{}{}
	if s.active != nil && s.active.ID == id {
		s.active = nil
	}
	s.remove(id)
	s.mu.Unlock()

	if !already {
		metrics.RecordTombstone()
		metrics.UpdateRecordCount(s.Count(ctx))
		s.emitTombstoned(id)
	}
}

// IsTombstoned reports whether the id has been retired.
func (s *MemStore) IsTombstoned(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tombstones[id]
	return ok
}

// Snapshot returns a consistent copy of active and history.
func (s *MemStore) Snapshot(_ context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Active: s.active.Clone()}
	snap.History = make([]*model.Record, len(s.history))
	for i, rec := range s.history {
		snap.History[i] = rec.Clone()
	}
	return snap
}

// Count returns the number of live records.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.history)
	if s.active != nil {
		n++
	}
	return n
}

// OnRecordChanged registers a change listener.
func (s *MemStore) OnRecordChanged(fn ChangeListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.changeListeners = append(s.changeListeners, fn)
}

// OnRecordTombstoned registers a tombstone listener.
func (s *MemStore) OnRecordTombstoned(fn TombstoneListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.tombstoneListeners = append(s.tombstoneListeners, fn)
}

// locate finds a live record by id. Must be called with the lock held.
func (s *MemStore) locate(id string) *model.Record {
	if s.active != nil && s.active.ID == id {
		return s.active
	}
	for _, rec := range s.history {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// replace swaps a live record for its merged successor. Lock must be held.
func (s *MemStore) replace(id string, rec *model.Record) {
	if s.active != nil && s.active.ID == id {
		s.active = rec
		return
	}
	for i, r := range s.history {
		if r.ID == id {
			s.history[i] = rec
			return
		}
	}
}

// remove drops a live record. Lock must be held.
func (s *MemStore) remove(id string) {
	if s.active != nil && s.active.ID == id {
		s.active = nil
		return
	}
	for i, r := range s.history {
		if r.ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return
		}
	}
}

func (s *MemStore) emitChanged(rec *model.Record) {
	s.lmu.RLock()
	listeners := s.changeListeners
	s.lmu.RUnlock()
	for _, fn := range listeners {
		fn(rec.Clone())
	}
}

func (s *MemStore) emitTombstoned(id string) {
	s.lmu.RLock()
	listeners := s.tombstoneListeners
	s.lmu.RUnlock()
	for _, fn := range listeners {
		fn(id)
	}
}
