// Package repository defines the record store interface and errors. The
// store is the single owner of mutable card state; every other component
// works on snapshots and proposals.
package repository

import (
	"context"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// Snapshot is a point-in-time copy of the store. History is ordered
// most-recent-first. All records are clones; mutating them never touches
// store state.
type Snapshot struct {
	Active  *model.Record
	History []*model.Record
}

// Records returns active (when set) followed by history, oldest last.
func (s Snapshot) Records() []*model.Record {
	out := make([]*model.Record, 0, len(s.History)+1)
	if s.Active != nil {
		out = append(out, s.Active)
	}
	return append(out, s.History...)
}

// Find returns the snapshot record with the given id, or nil.
func (s Snapshot) Find(id string) *model.Record {
	if s.Active != nil && s.Active.ID == id {
		return s.Active
	}
	for _, rec := range s.History {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// ChangeListener observes record creation and mutation. Invoked after the
// write commits, outside the store lock, with a clone.
type ChangeListener func(rec *model.Record)

// TombstoneListener observes ids retired by merges.
type TombstoneListener func(id string)

// Store provides serialized access to the card state of one session. Every
// write path checks the tombstone set first; writes against a tombstoned id
// are silently dropped (the methods report whether the write happened).
type Store interface {
	// GetActive returns a clone of the active record, or nil.
	GetActive(ctx context.Context) *model.Record

	// SetActive installs rec as the active record. Returns false when the
	// id is tombstoned or another record is already active.
	SetActive(ctx context.Context, rec *model.Record) bool

	// DemoteActive moves the active record to the front of history and
	// returns a clone of it, or nil when nothing was active.
	DemoteActive(ctx context.Context) *model.Record

	// PromoteHistory moves the identified history record back into the
	// active slot. Returns false when the id is unknown or tombstoned, or
	// another record is active.
	PromoteHistory(ctx context.Context, id string) bool

	// UpdateActive applies fn to the active record under the store lock.
	// Returns false when there is no active record or it is tombstoned.
	UpdateActive(ctx context.Context, fn func(*model.Record)) bool

	// UpdateHistory applies fn to the identified history record under the
	// store lock. Returns false for unknown or tombstoned ids.
	UpdateHistory(ctx context.Context, id string, fn func(*model.Record)) bool

	// ApplyMerge atomically replaces the target with combine(target, source),
	// removes the source, and tombstones the source id. No observer can see
	// the source gone but not tombstoned, or vice versa. Returns false when
	// either id is missing or tombstoned.
	ApplyMerge(ctx context.Context, p model.MergeProposal, combine func(target, source *model.Record) *model.Record) bool

	// Tombstone permanently retires an id. Append-only; never undone.
	Tombstone(ctx context.Context, id string)

	// IsTombstoned reports whether the id has been retired.
	IsTombstoned(ctx context.Context, id string) bool

	// Snapshot returns a consistent copy of active and history.
	Snapshot(ctx context.Context) Snapshot

	// Count returns the number of live records (active plus history).
	Count(ctx context.Context) int

	// OnRecordChanged registers a listener for record creation/mutation.
	OnRecordChanged(fn ChangeListener)

	// OnRecordTombstoned registers a listener for retired ids.
	OnRecordTombstoned(fn TombstoneListener)
}
