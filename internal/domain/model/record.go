// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies a person card into a fixed set of buckets.
type Category string

// Known categories. CategoryOther is the default and the only value a later
// candidate may overwrite.
const (
	CategoryFounder   Category = "founder"
	CategoryInvestor  Category = "investor"
	CategoryDeveloper Category = "developer"
	CategoryDesigner  Category = "designer"
	CategoryStudent   Category = "student"
	CategoryExecutive Category = "executive"
	CategoryOther     Category = "other"
)

// ParseCategory maps free text to a Category, falling back to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryFounder, CategoryInvestor, CategoryDeveloper,
		CategoryDesigner, CategoryStudent, CategoryExecutive:
		return Category(strings.ToLower(strings.TrimSpace(s)))
	default:
		return CategoryOther
	}
}

// ActionItem is a follow-up captured during a conversation.
type ActionItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewActionItem creates an action item with a fresh id.
func NewActionItem(text string) ActionItem {
	return ActionItem{
		ID:        uuid.NewString(),
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
}

// Record is a person card: the unit of identity the engine maintains.
// Invariants enforced by the store and aggregator:
//   - at most one record is active at a time
//   - ActionItems never contains two entries with equal normalized text
//   - Category starts as "other" and is only overwritten while "other"
type Record struct {
	ID                string       `json:"id"`
	SessionID         string       `json:"session_id,omitempty"`
	Name              string       `json:"name"`
	Company           string       `json:"company,omitempty"`
	Role              string       `json:"role,omitempty"`
	Category          Category     `json:"category"`
	Summary           string       `json:"summary,omitempty"`
	ContactURL        string       `json:"contact_url,omitempty"`
	ActionItems       []ActionItem `json:"action_items,omitempty"`
	TranscriptSnippet string       `json:"transcript_snippet,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	Active            bool         `json:"active"`
}

// NewRecord creates an empty card for the given session.
func NewRecord(sessionID string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Category:  CategoryOther,
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy. Snapshots hand out clones so readers never
// alias store-owned state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	if len(r.ActionItems) > 0 {
		cp.ActionItems = make([]ActionItem, len(r.ActionItems))
		copy(cp.ActionItems, r.ActionItems)
	}
	return &cp
}

// HasActionItem reports whether the record already holds an item with the
// same normalized text.
func (r *Record) HasActionItem(text string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	for _, it := range r.ActionItems {
		if strings.ToLower(strings.TrimSpace(it.Text)) == norm {
			return true
		}
	}
	return false
}

// MergeProposal suggests folding the source record into the target.
type MergeProposal struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Confidence float64 `json:"confidence"` // 0..100
	Reason     string  `json:"reason,omitempty"`
}

// UpdateProposal suggests field changes for an existing record.
type UpdateProposal struct {
	RecordID   string    `json:"record_id"`
	Changes    Candidate `json:"changes"`
	Confidence float64   `json:"confidence"` // 0..100
	Reason     string    `json:"reason,omitempty"`
}
