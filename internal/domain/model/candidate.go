package model

import (
	"strings"
	"time"
)

// Candidate is a partial attribute set proposed by the extraction oracle for
// the current conversation. Empty fields mean "nothing extracted", never
// "clear this field".
type Candidate struct {
	Name          string   `json:"name,omitempty"`
	Company       string   `json:"company,omitempty"`
	Role          string   `json:"role,omitempty"`
	Category      string   `json:"category,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	ActionItems   []string `json:"action_items,omitempty"`
	IsNewPerson   bool     `json:"is_new_person,omitempty"`
	DetectedEvent string   `json:"detected_event,omitempty"`
}

// IsEmpty reports whether the candidate carries no usable fields.
func (c Candidate) IsEmpty() bool {
	return strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Company) == "" &&
		strings.TrimSpace(c.Role) == "" &&
		strings.TrimSpace(c.Category) == "" &&
		strings.TrimSpace(c.Summary) == "" &&
		len(c.ActionItems) == 0
}

// Segment is one finalized transcript fragment flowing through the queue.
type Segment struct {
	SegmentID string    `json:"segment_id"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	IsFinal   bool      `json:"is_final"`
	TS        time.Time `json:"ts"`
}
