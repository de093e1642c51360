package oracle

import (
	"encoding/json"
	"strings"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// Wire shapes mirror the prompt contracts. Parsing is strict: unknown
// structure, missing required ids, or out-of-range confidences make the
// whole response a ParseFailure rather than a partially trusted result.

type candidateWire struct {
	Name          string   `json:"name"`
	Company       string   `json:"company"`
	Role          string   `json:"role"`
	Category      string   `json:"category"`
	Summary       string   `json:"summary"`
	ActionItems   []string `json:"action_items"`
	IsNewPerson   bool     `json:"is_new_person"`
	DetectedEvent string   `json:"detected_event"`
}

type verdictWire struct {
	Updates []updateWire `json:"updates"`
	Merges  []mergeWire  `json:"merges"`
}

type updateWire struct {
	RecordID   string        `json:"record_id"`
	Changes    candidateWire `json:"changes"`
	Confidence float64       `json:"confidence"`
	Reason     string        `json:"reason"`
}

type mergeWire struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ParseCandidate decodes an extraction oracle response. The empty object is
// a valid "no candidate" answer.
func ParseCandidate(raw string) (model.Candidate, error) {
	payload := StripFences(raw)
	if strings.TrimSpace(payload) == "" {
		return model.Candidate{}, &ParseFailure{Reason: "empty response", Raw: raw}
	}

	var w candidateWire
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&w); err != nil {
		return model.Candidate{}, &ParseFailure{Reason: "invalid json: " + err.Error(), Raw: raw}
	}

	c := model.Candidate{
		Name:          strings.TrimSpace(w.Name),
		Company:       strings.TrimSpace(w.Company),
		Role:          strings.TrimSpace(w.Role),
		Summary:       strings.TrimSpace(w.Summary),
		IsNewPerson:   w.IsNewPerson,
		DetectedEvent: strings.TrimSpace(w.DetectedEvent),
	}
	if w.Category != "" {
		c.Category = string(model.ParseCategory(w.Category))
	}
	for _, it := range w.ActionItems {
		if it = strings.TrimSpace(it); it != "" {
			c.ActionItems = append(c.ActionItems, it)
		}
	}
	return c, nil
}

// ParseVerdict decodes an identity oracle response, validating every
// proposal's ids and confidence range.
func ParseVerdict(raw string) (Verdict, error) {
	payload := StripFences(raw)
	if strings.TrimSpace(payload) == "" {
		return Verdict{}, &ParseFailure{Reason: "empty response", Raw: raw}
	}

	var w verdictWire
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return Verdict{}, &ParseFailure{Reason: "invalid json: " + err.Error(), Raw: raw}
	}

	var v Verdict
	for _, m := range w.Merges {
		switch {
		case strings.TrimSpace(m.SourceID) == "" || strings.TrimSpace(m.TargetID) == "":
			return Verdict{}, &ParseFailure{Reason: "merge proposal missing record ids", Raw: raw}
		case m.SourceID == m.TargetID:
			return Verdict{}, &ParseFailure{Reason: "merge proposal is self-referential", Raw: raw}
		case m.Confidence < 0 || m.Confidence > 100:
			return Verdict{}, &ParseFailure{Reason: "merge confidence out of range", Raw: raw}
		}
		v.Merges = append(v.Merges, model.MergeProposal{
			SourceID:   m.SourceID,
			TargetID:   m.TargetID,
			Confidence: m.Confidence,
			Reason:     m.Reason,
		})
	}
	for _, u := range w.Updates {
		switch {
		case strings.TrimSpace(u.RecordID) == "":
			return Verdict{}, &ParseFailure{Reason: "update proposal missing record id", Raw: raw}
		case u.Confidence < 0 || u.Confidence > 100:
			return Verdict{}, &ParseFailure{Reason: "update confidence out of range", Raw: raw}
		}
		changes := model.Candidate{
			Name:    strings.TrimSpace(u.Changes.Name),
			Company: strings.TrimSpace(u.Changes.Company),
			Role:    strings.TrimSpace(u.Changes.Role),
			Summary: strings.TrimSpace(u.Changes.Summary),
		}
		if u.Changes.Category != "" {
			changes.Category = string(model.ParseCategory(u.Changes.Category))
		}
		v.Updates = append(v.Updates, model.UpdateProposal{
			RecordID:   u.RecordID,
			Changes:    changes,
			Confidence: u.Confidence,
			Reason:     u.Reason,
		})
	}
	return v, nil
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, from a model response.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first == "" || isLanguageTag(first) {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
