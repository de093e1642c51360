// Package query resolves a free-form spoken description ("who was that
// person") against all known records. Scoring is additive across fields and
// a committed match only flips under an explicit hysteresis rule, so the
// answer does not oscillate while the description streams in word by word.
package query

import (
	"sort"
	"strings"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// Field weights and caps on the additive score.
const (
	fullNameWeight     = 100
	nameTokenWeight    = 50
	companyWeight      = 40
	companyStemWeight  = 25
	roleWeight         = 30
	roleStemWeight     = 20
	categoryWeight     = 15
	summaryTermWeight  = 5
	summaryCap         = 25
	actionTermWeight   = 8
	actionCap          = 16
	eligibilityFloor   = 15
	switchAdvantage    = 1.3  // new top must exceed 130% of committed score
	clearLeadGap       = 0.15 // relative #1 vs #2 gap that also allows a switch
	minStemLen         = 4
)

// categoryKeywords trigger the category bonus when the record's category
// matches a word in the description.
var categoryKeywords = map[model.Category][]string{
	model.CategoryFounder:   {"founder", "founded", "cofounder", "co-founder", "founding"},
	model.CategoryInvestor:  {"investor", "invests", "investing", "vc", "angel", "fund"},
	model.CategoryDeveloper: {"developer", "engineer", "engineering", "programmer", "coder", "coding"},
	model.CategoryDesigner:  {"designer", "design", "ux", "ui"},
	model.CategoryStudent:   {"student", "studying", "studies", "university", "college", "grad"},
	model.CategoryExecutive: {"executive", "ceo", "cto", "coo", "cfo", "vp", "director"},
}

// Score is one row of the per-record score table.
type Score struct {
	RecordID string  `json:"record_id"`
	Name     string  `json:"name"`
	Points   float64 `json:"points"`
}

// Resolver accumulates description text for one session and tracks the
// committed match. Not safe for concurrent use; the owning session
// serializes calls.
type Resolver struct {
	description string
	committedID string
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Append adds description text to the accumulated query.
func (r *Resolver) Append(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if r.description == "" {
		r.description = text
		return
	}
	r.description += " " + text
}

// Description returns the accumulated query text.
func (r *Resolver) Description() string {
	return r.description
}

// Reset clears accumulated text and the committed match, starting a fresh
// query.
func (r *Resolver) Reset() {
	r.description = ""
	r.committedID = ""
}

// Resolve scores every record against the accumulated description and
// returns the committed match (nil when nothing is eligible) plus the score
// table sorted descending.
//
// A record is eligible only with a score of at least 15. Once a match is
// committed it is only replaced when the new top exceeds 130% of the
// committed record's current score, or the #1/#2 relative gap is at least
// 15% and the committed record is not #2.
func (r *Resolver) Resolve(records []*model.Record) (*model.Record, []Score) {
	scores := make([]Score, 0, len(records))
	byID := make(map[string]*model.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
		scores = append(scores, Score{
			RecordID: rec.ID,
			Name:     rec.Name,
			Points:   ScoreRecord(r.description, rec),
		})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Points > scores[j].Points })

	if len(scores) == 0 || scores[0].Points < eligibilityFloor {
		return nil, scores
	}
	top := scores[0]

	// Committed record gone (merged away) or never set: commit the top.
	prev, committed := r.committedScore(scores)
	if !committed {
		r.committedID = top.RecordID
		return byID[top.RecordID], scores
	}
	if top.RecordID == r.committedID {
		return byID[r.committedID], scores
	}

	if top.Points > prev*switchAdvantage {
		r.committedID = top.RecordID
		return byID[top.RecordID], scores
	}
	if len(scores) > 1 && top.Points > 0 {
		gap := (top.Points - scores[1].Points) / top.Points
		if gap >= clearLeadGap && scores[1].RecordID != r.committedID {
			r.committedID = top.RecordID
			return byID[top.RecordID], scores
		}
	}

	return byID[r.committedID], scores
}

// committedScore looks up the committed record's current score. The second
// return is false when no commitment exists or the record vanished.
func (r *Resolver) committedScore(scores []Score) (float64, bool) {
	if r.committedID == "" {
		return 0, false
	}
	for _, s := range scores {
		if s.RecordID == r.committedID {
			return s.Points, true
		}
	}
	r.committedID = ""
	return 0, false
}

// ScoreRecord computes the additive score of one record against a
// description. Pure and deterministic.
func ScoreRecord(description string, rec *model.Record) float64 {
	desc := strings.ToLower(description)
	tokens := model.Tokenize(description)
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	var score float64

	// Name: full verbatim match beats per-token credit.
	if name := model.NormalizeName(rec.Name); name != "" {
		if strings.Contains(desc, name) {
			score += fullNameWeight
		} else {
			for _, t := range strings.Fields(name) {
				if _, ok := tokenSet[t]; ok {
					score += nameTokenWeight
				}
			}
		}
	}

	// Company: verbatim, else stem-prefix contact with any description word.
	if company := strings.ToLower(strings.TrimSpace(rec.Company)); company != "" {
		if strings.Contains(desc, company) {
			score += companyWeight
		} else if stemOverlap(strings.Fields(company), tokens) {
			score += companyStemWeight
		}
	}

	// Role: verbatim, else stemmed keyword overlap.
	if role := strings.ToLower(strings.TrimSpace(rec.Role)); role != "" {
		if strings.Contains(desc, role) {
			score += roleWeight
		} else if stemOverlap(strings.Fields(role), tokens) {
			score += roleStemWeight
		}
	}

	// Category keyword bonus.
	for _, kw := range categoryKeywords[rec.Category] {
		if _, ok := tokenSet[kw]; ok {
			score += categoryWeight
			break
		}
	}

	// Summary terms: small additive credit, capped.
	var summaryScore float64
	for _, t := range model.SignificantTerms(rec.Summary) {
		if _, ok := tokenSet[t]; ok {
			summaryScore += summaryTermWeight
		}
	}
	score += min(summaryScore, summaryCap)

	// Action item terms: small additive credit, capped.
	var actionScore float64
	for _, it := range rec.ActionItems {
		for _, t := range model.SignificantTerms(it.Text) {
			if _, ok := tokenSet[t]; ok {
				actionScore += actionTermWeight
			}
		}
	}
	score += min(actionScore, actionCap)

	return score
}

// stemOverlap reports whether any word pair shares a prefix of at least
// four characters.
func stemOverlap(words, tokens []string) bool {
	for _, w := range words {
		if len(w) < minStemLen {
			continue
		}
		stem := w[:minStemLen]
		for _, t := range tokens {
			if len(t) >= minStemLen && strings.HasPrefix(t, stem) {
				return true
			}
		}
	}
	return false
}
