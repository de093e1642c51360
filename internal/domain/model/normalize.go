package model

import (
	"net/url"
	"strings"
)

// stopWords are filtered out before fuzzy term comparisons so that filler
// words never count as overlap.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "to": {}, "of": {},
	"for": {}, "with": {}, "on": {}, "in": {}, "at": {}, "about": {},
	"from": {}, "by": {}, "is": {}, "are": {}, "was": {}, "be": {},
	"this": {}, "that": {}, "it": {}, "as": {}, "we": {}, "you": {},
	"i": {}, "my": {}, "your": {}, "their": {}, "our": {}, "will": {},
	"should": {}, "need": {}, "have": {}, "has": {}, "do": {}, "does": {},
	"get": {}, "let": {}, "me": {}, "him": {}, "her": {}, "them": {},
	"up": {}, "out": {}, "so": {}, "if": {}, "can": {}, "could": {},
	"would": {}, "just": {}, "also": {},
}

// NormalizeName lowercases and collapses internal whitespace so that name
// comparisons are insensitive to casing and spacing.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// IsNamePrefix reports whether the shorter of a and b is a whole-token
// prefix of the other, e.g. "kwame" vs "kwame asante". Equal names are not
// considered a prefix pair.
func IsNamePrefix(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" || na == nb {
		return false
	}
	short, long := na, nb
	if len(short) > len(long) {
		short, long = long, short
	}
	return strings.HasPrefix(long, short+" ")
}

// LastName returns the final token of a normalized name, or "" for
// single-token names.
func LastName(name string) string {
	parts := strings.Fields(NormalizeName(name))
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// Tokenize splits free text into lowercase tokens, stripping punctuation at
// token edges.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SignificantTerms tokenizes text and drops stop words.
func SignificantTerms(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, skip := stopWords[t]; !skip {
			out = append(out, t)
		}
	}
	return out
}

// TermOverlap returns the fraction of b's significant terms that also appear
// in a. Returns 0 when b has no significant terms.
func TermOverlap(a, b string) float64 {
	have := make(map[string]struct{})
	for _, t := range SignificantTerms(a) {
		have[t] = struct{}{}
	}
	terms := SignificantTerms(b)
	if len(terms) == 0 {
		return 0
	}
	matched := 0
	for _, t := range terms {
		if _, ok := have[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// DeriveContactURL builds a deterministic people-search URL from identity
// fields. It is a function of name+company, never an independently stored
// fact, so merges regenerate it rather than carry it over.
func DeriveContactURL(name, company string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	q := name
	if company = strings.TrimSpace(company); company != "" {
		q += " " + company
	}
	return "https://www.linkedin.com/search/results/people/?keywords=" + url.QueryEscape(q)
}
