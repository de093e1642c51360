// Package attribution classifies transcript fragments as self or other
// speech. It is a pure pattern counter used to tag segments for display and
// search; it never gates a mutation.
package attribution

import "strings"

// Label is the attribution verdict for a fragment.
type Label string

// Possible verdicts. A tie (including zero matches on both sides) yields
// Unknown.
const (
	Self    Label = "self"
	Other   Label = "other"
	Unknown Label = "unknown"
)

// selfPatterns match first-person statements about the operator.
var selfPatterns = []string{
	"i work at",
	"i work for",
	"i founded",
	"i'm the founder",
	"i am the founder",
	"i started",
	"i built",
	"i run",
	"my company",
	"my startup",
	"my team",
	"my role",
	"i'm a ",
	"i am a ",
	"i lead",
	"i manage",
}

// otherPatterns match statements directed at or describing the counterpart.
var otherPatterns = []string{
	"you should check out",
	"you should",
	"let me send",
	"let me intro",
	"nice to meet you",
	"great to meet you",
	"good to meet you",
	"you work at",
	"you're at",
	"you are at",
	"your company",
	"your startup",
	"your team",
	"what do you do",
	"where do you work",
	"tell me about your",
}

// Classify scores text against both pattern sets and returns the label of
// the strictly higher-scoring set. Deterministic and stateless.
func Classify(text string) Label {
	t := strings.ToLower(text)
	self := countMatches(t, selfPatterns)
	other := countMatches(t, otherPatterns)
	switch {
	case self > other:
		return Self
	case other > self:
		return Other
	default:
		return Unknown
	}
}

func countMatches(text string, patterns []string) int {
	n := 0
	for _, p := range patterns {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}
