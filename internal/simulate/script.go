package simulate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// persona is one scripted conversation partner.
type persona struct {
	name     string
	company  string
	role     string
	category string
	lines    []string
}

// builtinPersonas are cycled to fill the requested conversation length.
// Lines deliberately reveal attributes gradually, first name only, then the
// rest, the way real introductions go.
var builtinPersonas = []persona{
	{
		name: "Elena Vasquez", company: "Meridian Labs", role: "CTO", category: "executive",
		lines: []string{
			"hi I'm Elena, great to meet you",
			"so I'm Elena Vasquez, I run engineering over at Meridian Labs as CTO",
			"we're scaling our inference platform right now, it's been a wild year",
			"you should definitely send me that benchmark deck, and let's grab coffee next week",
		},
	},
	{
		name: "Kwame Mensah", company: "Stripe", role: "payments lead", category: "developer",
		lines: []string{
			"hey, Kwame Mensah, I'm at Stripe",
			"I lead the payments reliability group, mostly ledger consistency work",
			"we keep hiring Go people if you know anyone",
			"ping me on LinkedIn and I'll intro you to our platform team",
		},
	},
	{
		name: "Priya Sharma", company: "Hatch Ventures", role: "partner", category: "investor",
		lines: []string{
			"hello, Priya Sharma, partner at Hatch Ventures",
			"we write early checks in infra and dev tools",
			"your caching thing sounds fundable honestly",
			"send the deck over, I'll share it with the team on Monday",
		},
	},
	{
		name: "Marcus Webb", company: "Figma", role: "product designer", category: "designer",
		lines: []string{
			"I'm Marcus, nice to meet you",
			"Marcus Webb, I do product design at Figma, mostly the editor surfaces",
			"we just shipped a big rework of the comments flow",
			"I'd love feedback from your team, email me the notes",
		},
	},
}

// segmentPayload is the wire shape for POST /v1/sessions/{id}/segments.
type segmentPayload struct {
	SegmentID string `json:"segment_id"`
	Text      string `json:"text"`
	IsFinal   bool   `json:"is_final"`
	TS        string `json:"ts"`
}

// buildScript expands n personas into an ordered segment list. Each persona
// opens with a greeting that marks the person switch for the extractor.
func buildScript(people int) []segmentPayload {
	if people < 1 {
		people = 1
	}

	var out []segmentPayload
	for i := 0; i < people; i++ {
		p := builtinPersonas[i%len(builtinPersonas)]
		for j, line := range p.lines {
			text := line
			if j == 0 && i > 0 {
				text = "oh hi, " + line
			}
			out = append(out, segmentPayload{
				SegmentID: uuid.NewString(),
				Text:      text,
				IsFinal:   true,
				TS:        time.Now().UTC().Format(time.RFC3339),
			})
		}
	}
	return out
}

// describe renders a one-line label for progress output.
func describe(p segmentPayload) string {
	return fmt.Sprintf("%.8s %q", p.SegmentID, p.Text)
}
