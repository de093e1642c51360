// Package merge combines two person records field by field. The rules are
// deterministic; tombstoning of the source id happens atomically in the
// record store, not here.
package merge

import (
	"strings"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// Merge folds source into target and returns a new record. Neither input is
// mutated. Field rules:
//   - name: the longer value, ties favor target (keeps fuller forms)
//   - company/role/transcript snippet: target wins when present
//   - category: target unless target is "other"
//   - summary: both present -> "{target}. {source}"
//   - action items: target's, then source's whose normalized text is new
//   - contact URL: regenerated from the merged name+company
func Merge(target, source *model.Record) *model.Record {
	out := target.Clone()

	if len(strings.TrimSpace(source.Name)) > len(strings.TrimSpace(out.Name)) {
		out.Name = source.Name
	}
	out.Company = firstNonEmpty(out.Company, source.Company)
	out.Role = firstNonEmpty(out.Role, source.Role)
	out.TranscriptSnippet = firstNonEmpty(out.TranscriptSnippet, source.TranscriptSnippet)

	if out.Category == model.CategoryOther {
		out.Category = source.Category
	}

	switch {
	case out.Summary != "" && source.Summary != "":
		out.Summary = out.Summary + ". " + source.Summary
	case out.Summary == "":
		out.Summary = source.Summary
	}

	for _, it := range source.ActionItems {
		if !out.HasActionItem(it.Text) {
			out.ActionItems = append(out.ActionItems, it)
		}
	}

	out.ContactURL = model.DeriveContactURL(out.Name, out.Company)
	return out
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
