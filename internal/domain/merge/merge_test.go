package merge_test

import (
	"testing"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/merge"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func card(name, company, role string) *model.Record {
	rec := model.NewRecord("s1")
	rec.Name = name
	rec.Company = company
	rec.Role = role
	return rec
}

func TestMerge(t *testing.T) {
	Convey("Given a target and a source record", t, func() {
		Convey("When the source carries the fuller name", func() {
			target := card("Kwame", "Stripe", "")
			source := card("Kwame Mensah", "", "payments lead")
			out := merge.Merge(target, source)

			Convey("Then the longer name wins and gaps fill from the source", func() {
				So(out.Name, ShouldEqual, "Kwame Mensah")
				So(out.Company, ShouldEqual, "Stripe")
				So(out.Role, ShouldEqual, "payments lead")
			})

			Convey("Then the contact URL is regenerated from merged fields", func() {
				So(out.ContactURL, ShouldContainSubstring, "Kwame+Mensah+Stripe")
			})

			Convey("Then neither input record is mutated", func() {
				So(target.Name, ShouldEqual, "Kwame")
				So(source.Company, ShouldEqual, "")
			})
		})

		Convey("When names have equal length", func() {
			out := merge.Merge(card("Anna Lee", "", ""), card("Bram Vos", "", ""))

			Convey("Then ties favor the target", func() {
				So(out.Name, ShouldEqual, "Anna Lee")
			})
		})

		Convey("When both carry a company", func() {
			out := merge.Merge(card("Priya Sharma", "Hatch Ventures", ""), card("Priya Sharma", "Hatch", ""))

			Convey("Then the target's value is kept", func() {
				So(out.Company, ShouldEqual, "Hatch Ventures")
			})
		})

		Convey("When the target category is other", func() {
			target := card("Elena", "", "")
			source := card("Elena", "", "")
			source.Category = model.CategoryExecutive
			out := merge.Merge(target, source)

			Convey("Then the source category fills in", func() {
				So(out.Category, ShouldEqual, model.CategoryExecutive)
			})
		})

		Convey("When the target category is already set", func() {
			target := card("Elena", "", "")
			target.Category = model.CategoryDesigner
			source := card("Elena", "", "")
			source.Category = model.CategoryExecutive

			Convey("Then it is kept", func() {
				So(merge.Merge(target, source).Category, ShouldEqual, model.CategoryDesigner)
			})
		})

		Convey("When both carry summaries", func() {
			target := card("Elena", "", "")
			target.Summary = "Runs engineering at Meridian"
			source := card("Elena", "", "")
			source.Summary = "Scaling the inference platform"
			out := merge.Merge(target, source)

			Convey("Then they concatenate target first", func() {
				So(out.Summary, ShouldEqual, "Runs engineering at Meridian. Scaling the inference platform")
			})
		})

		Convey("When action items overlap", func() {
			target := card("Elena", "", "")
			target.ActionItems = []model.ActionItem{model.NewActionItem("Send the deck")}
			source := card("Elena", "", "")
			source.ActionItems = []model.ActionItem{
				model.NewActionItem("send the deck"),
				model.NewActionItem("Intro to platform team"),
			}
			out := merge.Merge(target, source)

			Convey("Then the result is the deduplicated union", func() {
				So(out.ActionItems, ShouldHaveLength, 2)
				So(out.HasActionItem("Send the deck"), ShouldBeTrue)
				So(out.HasActionItem("Intro to platform team"), ShouldBeTrue)
			})
		})
	})
}
