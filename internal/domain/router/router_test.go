package router_test

import (
	"testing"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/router"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoute(t *testing.T) {
	Convey("Given confidence scores", t, func() {
		Convey("When below the suggestion floor", func() {
			Convey("Then they discard", func() {
				So(router.Route(0), ShouldEqual, router.Discard)
				So(router.Route(59.9), ShouldEqual, router.Discard)
			})
		})

		Convey("When in the suggestion band", func() {
			Convey("Then they suggest, boundaries inclusive at 60 and 90", func() {
				So(router.Route(60), ShouldEqual, router.Suggest)
				So(router.Route(75), ShouldEqual, router.Suggest)
				So(router.Route(90), ShouldEqual, router.Suggest)
			})
		})

		Convey("When strictly above 90", func() {
			Convey("Then they auto-apply", func() {
				So(router.Route(90.1), ShouldEqual, router.AutoApply)
				So(router.Route(100), ShouldEqual, router.AutoApply)
			})
		})
	})
}

func TestActionString(t *testing.T) {
	Convey("Given the action values", t, func() {
		Convey("Then they render stable names", func() {
			So(router.Discard.String(), ShouldEqual, "discard")
			So(router.Suggest.String(), ShouldEqual, "suggest")
			So(router.AutoApply.String(), ShouldEqual, "auto_apply")
		})
	})
}
