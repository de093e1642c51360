package aggregate_test

import (
	"context"
	"os"
	"testing"

	"github.com/Naveen701372/Networking-Wingman/internal/adapters/repository"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/aggregate"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	logging "github.com/Naveen701372/Networking-Wingman/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestApplyNoActive(t *testing.T) {
	Convey("Given an aggregator with no active card", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		agg := aggregate.New(store, "s1", nil)

		So(agg.State(ctx), ShouldEqual, aggregate.NoActive)

		Convey("When a named candidate arrives", func() {
			out := agg.Apply(ctx, model.Candidate{Name: "Elena", Category: "executive"})

			Convey("Then a card is created and becomes active", func() {
				So(out, ShouldEqual, aggregate.Created)
				So(agg.State(ctx), ShouldEqual, aggregate.HasActive)

				active := store.GetActive(ctx)
				So(active.Name, ShouldEqual, "Elena")
				So(active.Category, ShouldEqual, model.CategoryExecutive)
				So(active.ContactURL, ShouldNotBeEmpty)
			})
		})

		Convey("When a nameless candidate arrives", func() {
			out := agg.Apply(ctx, model.Candidate{Company: "Stripe"})

			Convey("Then it is discarded", func() {
				So(out, ShouldEqual, aggregate.Discarded)
				So(store.GetActive(ctx), ShouldBeNil)
			})
		})

		Convey("When an empty candidate arrives", func() {
			So(agg.Apply(ctx, model.Candidate{}), ShouldEqual, aggregate.Discarded)
		})
	})
}

func TestApplyUpdates(t *testing.T) {
	Convey("Given an active card built from a first mention", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		agg := aggregate.New(store, "s1", nil)
		agg.Apply(ctx, model.Candidate{Name: "Elena"})

		Convey("When a fuller candidate arrives", func() {
			out := agg.Apply(ctx, model.Candidate{
				Name:     "Elena Vasquez",
				Company:  "Meridian Labs",
				Category: "executive",
				Summary:  "Runs engineering at Meridian",
			})

			Convey("Then the name upgrades to the fuller form and gaps fill", func() {
				So(out, ShouldEqual, aggregate.Updated)

				active := store.GetActive(ctx)
				So(active.Name, ShouldEqual, "Elena Vasquez")
				So(active.Company, ShouldEqual, "Meridian Labs")
				So(active.Category, ShouldEqual, model.CategoryExecutive)
			})

			Convey("And when a later candidate contradicts settled fields", func() {
				agg.Apply(ctx, model.Candidate{
					Name:    "Eleanor",
					Company: "Other Corp",
					Summary: "Scaling the inference platform",
				})
				active := store.GetActive(ctx)

				Convey("Then name and company hold but the summary replaces", func() {
					So(active.Name, ShouldEqual, "Elena Vasquez")
					So(active.Company, ShouldEqual, "Meridian Labs")
					So(active.Summary, ShouldEqual, "Scaling the inference platform")
				})
			})
		})

		Convey("When action items arrive with near-duplicate phrasing", func() {
			agg.Apply(ctx, model.Candidate{ActionItems: []string{"Send the benchmark deck"}})
			agg.Apply(ctx, model.Candidate{ActionItems: []string{"send benchmark deck over"}})
			agg.Apply(ctx, model.Candidate{ActionItems: []string{"Intro to the platform team"}})

			Convey("Then overlapping items collapse into one", func() {
				active := store.GetActive(ctx)
				So(active.ActionItems, ShouldHaveLength, 2)
			})
		})
	})
}

func TestPersonSwitch(t *testing.T) {
	Convey("Given an active card for one person", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		agg := aggregate.New(store, "s1", nil)
		agg.Apply(ctx, model.Candidate{Name: "Elena Vasquez", Company: "Meridian Labs"})

		Convey("When a new-person candidate arrives", func() {
			out := agg.Apply(ctx, model.Candidate{Name: "Marcus Webb", IsNewPerson: true})

			Convey("Then the old card retires and a new one activates", func() {
				So(out, ShouldEqual, aggregate.Switched)

				So(store.GetActive(ctx).Name, ShouldEqual, "Marcus Webb")
				snap := store.Snapshot(ctx)
				So(snap.History, ShouldHaveLength, 1)
				So(snap.History[0].Name, ShouldEqual, "Elena Vasquez")
			})

			Convey("And when the first person re-engages", func() {
				out := agg.Apply(ctx, model.Candidate{Name: "Elena Vasquez", Role: "CTO", IsNewPerson: true})

				Convey("Then the prior card comes back as the active one", func() {
					So(out, ShouldEqual, aggregate.Reengaged)

					active := store.GetActive(ctx)
					So(active.Name, ShouldEqual, "Elena Vasquez")
					So(active.Role, ShouldEqual, "CTO")
					So(active.Company, ShouldEqual, "Meridian Labs")

					snap := store.Snapshot(ctx)
					So(snap.History, ShouldHaveLength, 1)
					So(snap.History[0].Name, ShouldEqual, "Marcus Webb")
				})

				Convey("And later candidates land on the re-engaged card", func() {
					agg.Apply(ctx, model.Candidate{Summary: "wants the benchmark numbers"})

					So(store.GetActive(ctx).Summary, ShouldEqual, "wants the benchmark numbers")
					So(store.Snapshot(ctx).History[0].Summary, ShouldBeEmpty)
				})
			})
		})

		Convey("When a nameless new-person candidate arrives", func() {
			out := agg.Apply(ctx, model.Candidate{IsNewPerson: true, Summary: "someone new"})

			Convey("Then the old card retires and no card is active yet", func() {
				So(out, ShouldEqual, aggregate.Switched)
				So(store.GetActive(ctx), ShouldBeNil)
				So(store.Snapshot(ctx).History, ShouldHaveLength, 1)
			})
		})
	})
}

func TestSelfFilter(t *testing.T) {
	Convey("Given an aggregator configured with the operator's name", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		agg := aggregate.New(store, "s1", []string{"Naveen Kumar"})

		Convey("When a candidate names the operator", func() {
			out := agg.Apply(ctx, model.Candidate{Name: "naveen  kumar", Company: "Acme"})

			Convey("Then no card is created for the operator", func() {
				So(out, ShouldEqual, aggregate.Discarded)
				So(store.GetActive(ctx), ShouldBeNil)
			})
		})

		Convey("When the operator name surfaces while a card is active", func() {
			agg.Apply(ctx, model.Candidate{Name: "Priya Sharma"})
			agg.Apply(ctx, model.Candidate{Name: "Naveen Kumar", Role: "host", IsNewPerson: true})

			Convey("Then the active card survives and absorbs non-identity fields", func() {
				active := store.GetActive(ctx)
				So(active.Name, ShouldEqual, "Priya Sharma")
				So(active.Role, ShouldEqual, "host")
			})
		})
	})
}
