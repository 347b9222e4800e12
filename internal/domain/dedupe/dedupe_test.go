package dedupe_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/okian/gymteams/internal/domain/dedupe"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/internal/testroster"
	. "github.com/smartystreets/goconvey/convey"
)

func athlete(name string, v, ub, bb, fx float64) model.Athlete {
	s := [model.NumEvents]float64{v, ub, bb, fx}
	return model.Athlete{Name: name, Day1: s, Day2: s, Avg: s}
}

func score(t *testing.T, r *model.Roster) *scoring.Table {
	t.Helper()
	table, err := scoring.NewScorer().Score(context.Background(), r, model.Average)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

// swapRoster has exactly one pair of equivalent teams: {A,B,C,D,E} and
// {A,B,C,D,F} count the same twelve scores.
func swapRoster() *model.Roster {
	return model.NewRoster([]model.Athlete{
		athlete("A", 15.0, 15.0, 15.0, 15.0),
		athlete("B", 14.5, 14.5, 14.5, 14.5),
		athlete("C", 14.0, 14.0, 14.0, 12.0),
		athlete("D", 12.0, 12.0, 12.0, 14.2),
		athlete("E", 11.0, 11.0, 11.0, 11.0),
		athlete("F", 10.5, 10.5, 10.5, 10.5),
	})
}

func sortedEntries(t *scoring.Team) []scoring.Entry {
	out := t.Entries()
	slices.SortFunc(out, func(a, b scoring.Entry) int {
		if a.Athlete != b.Athlete {
			return a.Athlete - b.Athlete
		}
		return int(a.Event) - int(b.Event)
	})
	return out
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given teams that differ only in an uncounted member", t, func() {
		table := score(t, swapRoster())
		before := slices.Clone(table.Teams)
		res, err := dedupe.NewResolver().ResolveTable(ctx, table)

		Convey("Then the pair collapses onto the lower id", func() {
			So(err, ShouldBeNil)
			So(res.Duplicates, ShouldResemble, map[int][]int{0: {1}})
			So(res.Collapsed, ShouldEqual, 1)
			So(len(res.Teams), ShouldEqual, table.Len()-1)
			So(res.Teams[0].ID, ShouldEqual, 0)
			So(res.Teams[1].ID, ShouldEqual, 2)
			So(res.Lineups(0), ShouldResemble, []int{0, 1})
		})

		Convey("And the input table is untouched", func() {
			So(table.Teams, ShouldResemble, before)
		})
	})

	Convey("Given scores without any tied totals", t, func() {
		r := model.NewRoster([]model.Athlete{
			athlete("A", 15.1, 14.3, 13.7, 12.9),
			athlete("B", 14.2, 15.4, 12.6, 13.8),
			athlete("C", 13.3, 12.5, 15.9, 14.1),
			athlete("D", 12.4, 13.6, 14.8, 15.7),
			athlete("E", 11.5, 11.7, 11.3, 11.2),
		})
		table := score(t, r)
		res, err := dedupe.NewResolver().Resolve(ctx, table.Teams)

		Convey("Then the output equals the input and no duplicates are recorded", func() {
			So(err, ShouldBeNil)
			So(res.Teams, ShouldResemble, table.Teams)
			So(res.Duplicates, ShouldBeEmpty)
			So(res.TieGroups, ShouldEqual, 0)
		})

		Convey("And the output does not alias the input", func() {
			res.Teams[0].Score = -1
			So(table.Teams[0].Score, ShouldNotEqual, -1)
		})
	})

	Convey("Given a coarse-grained roster with many ties", t, func() {
		r := testroster.Roster(11, 5, 0.5)
		table := score(t, r)
		resolver := dedupe.NewResolver()
		res, err := resolver.Resolve(ctx, table.Teams)
		So(err, ShouldBeNil)

		Convey("Then duplicates share their representative's total and entries", func() {
			So(res.Collapsed, ShouldBeGreaterThan, 0)
			for rep, dups := range res.Duplicates {
				So(slices.IsSorted(dups), ShouldBeTrue)
				repTeam := &table.Teams[rep]
				for _, d := range dups {
					So(d, ShouldBeGreaterThan, rep)
					dup := &table.Teams[d]
					So(dup.Score, ShouldEqual, repTeam.Score)
					So(sortedEntries(dup), ShouldResemble, sortedEntries(repTeam))
				}
			}
		})

		Convey("And every input team survives or is accounted for once", func() {
			seen := map[int]int{}
			for _, tm := range res.Teams {
				seen[tm.ID]++
			}
			for _, dups := range res.Duplicates {
				for _, d := range dups {
					seen[d]++
				}
			}
			So(len(seen), ShouldEqual, table.Len())
			for _, n := range seen {
				So(n, ShouldEqual, 1)
			}
		})

		Convey("And resolving again changes nothing", func() {
			again, err := resolver.Resolve(ctx, res.Teams)
			So(err, ShouldBeNil)
			So(again.Teams, ShouldResemble, res.Teams)
			So(again.Duplicates, ShouldBeEmpty)
		})
	})

	Convey("Given a canceled context and many ties", t, func() {
		table := score(t, testroster.Roster(14, 9, 1.0))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		res, err := dedupe.NewResolver().ResolveTable(cctx, table)

		Convey("Then no resolution is returned", func() {
			So(res, ShouldBeNil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
