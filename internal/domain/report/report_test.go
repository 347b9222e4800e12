package report_test

import (
	"context"
	"slices"
	"testing"

	"github.com/okian/gymteams/internal/domain/dedupe"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/report"
	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/internal/testroster"
	. "github.com/smartystreets/goconvey/convey"
)

func athlete(name string, v, ub, bb, fx float64) model.Athlete {
	s := [model.NumEvents]float64{v, ub, bb, fx}
	return model.Athlete{Name: name, Day1: s, Day2: s, Avg: s}
}

func resolved(t *testing.T, r *model.Roster) (*scoring.Table, *dedupe.Resolution) {
	t.Helper()
	ctx := context.Background()
	table, err := scoring.NewScorer().Score(ctx, r, model.Average)
	if err != nil {
		t.Fatal(err)
	}
	res, err := dedupe.NewResolver().Resolve(ctx, table.Teams)
	if err != nil {
		t.Fatal(err)
	}
	return table, res
}

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

func TestTopTeams(t *testing.T) {
	Convey("Given teams with tied scores", t, func() {
		teams := []scoring.Team{
			{ID: 0, Score: 170.5},
			{ID: 1, Score: 172.25},
			{ID: 2, Score: 172.25},
			{ID: 3, Score: 168.0},
		}

		Convey("Then they are ordered by score then id", func() {
			So(report.TopIDs(teams, 3), ShouldResemble, []int{1, 2, 0})
			So(report.TopIDs(teams, 0), ShouldResemble, []int{1, 2, 0, 3})
			So(report.TopIDs(teams, 10), ShouldHaveLength, 4)
		})

		Convey("And the input order is preserved", func() {
			report.TopTeams(teams, 2)
			So(teams[0].ID, ShouldEqual, 0)
		})

		Convey("And gaps are measured from the leader", func() {
			So(report.Gap(172.25, 172.25), ShouldEqual, 0)
			So(report.Gap(170.5, 172.25), ShouldAlmostEqual, -1.75, 1e-9)
		})
	})
}

func TestSubstitutions(t *testing.T) {
	Convey("Given two lineups that differ in one uncounted member", t, func() {
		table, res := resolved(t, swapRoster())
		subs := report.Substitutions(report.TopIDs(res.Teams, 3), res.Duplicates, table)

		Convey("Then the four shared members are constant", func() {
			So(subs, ShouldHaveLength, 1)
			sub := subs[0]
			So(sub.TeamID, ShouldEqual, 0)
			So(sub.Constants, ShouldResemble, []string{"A", "B", "C", "D"})
			So(sub.Variables, ShouldResemble, []string{"E", "F"})
		})
	})

	Convey("Given a tie-heavy roster", t, func() {
		table, res := resolved(t, testroster.Roster(12, 11, 0.5))
		top := report.TopIDs(res.Teams, 0)
		subs := report.Substitutions(top, res.Duplicates, table)

		Convey("Then constants and variables cover exactly the lineups' members", func() {
			So(len(subs), ShouldEqual, len(res.Duplicates))
			for id, sub := range subs {
				want := map[string]bool{}
				for _, lid := range res.Lineups(id) {
					tm, ok := table.Team(lid)
					So(ok, ShouldBeTrue)
					for _, n := range table.MemberNames(tm) {
						want[n] = true
					}
				}
				got := map[string]bool{}
				for _, n := range append(slices.Clone(sub.Constants), sub.Variables...) {
					So(got[n], ShouldBeFalse)
					got[n] = true
				}
				So(got, ShouldResemble, want)
				So(len(sub.Constants), ShouldBeLessThanOrEqualTo, scoring.TeamSize-1)
				So(len(sub.Variables), ShouldBeGreaterThanOrEqualTo, 2)
			}
		})
	})
}

func TestTopTable(t *testing.T) {
	Convey("Given the resolved swap roster", t, func() {
		table, res := resolved(t, swapRoster())
		rows := report.TopTable(res.Teams, res.Duplicates, table, 3)

		Convey("Then the leading team is flagged on its variable member", func() {
			So(rows, ShouldHaveLength, 3)
			So(rows[0].TeamID, ShouldEqual, 0)
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[0].Flag, ShouldEqual, "*")
			So(rows[0].Members, ShouldResemble, [scoring.TeamSize]string{"A", "B", "C", "D", "E*"})
			So(rows[0].CouldBe, ShouldResemble, []string{"E", "F"})
			So(rows[1].Flag, ShouldBeEmpty)
			So(rows[1].Gap, ShouldBeLessThan, 0)
		})

		Convey("And annotations list the substitutes", func() {
			So(report.Annotations(rows), ShouldResemble, []string{"Could be any of:", "* E, F"})
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given athletes with a shared vault score", t, func() {
		r := model.NewRoster([]model.Athlete{
			{Name: "A", Day1: [4]float64{14, 14, 14, 14}, Day2: [4]float64{15, 14, 14, 14}, Avg: [4]float64{14.5, 14, 14, 14}},
			{Name: "B", Day1: [4]float64{15, 13, 13, 13}, Day2: [4]float64{14, 13, 13, 13}, Avg: [4]float64{14.5, 13, 13, 13}},
			{Name: "C", Day1: [4]float64{13, 12, 12, 12}, Day2: [4]float64{13, 12, 12, 12}, Avg: [4]float64{13, 12, 12, 12}},
		})

		Convey("Then tied athletes share a rank in roster order", func() {
			rows := report.Leaderboard(r, model.Average, model.Vault, 0)
			So(rows[0].Name, ShouldEqual, "A")
			So(rows[1].Name, ShouldEqual, "B")
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[1].Rank, ShouldEqual, 1)
			So(rows[2].Rank, ShouldEqual, 2)
			So(rows[2].Gap, ShouldAlmostEqual, -1.5, 1e-9)
		})

		Convey("And the all-around board can be truncated", func() {
			rows := report.Leaderboard(r, model.Day1, model.AllAround, 2)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Name, ShouldEqual, "A")
			So(rows[0].Score, ShouldAlmostEqual, 56, 1e-9)
			So(rows[1].Gap, ShouldAlmostEqual, -2, 1e-9)
		})

		Convey("And movements follow the average all-around order", func() {
			m := report.Movements(r, 2)
			So(m, ShouldHaveLength, 2)
			So(m[0].Name, ShouldEqual, "A")
			So(m[0].Delta, ShouldAlmostEqual, 1, 1e-9)
			So(m[1].Delta, ShouldAlmostEqual, -1, 1e-9)
		})
	})
}
