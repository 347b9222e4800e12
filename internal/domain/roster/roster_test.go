package roster_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func day(name, color string, v, ub, bb, fx float64) model.DayResult {
	return model.DayResult{Name: name, Color: color, Scores: [model.NumEvents]float64{v, ub, bb, fx}}
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()

	Convey("Given two days of results for the same athletes", t, func() {
		day1 := []model.DayResult{
			day("Chiles", "gold", 13.9, 13.8, 13.2, 13.5),
			day("Biles", "red", 15.4, 14.4, 14.8, 14.6),
			day("Lee", "green", 14.0, 14.9, 14.0, 13.6),
		}
		day2 := []model.DayResult{
			day("Lee", "", 14.1, 14.7, 13.6, 13.5),
			day("Biles", "", 15.2, 14.6, 14.6, 14.9),
			day("Chiles", "", 14.0, 13.9, 13.5, 13.7),
		}

		r, err := roster.NewBuilder().Build(ctx, day1, day2)

		Convey("Then the roster is ordered by all-around average", func() {
			So(err, ShouldBeNil)
			So(r.Len(), ShouldEqual, 3)
			So(r.At(0).Name, ShouldEqual, "Biles")
			So(r.At(1).Name, ShouldEqual, "Lee")
			So(r.At(2).Name, ShouldEqual, "Chiles")
		})

		Convey("And averages are the mean of both days", func() {
			b := r.At(0)
			So(b.Avg[model.Vault], ShouldAlmostEqual, 15.3, 1e-9)
			So(b.Avg[model.Floor], ShouldAlmostEqual, 14.75, 1e-9)
			So(b.AllAround(model.Average), ShouldAlmostEqual, (b.AllAround(model.Day1)+b.AllAround(model.Day2))/2, 1e-9)
		})

		Convey("And ids are dense roster positions with day1 colors", func() {
			for i := 0; i < r.Len(); i++ {
				So(r.At(i).ID, ShouldEqual, i)
			}
			id, ok := r.Lookup().ID("Biles")
			So(ok, ShouldBeTrue)
			So(r.Lookup().Color(id), ShouldEqual, "red")
		})

		Convey("And the inputs are left untouched", func() {
			So(day1[0].Name, ShouldEqual, "Chiles")
			So(day2[0].Name, ShouldEqual, "Lee")
		})
	})

	Convey("Given athletes tied on all-around average", t, func() {
		day1 := []model.DayResult{
			day("First", "a", 14, 14, 14, 14),
			day("Second", "b", 14, 14, 14, 14),
		}
		day2 := []model.DayResult{
			day("Second", "", 14, 14, 14, 14),
			day("First", "", 14, 14, 14, 14),
		}
		r, err := roster.NewBuilder().Build(ctx, day1, day2)

		Convey("Then day1 order is kept", func() {
			So(err, ShouldBeNil)
			So(r.At(0).Name, ShouldEqual, "First")
			So(r.At(1).Name, ShouldEqual, "Second")
		})
	})

	Convey("Given an athlete missing from one day", t, func() {
		day1 := []model.DayResult{
			day("Biles", "red", 15, 14, 14, 14),
			day("Scratched", "grey", 13, 13, 13, 13),
		}
		day2 := []model.DayResult{
			day("Biles", "", 15, 14, 14, 14),
			day("LateEntry", "", 13, 13, 13, 13),
		}

		Convey("When joining leniently the athlete is excluded", func() {
			r, err := roster.NewBuilder().Build(ctx, day1, day2)
			So(err, ShouldBeNil)
			So(r.Len(), ShouldEqual, 1)
			_, ok := r.Lookup().ID("Scratched")
			So(ok, ShouldBeFalse)
		})

		Convey("When joining strictly a MissingAthleteError is returned", func() {
			_, err := roster.NewBuilder(roster.WithStrictJoin(true)).Build(ctx, day1, day2)
			So(errors.Is(err, model.ErrMissingAthlete), ShouldBeTrue)
			var missing *model.MissingAthleteError
			So(errors.As(err, &missing), ShouldBeTrue)
			So(missing.Name, ShouldEqual, "Scratched")
			So(missing.Day, ShouldEqual, "day2")
		})

		Convey("When only day2 has the extra athlete the strict error names day1", func() {
			_, err := roster.NewBuilder(roster.WithStrictJoin(true)).Build(ctx, day1[:1], day2)
			var missing *model.MissingAthleteError
			So(errors.As(err, &missing), ShouldBeTrue)
			So(missing.Name, ShouldEqual, "LateEntry")
			So(missing.Day, ShouldEqual, "day1")
		})
	})

	Convey("Given malformed scores", t, func() {
		good := []model.DayResult{day("Biles", "red", 15, 14, 14, 14)}

		Convey("A NaN score is rejected", func() {
			bad := []model.DayResult{day("Biles", "red", math.NaN(), 14, 14, 14)}
			_, err := roster.NewBuilder().Build(ctx, bad, good)
			So(errors.Is(err, model.ErrMalformedScore), ShouldBeTrue)
		})

		Convey("An out-of-range score is rejected", func() {
			bad := []model.DayResult{day("Biles", "red", 15, 14, 14, 24)}
			_, err := roster.NewBuilder().Build(ctx, good, bad)
			var malformed *model.MalformedScoreError
			So(errors.As(err, &malformed), ShouldBeTrue)
			So(malformed.Event, ShouldEqual, model.Floor)
			So(malformed.Day, ShouldEqual, "day2")
		})

		Convey("A custom band tightens validation", func() {
			_, err := roster.NewBuilder(roster.WithScoreRange(10, 14.5)).Build(ctx, good, good)
			So(errors.Is(err, model.ErrMalformedScore), ShouldBeTrue)
		})
	})

	Convey("Given an athlete listed twice on one day", t, func() {
		rows := []model.DayResult{day("Biles", "red", 15, 14, 14, 14), day("Biles", "red", 15, 14, 14, 14)}
		_, err := roster.NewBuilder().Build(ctx, rows, rows[:1])

		Convey("Then the build fails", func() {
			So(errors.Is(err, model.ErrDuplicateAthlete), ShouldBeTrue)
		})
	})
}
