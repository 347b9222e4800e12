package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gymteams/internal/adapters/repository"
	"github.com/okian/gymteams/internal/adapters/sheet"
	service "github.com/okian/gymteams/internal/app"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/types"
	"github.com/okian/gymteams/internal/testroster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports no results yet", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
			So(svc.GetStats()["ready"], ShouldEqual, false)
		})

		Convey("And reads fail until a run completes", func() {
			ctx := context.Background()
			_, _, err := svc.TopTeams(ctx, model.Average, 5)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
			_, err = svc.Athletes(ctx, model.Average, model.AllAround, 5)
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
			_, err = svc.Movements(ctx, 5)
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
		})
	})
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	Convey("Given two days of results for nine athletes", t, func() {
		day1, day2 := testroster.Generate(9, 17, 0.1)
		svc := service.New(service.WithWorkerCount(2))
		err := svc.Run(ctx, day1, day2)
		So(err, ShouldBeNil)

		Convey("Then every basis is published", func() {
			stats := svc.GetStats()
			So(stats["ready"], ShouldEqual, true)
			So(stats["rosterSize"], ShouldEqual, 9)
			So(stats["runID"], ShouldNotBeEmpty)
			bases, ok := stats["bases"].([]types.BasisStats)
			So(ok, ShouldBeTrue)
			So(bases, ShouldHaveLength, 3)
			for _, b := range bases {
				So(b.Teams, ShouldEqual, 126)
				So(b.Representatives+b.Collapsed, ShouldEqual, b.Teams)
			}
		})

		Convey("And top teams are ranked by score", func() {
			teams, _, err := svc.TopTeams(ctx, model.Average, 5)
			So(err, ShouldBeNil)
			So(teams, ShouldHaveLength, 5)
			So(teams[0].Rank, ShouldEqual, 1)
			So(teams[0].Gap, ShouldEqual, 0)
			for i := 1; i < len(teams); i++ {
				So(teams[i].Score, ShouldBeLessThanOrEqualTo, teams[i-1].Score)
				So(teams[i].Members, ShouldHaveLength, 5)
			}
		})

		Convey("And a team detail lists its twelve counting entries", func() {
			teams, _, err := svc.TopTeams(ctx, model.Day1, 1)
			So(err, ShouldBeNil)
			detail, err := svc.Team(ctx, model.Day1, teams[0].TeamID)
			So(err, ShouldBeNil)
			So(detail.Counting, ShouldHaveLength, 12)
			So(detail.Representative, ShouldBeNil)
			var sum float64
			for _, c := range detail.Counting {
				sum += c.Score
			}
			So(sum, ShouldAlmostEqual, detail.Score, 0.005)
			So(detail.EventTotals, ShouldHaveLength, 4)
			So(detail.EventTotals["Vault"], ShouldBeGreaterThan, 0)
		})

		Convey("And unknown teams are not found", func() {
			_, err := svc.Team(ctx, model.Average, 500)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("And athlete leaderboards are available", func() {
			rows, err := svc.Athletes(ctx, model.Average, model.AllAround, 3)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Gap, ShouldEqual, 0)
			moves, err := svc.Movements(ctx, 4)
			So(err, ShouldBeNil)
			So(moves, ShouldHaveLength, 4)
			So(moves[0].Name, ShouldEqual, rows[0].Name)
		})

		Convey("And a failing run keeps the previous results", func() {
			runID := svc.GetStats()["runID"]
			err := svc.Run(ctx, day1[:4], day2[:4])
			So(errors.Is(err, model.ErrInsufficientRoster), ShouldBeTrue)
			So(svc.GetStats()["runID"], ShouldEqual, runID)
		})

		Convey("And an invalid limit is rejected", func() {
			_, _, err := svc.TopTeams(ctx, model.Average, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})

	Convey("Given a strict service and an athlete missing day two", t, func() {
		day1, day2 := testroster.Generate(7, 2, 0)
		svc := service.New(service.WithStrictJoin(true), service.WithBases(model.Average))
		err := svc.Run(ctx, day1, day2[1:])

		Convey("Then the run fails with MissingAthleteError", func() {
			So(errors.Is(err, model.ErrMissingAthlete), ShouldBeTrue)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a canceled context", t, func() {
		day1, day2 := testroster.Generate(10, 3, 0)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		svc := service.New()

		Convey("Then nothing is published", func() {
			So(errors.Is(svc.Run(cctx, day1, day2), context.Canceled), ShouldBeTrue)
			So(svc.Ready(), ShouldBeFalse)
		})
	})
}

func TestService_ExportAndReload(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service exporting CSV tables", t, func() {
		dir := t.TempDir()
		day1, day2 := testroster.Generate(8, 5, 0.1)
		svc := service.New(service.WithOutput(dir, service.FormatCSV))
		So(svc.Run(ctx, day1, day2), ShouldBeNil)

		Convey("Then team and counting tables exist for every basis", func() {
			for _, b := range model.Bases {
				_, err := os.Stat(filepath.Join(dir, sheet.TeamsFileName(b)))
				So(err, ShouldBeNil)
				_, err = os.Stat(filepath.Join(dir, sheet.CountingFileName(b)))
				So(err, ShouldBeNil)
			}
		})

		Convey("And reloading them reproduces the results", func() {
			want, wantNotes, err := svc.TopTeams(ctx, model.Average, 10)
			So(err, ShouldBeNil)

			reloaded := service.New()
			So(reloaded.Reload(ctx, day1, day2, dir), ShouldBeNil)
			got, gotNotes, err := reloaded.TopTeams(ctx, model.Average, 10)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, want)
			So(gotNotes, ShouldResemble, wantNotes)
		})
	})

	Convey("Given a service exporting a workbook", t, func() {
		dir := t.TempDir()
		day1, day2 := testroster.Generate(7, 8, 0)
		svc := service.New(service.WithOutput(dir, service.FormatXLSX), service.WithBases(model.Day1, model.Day2))
		So(svc.Run(ctx, day1, day2), ShouldBeNil)

		Convey("Then the counting workbook is written", func() {
			_, err := os.Stat(filepath.Join(dir, sheet.WorkbookName))
			So(err, ShouldBeNil)
		})
	})

	Convey("Given an unknown output format", t, func() {
		err := service.Export(ctx, t.TempDir(), "ods")

		Convey("Then ErrUnknownFormat is returned", func() {
			So(errors.Is(err, service.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}
