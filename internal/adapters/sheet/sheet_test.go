package sheet_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/okian/gymteams/internal/adapters/sheet"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/internal/testroster"
	. "github.com/smartystreets/goconvey/convey"
)

func scoredTable(t *testing.T, n int, basis model.Basis) *scoring.Table {
	t.Helper()
	table, err := scoring.NewScorer().Score(context.Background(), testroster.Roster(n, 21, 0), basis)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestReadDayCSV(t *testing.T) {
	Convey("Given a day sheet with a BOM, an AA column and a decomposed name", t, func() {
		in := "\ufeffName,Vault,Bars,Beam,Floor,AA,Color\n" +
			"Simone Biles,15.4,14.4,14.8,14.6,59.2,red\n" +
			"Jose\u0301  Ruiz, 13.9 ,13.8,13.2,13.5,54.4,blue\n" +
			",,,,,,\n"
		rows, err := sheet.ReadDayCSV(strings.NewReader(in), "day1")

		Convey("Then every athlete row is parsed", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Name, ShouldEqual, "Simone Biles")
			So(rows[0].Color, ShouldEqual, "red")
			So(rows[0].Scores[model.Beam], ShouldEqual, 14.8)
			So(rows[0].AllAround(), ShouldAlmostEqual, 59.2, 1e-9)
		})

		Convey("And names are normalized", func() {
			So(rows[1].Name, ShouldEqual, "Jos\u00e9 Ruiz")
			So(rows[1].Scores[model.Vault], ShouldEqual, 13.9)
		})
	})

	Convey("Given a non-numeric score", t, func() {
		in := "Name,Vault,Bars,Beam,Floor\nLee,14.0,DNS,14.0,13.6\n"
		_, err := sheet.ReadDayCSV(strings.NewReader(in), "day2")

		Convey("Then a MalformedScoreError names the cell", func() {
			So(errors.Is(err, model.ErrMalformedScore), ShouldBeTrue)
			var mse *model.MalformedScoreError
			So(errors.As(err, &mse), ShouldBeTrue)
			So(mse.Athlete, ShouldEqual, "Lee")
			So(mse.Event, ShouldEqual, model.Bars)
			So(mse.Day, ShouldEqual, "day2")
			So(mse.Raw, ShouldEqual, "DNS")
		})
	})

	Convey("Given a sheet without a floor column", t, func() {
		_, err := sheet.ReadDayCSV(strings.NewReader("Name,Vault,Bars,Beam\nLee,1,2,3\n"), "day1")

		Convey("Then ErrMissingColumn is returned", func() {
			So(errors.Is(err, sheet.ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given an empty sheet", t, func() {
		_, err := sheet.ReadDayCSV(strings.NewReader(""), "day1")

		Convey("Then ErrEmptySheet is returned", func() {
			So(errors.Is(err, sheet.ErrEmptySheet), ShouldBeTrue)
		})
	})
}

func TestDayRoundTrip(t *testing.T) {
	Convey("Given generated results", t, func() {
		day1, day2 := testroster.Generate(8, 4, 0)
		dir := t.TempDir()

		Convey("When written as CSV and read back", func() {
			var buf bytes.Buffer
			So(sheet.WriteDayCSV(&buf, day1), ShouldBeNil)
			got, err := sheet.ReadDayCSV(&buf, "day1")

			Convey("Then the results are unchanged", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, day1)
			})
		})

		Convey("When written as a workbook and read back", func() {
			path := filepath.Join(dir, "results.xlsx")
			So(sheet.WriteResultsWorkbook(path, "Prelims", "Finals", day1, day2), ShouldBeNil)
			got1, got2, err := sheet.ReadWorkbook(path, "Prelims", "Finals")

			Convey("Then both days are unchanged", func() {
				So(err, ShouldBeNil)
				So(got1, ShouldResemble, day1)
				So(got2, ShouldResemble, day2)
			})
		})
	})
}

func TestTableRoundTrip(t *testing.T) {
	Convey("Given a scored table", t, func() {
		table := scoredTable(t, 8, model.Day1)
		dir := t.TempDir()
		teamsPath := filepath.Join(dir, sheet.TeamsFileName(model.Day1))
		So(sheet.WriteFile(teamsPath, func(w io.Writer) error { return sheet.WriteTeamsCSV(w, table) }), ShouldBeNil)

		Convey("When counting entries are written as CSV", func() {
			countingPath := filepath.Join(dir, sheet.CountingFileName(model.Day1))
			So(sheet.WriteFile(countingPath, func(w io.Writer) error { return sheet.WriteCountingCSV(w, table) }), ShouldBeNil)
			got, err := sheet.LoadTableFiles(dir, model.Day1, table.Roster)

			Convey("Then reloading reproduces the table", func() {
				So(err, ShouldBeNil)
				So(got.Teams, ShouldResemble, table.Teams)
				So(got.Basis, ShouldEqual, model.Day1)
			})
		})

		Convey("When counting entries are written to the workbook", func() {
			So(sheet.WriteCountingWorkbook(filepath.Join(dir, sheet.WorkbookName), table), ShouldBeNil)
			got, err := sheet.LoadTableFiles(dir, model.Day1, table.Roster)

			Convey("Then reloading reproduces the table", func() {
				So(err, ShouldBeNil)
				So(got.Teams, ShouldResemble, table.Teams)
			})
		})

		Convey("When the team file is for another roster", func() {
			other := testroster.Roster(9, 21, 0)
			countingPath := filepath.Join(dir, sheet.CountingFileName(model.Day1))
			So(sheet.WriteFile(countingPath, func(w io.Writer) error { return sheet.WriteCountingCSV(w, table) }), ShouldBeNil)
			_, err := sheet.LoadTableFiles(dir, model.Day1, other)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a missing teams file", t, func() {
		_, err := sheet.LoadTableFiles(t.TempDir(), model.Average, testroster.Roster(6, 1, 0))

		Convey("Then the open error is returned", func() {
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}

// tableRows renders table as team and counting rows the way LoadTable
// reads them back.
func tableRows(t *testing.T, table *scoring.Table) ([][]string, [][]string) {
	t.Helper()
	var teams, counting bytes.Buffer
	if err := sheet.WriteTeamsCSV(&teams, table); err != nil {
		t.Fatal(err)
	}
	if err := sheet.WriteCountingCSV(&counting, table); err != nil {
		t.Fatal(err)
	}
	teamRows, err := sheet.ReadCSV(&teams)
	if err != nil {
		t.Fatal(err)
	}
	countingRows, err := sheet.ReadCSV(&counting)
	if err != nil {
		t.Fatal(err)
	}
	return teamRows, countingRows
}

// countingRow returns the index of the row holding team id's entry at rank
// on event.
func countingRow(rows [][]string, id int, ev model.Event, rank int) int {
	for i, row := range rows {
		if row[0] == strconv.Itoa(id) && row[1] == ev.String() && row[2] == strconv.Itoa(rank) {
			return i
		}
	}
	return -1
}

func TestLoadTableRejectsCorruptRows(t *testing.T) {
	Convey("Given the rows of a scored table", t, func() {
		table := scoredTable(t, 7, model.Average)
		teamRows, countingRows := tableRows(t, table)

		Convey("When they are loaded unchanged", func() {
			got, err := sheet.LoadTable(model.Average, table.Roster, teamRows, countingRows)

			Convey("Then the table is rebuilt", func() {
				So(err, ShouldBeNil)
				So(got.Teams, ShouldResemble, table.Teams)
			})
		})

		Convey("When one slot is overwritten with a copy of another", func() {
			vault := countingRow(countingRows, 0, model.Vault, 1)
			bars := countingRow(countingRows, 0, model.Bars, 1)
			So(vault, ShouldBeGreaterThan, 0)
			So(bars, ShouldBeGreaterThan, 0)
			countingRows[bars] = append([]string(nil), countingRows[vault]...)
			_, err := sheet.LoadTable(model.Average, table.Roster, teamRows, countingRows)

			Convey("Then the repeated slot is rejected", func() {
				So(errors.Is(err, sheet.ErrBadRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "repeated")
			})
		})

		Convey("When a counting row is dropped", func() {
			floor := countingRow(countingRows, 1, model.Floor, 3)
			So(floor, ShouldBeGreaterThan, 0)
			countingRows = append(countingRows[:floor], countingRows[floor+1:]...)
			_, err := sheet.LoadTable(model.Average, table.Roster, teamRows, countingRows)

			Convey("Then the missing slot is reported", func() {
				So(errors.Is(err, sheet.ErrBadRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "missing")
			})
		})

		Convey("When a team row appears twice", func() {
			teamRows = append(teamRows, append([]string(nil), teamRows[1]...))
			_, err := sheet.LoadTable(model.Average, table.Roster, teamRows, countingRows)

			Convey("Then the table is rejected", func() {
				So(errors.Is(err, sheet.ErrBadRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "repeated")
			})
		})

		Convey("When a team score disagrees with its entries", func() {
			teamRows[1][1] = strconv.FormatFloat(table.Teams[0].Score+1, 'f', 2, 64)
			_, err := sheet.LoadTable(model.Average, table.Roster, teamRows, countingRows)

			Convey("Then the mismatch is reported", func() {
				So(errors.Is(err, sheet.ErrBadRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "does not match")
			})
		})

		Convey("When a lower rank outscores a higher one", func() {
			first := countingRow(countingRows, 2, model.Beam, 1)
			third := countingRow(countingRows, 2, model.Beam, 3)
			So(first, ShouldBeGreaterThan, 0)
			So(third, ShouldBeGreaterThan, 0)
			countingRows[third][4] = strconv.FormatFloat(table.Teams[2].Counting[model.Beam][0].Score+1, 'f', -1, 64)
			_, err := sheet.LoadTable(model.Average, table.Roster, teamRows, countingRows)

			Convey("Then the order violation is reported", func() {
				So(errors.Is(err, sheet.ErrBadRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "outscores")
			})
		})
	})
}

func TestWriteCountingWorkbook(t *testing.T) {
	Convey("Given a table larger than one worksheet", t, func() {
		big := &scoring.Table{Basis: model.Average, Teams: make([]scoring.Team, 87382)}
		err := sheet.WriteCountingWorkbook(filepath.Join(t.TempDir(), sheet.WorkbookName), big)

		Convey("Then ErrSheetTooLarge is returned", func() {
			So(errors.Is(err, sheet.ErrSheetTooLarge), ShouldBeTrue)
		})
	})

	Convey("Given no tables", t, func() {
		err := sheet.WriteCountingWorkbook(filepath.Join(t.TempDir(), sheet.WorkbookName))

		Convey("Then ErrEmptySheet is returned", func() {
			So(errors.Is(err, sheet.ErrEmptySheet), ShouldBeTrue)
		})
	})
}
