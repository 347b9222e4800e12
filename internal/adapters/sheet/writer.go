package sheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
)

// Output file names.
const (
	WorkbookName  = "Highest Scoring Teams.xlsx"
	dirPermission = 0o750
)

// Team and counting table headers.
var (
	teamHeader     = []string{"Team ID", "Team Score", "Member 1", "Member 2", "Member 3", "Member 4", "Member 5"} //nolint:gochecknoglobals // fixed layout
	countingHeader = []string{"Team ID", "Event", "Score_Rank", "Name", "Score"}                                   //nolint:gochecknoglobals // fixed layout
	dayHeader      = []string{ColName, "Vault", "Bars", "Beam", "Floor", ColAA, ColColor}                          //nolint:gochecknoglobals // fixed layout
)

// TeamsFileName is the team-membership CSV name for a basis.
func TeamsFileName(b model.Basis) string { return b.SheetName() + " Teams.csv" }

// CountingFileName is the counting-entries CSV name for a basis.
func CountingFileName(b model.Basis) string { return b.SheetName() + " Counting.csv" }

// WriteTeamsCSV writes one row per team: id, total and member names.
func WriteTeamsCSV(w io.Writer, table *scoring.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(teamHeader); err != nil {
		return errors.Wrap(err, "write teams header")
	}
	row := make([]string, len(teamHeader))
	for i := range table.Teams {
		t := &table.Teams[i]
		row[0] = strconv.Itoa(t.ID)
		row[1] = formatTeamScore(t.Score)
		names := table.MemberNames(t)
		copy(row[2:], names[:])
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write team %d", t.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush teams csv")
}

// WriteCountingCSV writes the twelve counting entries of every team.
func WriteCountingCSV(w io.Writer, table *scoring.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(countingHeader); err != nil {
		return errors.Wrap(err, "write counting header")
	}
	err := eachCountingRow(table, func(r countingRow) error {
		return cw.Write([]string{
			strconv.Itoa(r.id), r.event, strconv.Itoa(r.rank), r.name, formatScore(r.score),
		})
	})
	if err != nil {
		return errors.Wrap(err, "write counting row")
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush counting csv")
}

// WriteDayCSV writes one day of results in the layout ReadDayCSV accepts.
func WriteDayCSV(w io.Writer, results []model.DayResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dayHeader); err != nil {
		return errors.Wrap(err, "write day header")
	}
	for _, d := range results {
		if err := cw.Write(dayRow(d)); err != nil {
			return errors.Wrapf(err, "write %s", d.Name)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush day csv")
}

// WriteFile creates path (and its directory) and hands it to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	f, err := os.Create(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(f)
}

type countingRow struct {
	id    int
	event string
	rank  int
	name  string
	score float64
}

func eachCountingRow(table *scoring.Table, fn func(countingRow) error) error {
	l := table.Roster.Lookup()
	for i := range table.Teams {
		t := &table.Teams[i]
		for _, e := range t.Entries() {
			r := countingRow{id: t.ID, event: e.Event.String(), rank: e.Rank, name: l.Name(e.Athlete), score: e.Score}
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func dayRow(d model.DayResult) []string {
	row := make([]string, 0, len(dayHeader))
	row = append(row, d.Name)
	for _, v := range d.Scores {
		row = append(row, formatScore(v))
	}
	return append(row, formatScore(scoring.Round(d.AllAround(), 3)), d.Color)
}

func formatScore(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatTeamScore(v float64) string {
	return strconv.FormatFloat(v, 'f', scoring.TeamScoreDecimals, 64)
}
