package sheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
)

// LoadTable rebuilds a scored table from a team-membership table and a
// counting-entries table, both given as rows including their header. The
// roster must be the one the tables were written from: every team id has
// to match its members' combination rank.
func LoadTable(basis model.Basis, r *model.Roster, teamRows, countingRows [][]string) (*scoring.Table, error) {
	if len(teamRows) < 2 || len(countingRows) < 2 {
		return nil, errors.Wrap(ErrEmptySheet, basis.SheetName())
	}
	total := scoring.Binomial(r.Len(), scoring.TeamSize)
	if total == 0 {
		return nil, &model.InsufficientRosterError{Size: r.Len(), Required: scoring.TeamSize}
	}
	teams := make([]scoring.Team, total)
	for i := range teams {
		teams[i].ID = -1
	}
	l := r.Lookup()

	for n, row := range teamRows[1:] {
		if len(row) < len(teamHeader) {
			return nil, errors.Wrapf(ErrBadRow, "teams row %d", n+2)
		}
		id, err := cast.ToIntE(strings.TrimSpace(row[0]))
		if err != nil || id < 0 || id >= total {
			return nil, errors.Wrapf(ErrBadRow, "teams row %d: team id %q", n+2, row[0])
		}
		score, err := cast.ToFloat64E(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, errors.Wrapf(ErrBadRow, "teams row %d: score %q", n+2, row[1])
		}
		t := &teams[id]
		if t.ID == id {
			return nil, errors.Wrapf(ErrBadRow, "teams row %d: team %d repeated", n+2, id)
		}
		t.ID, t.Score = id, score
		for m := 0; m < scoring.TeamSize; m++ {
			aid, ok := l.ID(Name(row[2+m]))
			if !ok {
				return nil, errors.Wrapf(ErrUnknownName, "teams row %d: %q", n+2, row[2+m])
			}
			t.Members[m] = aid
		}
		if scoring.Rank(t.Members[:], r.Len()) != id {
			return nil, errors.Wrapf(ErrBadRow, "teams row %d: members do not form team %d", n+2, id)
		}
	}
	for id := range teams {
		if teams[id].ID != id {
			return nil, errors.Wrapf(ErrBadRow, "team %d missing", id)
		}
	}

	filled := make([][model.NumEvents][scoring.Counted]bool, total)
	for n, row := range countingRows[1:] {
		if len(row) < len(countingHeader) {
			return nil, errors.Wrapf(ErrBadRow, "counting row %d", n+2)
		}
		id, err := cast.ToIntE(strings.TrimSpace(row[0]))
		if err != nil || id < 0 || id >= total {
			return nil, errors.Wrapf(ErrBadRow, "counting row %d: team id %q", n+2, row[0])
		}
		ev, err := model.ParseEvent(row[1])
		if err != nil || ev == model.AllAround {
			return nil, errors.Wrapf(ErrBadRow, "counting row %d: event %q", n+2, row[1])
		}
		rank, err := cast.ToIntE(strings.TrimSpace(row[2]))
		if err != nil || rank < 1 || rank > scoring.Counted {
			return nil, errors.Wrapf(ErrBadRow, "counting row %d: rank %q", n+2, row[2])
		}
		if filled[id][ev][rank-1] {
			return nil, errors.Wrapf(ErrBadRow, "counting row %d: team %d %s rank %d repeated", n+2, id, ev, rank)
		}
		aid, ok := l.ID(Name(row[3]))
		if !ok || !teams[id].HasMember(aid) {
			return nil, errors.Wrapf(ErrUnknownName, "counting row %d: %q", n+2, row[3])
		}
		score, err := parseScore(row[4])
		if err != nil {
			return nil, errors.Wrapf(ErrBadRow, "counting row %d: %v", n+2, err)
		}
		teams[id].Counting[ev][rank-1] = scoring.Entry{Athlete: aid, Event: ev, Rank: rank, Score: score}
		filled[id][ev][rank-1] = true
	}
	for id := range teams {
		if err := checkCounting(&teams[id], &filled[id]); err != nil {
			return nil, err
		}
	}
	return &scoring.Table{Basis: basis, Roster: r, Teams: teams}, nil
}

// checkCounting verifies that every slot of t was filled, that each event
// counts three different members in non-increasing score order and that
// the entries add up to the team score.
func checkCounting(t *scoring.Team, filled *[model.NumEvents][scoring.Counted]bool) error {
	var total float64
	for _, e := range model.Events {
		row := &t.Counting[e]
		for rank := 0; rank < scoring.Counted; rank++ {
			if !filled[e][rank] {
				return errors.Wrapf(ErrBadRow, "team %d: %s rank %d missing", t.ID, e, rank+1)
			}
			if rank > 0 && row[rank].Score > row[rank-1].Score {
				return errors.Wrapf(ErrBadRow, "team %d: %s rank %d outscores rank %d", t.ID, e, rank+1, rank)
			}
			for prev := 0; prev < rank; prev++ {
				if row[prev].Athlete == row[rank].Athlete {
					return errors.Wrapf(ErrBadRow, "team %d: %s counts an athlete twice", t.ID, e)
				}
			}
			total += row[rank].Score
		}
	}
	want := scoring.ScoreKey(scoring.Round(total, scoring.TeamScoreDecimals), scoring.TeamScoreDecimals)
	if scoring.ScoreKey(t.Score, scoring.TeamScoreDecimals) != want {
		return errors.Wrapf(ErrBadRow, "team %d: score %.2f does not match its counting entries", t.ID, t.Score)
	}
	return nil
}

// LoadTableFiles reads the tables written for basis under dir. Counting
// entries come from the workbook when it exists, otherwise from the
// basis counting CSV.
func LoadTableFiles(dir string, basis model.Basis, r *model.Roster) (*scoring.Table, error) {
	teamRows, err := readCSVFile(filepath.Join(dir, TeamsFileName(basis)))
	if err != nil {
		return nil, err
	}
	var countingRows [][]string
	if wb := filepath.Join(dir, WorkbookName); fileExists(wb) {
		countingRows, err = ReadSheetRows(wb, basis.SheetName())
	} else {
		countingRows, err = readCSVFile(filepath.Join(dir, CountingFileName(basis)))
	}
	if err != nil {
		return nil, err
	}
	return LoadTable(basis, r, teamRows, countingRows)
}

// ReadCSV returns every record of a CSV stream.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	return rows, errors.Wrap(err, "read csv")
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
