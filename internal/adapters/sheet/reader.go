package sheet

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/gymteams/internal/domain/model"
)

// Day result column names.
const (
	ColName  = "Name"
	ColColor = "Color"
	ColAA    = "AA"
)

// ReadDayCSV parses one day of results. The header must name the Name
// column and the four apparatus columns; Color and AA are optional and AA
// is ignored in favour of the computed sum.
func ReadDayCSV(r io.Reader, day string) ([]model.DayResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s csv", day)
	}
	return ParseDayRows(rows, day)
}

// ReadDayFile parses a day CSV from disk.
func ReadDayFile(path, day string) ([]model.DayResult, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadDayCSV(f, day)
}

// ParseDayRows converts a header row plus data rows into day results.
// Blank rows are skipped. Names are NFC-normalized so that the same name
// typed with different Unicode forms joins across days.
func ParseDayRows(rows [][]string, day string) ([]model.DayResult, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrEmptySheet, day)
	}
	cols, err := indexColumns(rows[0])
	if err != nil {
		return nil, errors.Wrap(err, day)
	}

	out := make([]model.DayResult, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := Name(cell(row, cols.name))
		if name == "" {
			continue
		}
		d := model.DayResult{Name: name, Color: strings.TrimSpace(cell(row, cols.color))}
		for _, e := range model.Events {
			raw := cell(row, cols.events[e])
			v, err := parseScore(raw)
			if err != nil {
				return nil, &model.MalformedScoreError{Athlete: name, Event: e, Day: day, Raw: raw, Reason: err.Error()}
			}
			d.Scores[e] = v
		}
		out = append(out, d)
	}
	return out, nil
}

// Name canonicalizes an athlete name read from a sheet.
func Name(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

type columns struct {
	name   int
	color  int
	events [model.NumEvents]int
}

func indexColumns(header []string) (columns, error) {
	c := columns{name: -1, color: -1}
	for i := range c.events {
		c.events[i] = -1
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, ColName):
			c.name = i
		case strings.EqualFold(h, ColColor):
			c.color = i
		case strings.EqualFold(h, ColAA):
		default:
			if e, err := model.ParseEvent(h); err == nil && e != model.AllAround {
				c.events[e] = i
			}
		}
	}
	if c.name < 0 {
		return c, errors.Wrap(ErrMissingColumn, ColName)
	}
	for _, e := range model.Events {
		if c.events[e] < 0 {
			return c, errors.Wrap(ErrMissingColumn, e.String())
		}
	}
	return c, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseScore(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty score")
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, errors.Wrap(err, "not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}
