package sheet

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
)

// maxSheetRows is the row limit of a single worksheet.
const maxSheetRows = 1_048_576

// ReadWorkbook reads both competition days from the named sheets.
func ReadWorkbook(path, day1Sheet, day2Sheet string) ([]model.DayResult, []model.DayResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	day1, err := readDaySheet(f, day1Sheet, "day1")
	if err != nil {
		return nil, nil, err
	}
	day2, err := readDaySheet(f, day2Sheet, "day2")
	if err != nil {
		return nil, nil, err
	}
	return day1, day2, nil
}

func readDaySheet(f *excelize.File, sheet, day string) ([]model.DayResult, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	return ParseDayRows(rows, day)
}

// WriteResultsWorkbook writes both days to a workbook in the layout
// ReadWorkbook accepts.
func WriteResultsWorkbook(path, day1Sheet, day2Sheet string, day1, day2 []model.DayResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), day1Sheet); err != nil {
		return errors.Wrapf(err, "rename sheet to %s", day1Sheet)
	}
	if _, err := f.NewSheet(day2Sheet); err != nil {
		return errors.Wrapf(err, "create sheet %s", day2Sheet)
	}
	for _, s := range []struct {
		name string
		rows []model.DayResult
	}{{day1Sheet, day1}, {day2Sheet, day2}} {
		if err := writeRow(f, s.name, 1, toCells(dayHeader)); err != nil {
			return err
		}
		for i, d := range s.rows {
			if err := writeRow(f, s.name, i+2, dayCells(d)); err != nil {
				return err
			}
		}
	}
	return errors.Wrapf(f.SaveAs(path), "save %s", path)
}

// WriteCountingWorkbook writes one sheet of counting entries per table,
// named after the table's basis ("Day 1", "Day 2", "Average").
func WriteCountingWorkbook(path string, tables ...*scoring.Table) error {
	if len(tables) == 0 {
		return errors.Wrap(ErrEmptySheet, "no tables to write")
	}
	for _, t := range tables {
		if rows := t.Len()*scoring.EntriesPerTeam + 1; rows > maxSheetRows {
			return errors.Wrapf(ErrSheetTooLarge, "%s needs %d rows", t.Basis.SheetName(), rows)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	for i, t := range tables {
		name := t.Basis.SheetName()
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return errors.Wrapf(err, "rename sheet to %s", name)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "create sheet %s", name)
		}
		if err := streamCounting(f, name, t); err != nil {
			return err
		}
	}
	return errors.Wrapf(f.SaveAs(path), "save %s", path)
}

func streamCounting(f *excelize.File, sheet string, table *scoring.Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrapf(err, "stream %s", sheet)
	}
	if err := sw.SetRow("A1", toCells(countingHeader)); err != nil {
		return errors.Wrapf(err, "write %s header", sheet)
	}
	row := 2
	err = eachCountingRow(table, func(r countingRow) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return sw.SetRow(cell, []interface{}{r.id, r.event, r.rank, r.name, r.score})
	})
	if err != nil {
		return errors.Wrapf(err, "write %s rows", sheet)
	}
	return errors.Wrapf(sw.Flush(), "flush %s", sheet)
}

// ReadSheetRows returns every row of one worksheet.
func ReadSheetRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	return rows, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	return errors.Wrapf(f.SetSheetRow(sheet, cell, &cells), "write %s row %d", sheet, row)
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func dayCells(d model.DayResult) []interface{} {
	out := make([]interface{}, 0, len(dayHeader))
	out = append(out, d.Name)
	for _, v := range d.Scores {
		out = append(out, v)
	}
	return append(out, scoring.Round(d.AllAround(), 3), d.Color)
}
