// Package sheet reads competition results from CSV files and workbooks and
// writes computed team tables back out in the same formats.
package sheet

import "github.com/pkg/errors"

// Sentinel kinds for sheet errors.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptySheet    = errors.New("sheet has no rows")
	ErrSheetTooLarge = errors.New("sheet exceeds workbook row limit")
	ErrBadRow        = errors.New("malformed row")
	ErrUnknownName   = errors.New("athlete not on roster")
)
