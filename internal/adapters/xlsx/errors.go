package xlsx

import "errors"

var (
	// ErrNoWorksheet is returned when a workbook has no sheets.
	ErrNoWorksheet = errors.New("no worksheet found")
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrOpenWorkbook wraps failures reading the workbook itself.
	ErrOpenWorkbook = errors.New("open workbook failed")
)
