// Package xlsx reads and writes calendar events as Excel workbooks.
//
// The first sheet is read; its first non-empty row is the header. Recognised
// columns (case-insensitive): id, participant (aliases: participant_name,
// name, employee, staff), date (alias: day) and category (alias: type).
// participant and date are required.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/internal/domain/types"
)

// RowError describes one rejected spreadsheet row.
type RowError = types.RowError

// Report summarises an import.
type Report struct {
	Accepted  int        `json:"accepted"`
	Rejected  []RowError `json:"rejected"`
	Truncated bool       `json:"truncated"`
}

var headerAliases = map[string]string{ //nolint:gochecknoglobals // lookup table
	"id":               "id",
	"participant":      "participant",
	"participant_name": "participant",
	"participant name": "participant",
	"name":             "participant",
	"employee":         "participant",
	"staff":            "participant",
	"date":             "date",
	"day":              "date",
	"category":         "category",
	"type":             "category",
}

var exportHeader = []any{"id", "participant", "date", "category"} //nolint:gochecknoglobals // fixed layout

// Import parses events from the workbook in r. Bad rows are reported and
// skipped; only unreadable workbooks or a missing required column fail the
// whole call. Accepted events keep their spreadsheet order.
func Import(r io.Reader, opts ...Option) ([]model.CalendarEvent, Report, error) {
	o := defaults(opts)
	report := Report{Rejected: []RowError{}}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrOpenWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, report, ErrNoWorksheet
	}
	// Raw values keep date cells as serials instead of locale formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrOpenWorkbook, err)
	}

	headerAt := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return []model.CalendarEvent{}, report, nil
	}

	cols := map[string]int{}
	for i, h := range rows[headerAt] {
		if key, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, seen := cols[key]; !seen {
				cols[key] = i
			}
		}
	}
	for _, required := range []string{"participant", "date"} {
		if _, ok := cols[required]; !ok {
			return nil, report, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	col := func(row []string, key string) string {
		idx, ok := cols[key]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}

	events := []model.CalendarEvent{}
	read := 0
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		if read == o.maxRows {
			report.Truncated = true
			break
		}
		read++

		line := i + 1
		date, ok := normalizeDate(col(row, "date"))
		if !ok {
			report.Rejected = append(report.Rejected, RowError{Row: line, Reason: fmt.Sprintf("unreadable date %q", col(row, "date"))})
			continue
		}
		category, err := model.ParseCategory(col(row, "category"))
		if err != nil {
			report.Rejected = append(report.Rejected, RowError{Row: line, Reason: err.Error()})
			continue
		}
		ev := model.CalendarEvent{
			ID:              col(row, "id"),
			ParticipantName: col(row, "participant"),
			Date:            date,
			Category:        category,
		}
		if err := ev.Validate(); err != nil {
			report.Rejected = append(report.Rejected, RowError{Row: line, Reason: err.Error()})
			continue
		}
		events = append(events, ev)
	}
	report.Accepted = len(events)
	return events, report, nil
}

// Export writes events as a single-sheet workbook.
func Export(w io.Writer, events []model.CalendarEvent, opts ...Option) error {
	o := defaults(opts)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), o.sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(o.sheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, ev := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{ev.ID, ev.ParticipantName, ev.Date, string(ev.Category)}
		if err := f.SetSheetRow(o.sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(o.sheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(o.sheet, "B", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(o.sheet, "C", "D", 12); err != nil {
		return err
	}
	return f.Write(w)
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{ //nolint:gochecknoglobals // accepted input layouts
	"2006/01/02",
	"2/1/2006",
	"02/01/2006",
	"2.1.2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// normalizeDate turns a cell into YYYY-MM-DD. Strict ISO wins, then Excel
// serials, then the day-first layouts common in European rotas.
func normalizeDate(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	if d, err := model.ParseDate(value); err == nil {
		return d.String(), true
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial < 1 {
			return "", false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", false
		}
		return model.DateOf(t).String(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return model.DateOf(t).String(), true
		}
	}
	return "", false
}
