// Package calendar computes month grids and owns month navigation.
//
// Months are 1-based (time.January == 1) throughout.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/holical/internal/domain/model"
)

const (
	daysPerWeek = 7
	minYear     = 1
	maxYear     = 9999
)

// DayCell is one slot in a month grid. Blank slots have Day == 0 and an
// empty ISODate.
type DayCell struct {
	Day     int    `json:"day,omitempty"`
	ISODate string `json:"iso_date,omitempty"`
	IsToday bool   `json:"is_today"`
}

// Blank reports whether the cell is padding before or after the month.
func (c DayCell) Blank() bool { return c.Day == 0 }

// MonthGrid is the complete-week layout of one month.
type MonthGrid struct {
	Year          int          `json:"year"`
	Month         time.Month   `json:"month"`
	WeekStart     time.Weekday `json:"week_start"`
	LeadingBlanks int          `json:"leading_blanks"`
	Cells         []DayCell    `json:"cells"`
}

// Weeks splits the cells into rows of seven.
func (g MonthGrid) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, len(g.Cells)/daysPerWeek)
	for i := 0; i+daysPerWeek <= len(g.Cells); i += daysPerWeek {
		weeks = append(weeks, g.Cells[i:i+daysPerWeek])
	}
	return weeks
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns how many blank cells precede the 1st so that it
// lands under its weekday column.
func LeadingBlanks(year int, month time.Month, weekStart time.Weekday) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(first) - int(weekStart) + daysPerWeek) % daysPerWeek
}

// BuildMonthGrid lays out year/month in complete weeks starting on
// weekStart. The grid depends on now through IsToday, so it must be
// rebuilt on every render rather than cached.
func BuildMonthGrid(year int, month time.Month, weekStart time.Weekday, now time.Time) (MonthGrid, error) {
	if err := validate(year, month); err != nil {
		return MonthGrid{}, err
	}
	if weekStart < time.Sunday || weekStart > time.Saturday {
		return MonthGrid{}, fmt.Errorf("%w: %d", ErrInvalidWeekStart, int(weekStart))
	}

	lead := LeadingBlanks(year, month, weekStart)
	days := DaysIn(year, month)
	total := (lead + days + daysPerWeek - 1) / daysPerWeek * daysPerWeek
	today := model.DateOf(now).String()

	cells := make([]DayCell, total)
	for d := 1; d <= days; d++ {
		iso := model.Date{Year: year, Month: month, Day: d}.String()
		cells[lead+d-1] = DayCell{Day: d, ISODate: iso, IsToday: iso == today}
	}

	return MonthGrid{
		Year:          year,
		Month:         month,
		WeekStart:     weekStart,
		LeadingBlanks: lead,
		Cells:         cells,
	}, nil
}

// WeekdayLabels returns the seven column headers starting at weekStart.
// lookup is a pass-through translation hook; nil keeps English short names.
func WeekdayLabels(weekStart time.Weekday, lookup func(string) string) [7]string {
	var labels [7]string
	for i := range labels {
		name := time.Weekday((int(weekStart) + i) % daysPerWeek).String()[:3]
		if lookup != nil {
			name = lookup(name)
		}
		labels[i] = name
	}
	return labels
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekStart, s)
}

func validate(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, int(month))
	}
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}
