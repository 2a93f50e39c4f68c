package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/okian/holical/internal/domain/model"
)

const cellWidth = 6

// TextRenderer writes a plain-text month calendar. Today is shown in
// brackets and days with events carry a trailing '+', today included; the
// events follow the grid.
type TextRenderer struct {
	W io.Writer
}

// Render writes v to r.W.
func (r TextRenderer) Render(_ context.Context, v View) error {
	var sb strings.Builder

	title := fmt.Sprintf("%s %d", v.Grid.Month, v.Grid.Year)
	width := cellWidth * len(v.WeekdayLabels)
	if pad := (width - len(title)) / 2; pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(title)
	sb.WriteByte('\n')

	for _, l := range v.WeekdayLabels {
		fmt.Fprintf(&sb, "%*s", cellWidth, l)
	}
	sb.WriteByte('\n')

	for _, week := range v.Grid.Weeks() {
		for _, c := range week {
			sb.WriteString(formatCell(c.Day, c.IsToday, len(v.Bucket[c.ISODate]) > 0))
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "\n%d events, %d people\n", v.Stats.TotalEvents, v.Stats.DistinctParticipants)
	if tally := categoryTally(v); tally != "" {
		sb.WriteString(tally)
		sb.WriteByte('\n')
	}

	for _, c := range v.Grid.Cells {
		if c.Blank() {
			continue
		}
		evs := v.Bucket[c.ISODate]
		names := make([]string, 0, len(evs))
		for _, ev := range evs {
			names = append(names, fmt.Sprintf("%s (%s)", ev.ParticipantName, ev.Category))
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s  %s\n", c.ISODate, strings.Join(names, ", "))
	}

	_, err := io.WriteString(r.W, sb.String())
	return err
}

func formatCell(day int, today, busy bool) string {
	if day == 0 {
		return strings.Repeat(" ", cellWidth)
	}
	mark := " "
	if busy {
		mark = "+"
	}
	if today {
		return fmt.Sprintf("%*s%s", cellWidth-1, fmt.Sprintf("[%d]", day), mark)
	}
	return fmt.Sprintf("%*d%s", cellWidth-1, day, mark)
}

func categoryTally(v View) string {
	parts := make([]string, 0, len(v.Categories))
	for _, c := range model.Categories() {
		if n := v.Categories[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c, n))
		}
	}
	return strings.Join(parts, ", ")
}
