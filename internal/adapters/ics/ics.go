// Package ics renders a month of calendar events as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/soh335/ical"

	"github.com/okian/holical/internal/domain/aggregate"
	"github.com/okian/holical/internal/domain/model"
)

// Encoder writes VCALENDAR documents with one all-day VEVENT per event.
type Encoder struct {
	name     string
	prodID   string
	location *time.Location
	clock    func() time.Time
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		name:     "Staff Holidays",
		prodID:   "-//holical//staff-holidays//EN",
		location: time.UTC,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EncodeMonth writes the events that fall in year/month to w. Events
// outside the month are ignored; a malformed date fails the whole call.
func (e *Encoder) EncodeMonth(w io.Writer, events []model.CalendarEvent, year int, month time.Month) (int, error) {
	inMonth, err := aggregate.InMonth(events, year, month)
	if err != nil {
		return 0, err
	}
	description := fmt.Sprintf("%s, %s %d", e.name, month, year)
	return len(inMonth), e.encode(w, inMonth, description)
}

// Encode writes every event to w.
func (e *Encoder) Encode(w io.Writer, events []model.CalendarEvent) error {
	for _, ev := range events {
		if _, err := ev.CivilDate(); err != nil {
			return err
		}
	}
	return e.encode(w, events, e.name)
}

func (e *Encoder) encode(w io.Writer, events []model.CalendarEvent, description string) error {
	cal := ical.NewBasicVCalendar()
	cal.PRODID = e.prodID
	cal.VERSION = "2.0"
	name := escapeText(e.name)
	cal.NAME = name
	cal.X_WR_CALNAME = name
	cal.DESCRIPTION = escapeText(description)
	cal.X_WR_CALDESC = cal.DESCRIPTION

	tz := e.location.String()
	cal.TIMEZONE_ID = tz
	cal.X_WR_TIMEZONE = tz
	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	stamp := e.clock().UTC()
	for _, ev := range events {
		d, err := ev.CivilDate()
		if err != nil {
			return err
		}
		start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, e.location)
		// All-day DATE values carry no TZID.
		cal.VComponent = append(cal.VComponent, &ical.VEvent{
			UID:         ev.ID + "@holical",
			DTSTAMP:     stamp,
			DTSTART:     start,
			DTEND:       start.AddDate(0, 0, 1),
			SUMMARY:     escapeText(fmt.Sprintf("%s (%s)", ev.ParticipantName, ev.Category)),
			DESCRIPTION: escapeText(fmt.Sprintf("%s: %s", ev.Category, ev.ParticipantName)),
			AllDay:      true,
		})
	}
	return cal.Encode(w)
}

// textEscaper escapes TEXT property values per RFC 5545 section 3.3.11;
// the ical package writes values verbatim.
var textEscaper = strings.NewReplacer( //nolint:gochecknoglobals // stateless replacer
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func escapeText(s string) string { return textEscaper.Replace(s) }
