package model

import (
	"fmt"
	"time"
)

// isoLayout is the only accepted textual date form.
const isoLayout = "2006-01-02"

// Date is a calendar day without time or location. It is never converted
// to an instant, so no timezone shift can move it to a neighbouring day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict, zero-padded YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if len(s) != len(isoLayout) || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	year, ok1 := atoi(s[0:4])
	month, ok2 := atoi(s[5:7])
	day, ok3 := atoi(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.valid() {
		return Date{}, fmt.Errorf("%w: %q out of range", ErrMalformedDate, s)
	}
	return d, nil
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In reports whether d falls in the given year and month.
func (d Date) In(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

// Time returns midnight UTC of d; used by encoders that need a time.Time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) valid() bool {
	if d.Year < 1 || d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	// time.Date normalises overflow, so a round trip detects e.g. Feb 30.
	return DateOf(d.Time()) == d
}

func atoi(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
