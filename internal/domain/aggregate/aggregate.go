// Package aggregate bins calendar events by day and summarises a month.
package aggregate

import (
	"time"

	"github.com/okian/holical/internal/domain/model"
)

// Bucket maps an ISO date to the events on that day, in input order.
type Bucket map[string][]model.CalendarEvent

// Len returns the number of events across all days.
func (b Bucket) Len() int {
	n := 0
	for _, evs := range b {
		n += len(evs)
	}
	return n
}

// MonthStats summarises the events of one displayed month.
type MonthStats struct {
	TotalEvents          int `json:"total_events"`
	DistinctParticipants int `json:"distinct_participants"`
}

// BucketEvents groups events by their exact date. Every event lands in
// exactly one bucket; duplicates are kept. A malformed date aborts the
// whole call with a *model.DateError naming the event.
func BucketEvents(events []model.CalendarEvent) (Bucket, error) {
	b := make(Bucket)
	for _, ev := range events {
		if _, err := ev.CivilDate(); err != nil {
			return nil, err
		}
		b[ev.Date] = append(b[ev.Date], ev)
	}
	return b, nil
}

// ComputeMonthStats counts events dated in year/month and the distinct
// participant names among them (case-sensitive).
func ComputeMonthStats(events []model.CalendarEvent, year int, month time.Month) (MonthStats, error) {
	participants := make(map[string]struct{})
	var stats MonthStats
	for _, ev := range events {
		d, err := ev.CivilDate()
		if err != nil {
			return MonthStats{}, err
		}
		if !d.In(year, month) {
			continue
		}
		stats.TotalEvents++
		participants[ev.ParticipantName] = struct{}{}
	}
	stats.DistinctParticipants = len(participants)
	return stats, nil
}

// InMonth returns the events dated in year/month, preserving order.
func InMonth(events []model.CalendarEvent, year int, month time.Month) ([]model.CalendarEvent, error) {
	out := make([]model.CalendarEvent, 0)
	for _, ev := range events {
		d, err := ev.CivilDate()
		if err != nil {
			return nil, err
		}
		if d.In(year, month) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// CategoryCounts tallies events per category for a month.
func CategoryCounts(events []model.CalendarEvent, year int, month time.Month) (map[model.Category]int, error) {
	inMonth, err := InMonth(events, year, month)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Category]int, len(model.Categories()))
	for _, ev := range inMonth {
		counts[ev.Category]++
	}
	return counts, nil
}
