package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
)

// demoEntry places one demo event at a day offset within a month offset
// from the initial month. Days past the month end are clamped.
type demoEntry struct {
	monthOffset int
	day         int
	name        string
	category    model.Category
}

var demoRota = []demoEntry{ //nolint:gochecknoglobals // fixed demo data
	{-1, 24, "Marco Rossi", model.CategoryAnnual},
	{-1, 27, "Aiko Tanaka", model.CategoryPersonal},
	{0, 3, "Sofia Lindqvist", model.CategorySick},
	{0, 9, "Marco Rossi", model.CategoryAnnual},
	{0, 10, "Marco Rossi", model.CategoryAnnual},
	{0, 10, "Priya Nair", model.CategoryAnnual},
	{0, 14, "Tomás Ortega", model.CategoryPersonal},
	{0, 21, "Aiko Tanaka", model.CategoryAnnual},
	{0, 22, "Aiko Tanaka", model.CategoryAnnual},
	{0, 28, "Jonas Weber", model.CategoryOther},
	{1, 2, "Priya Nair", model.CategorySick},
	{1, 15, "Sofia Lindqvist", model.CategoryAnnual},
	{1, 16, "Sofia Lindqvist", model.CategoryAnnual},
}

// seed stores the demo rota around the initial month. The caller holds
// s.mu, so the store is used directly.
func (s *Service) seed(ctx context.Context) (int, error) {
	base := s.InitialNavigation()
	events, err := DemoEvents(base.Year, base.Month)
	if err != nil {
		return 0, err
	}
	for i, ev := range events {
		if _, err := s.events.Add(ctx, ev); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

func shift(nav calendar.Navigation, months int) calendar.Navigation {
	for ; months < 0; months++ {
		nav = nav.Previous()
	}
	for ; months > 0; months-- {
		nav = nav.Next()
	}
	return nav
}

// DemoEvents returns the demo rota anchored at year/month.
func DemoEvents(year int, month time.Month) ([]model.CalendarEvent, error) {
	base, err := calendar.NewNavigation(year, month)
	if err != nil {
		return nil, err
	}
	out := make([]model.CalendarEvent, 0, len(demoRota))
	for i, d := range demoRota {
		nav := shift(base, d.monthOffset)
		day := min(d.day, calendar.DaysIn(nav.Year, nav.Month))
		out = append(out, model.CalendarEvent{
			ID:              fmt.Sprintf("demo-%02d", i+1),
			ParticipantName: d.name,
			Date:            model.Date{Year: nav.Year, Month: nav.Month, Day: day}.String(),
			Category:        d.category,
		})
	}
	return out, nil
}
