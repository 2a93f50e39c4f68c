// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Category tags an event for display styling only; it carries no behavior.
type Category string

// Known categories.
const (
	CategoryAnnual   Category = "Annual"
	CategorySick     Category = "Sick"
	CategoryPersonal Category = "Personal"
	CategoryOther    Category = "Other"
)

// Categories lists the closed category set in display order.
func Categories() []Category {
	return []Category{CategoryAnnual, CategorySick, CategoryPersonal, CategoryOther}
}

// ParseCategory matches s case-insensitively against the known categories.
// An empty string maps to CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// CalendarEvent is a single dated entry for one participant, e.g. a day of
// annual leave. Date is a civil YYYY-MM-DD string with no timezone.
type CalendarEvent struct {
	ID              string   `json:"id"`
	ParticipantName string   `json:"participant_name"`
	Date            string   `json:"date"`
	Category        Category `json:"category"`
}

// Key returns the event ID; it lets repositories index events generically.
func (e CalendarEvent) Key() string { return e.ID }

// CivilDate parses the event's date, reporting the event ID on failure.
func (e CalendarEvent) CivilDate() (Date, error) {
	d, err := ParseDate(e.Date)
	if err != nil {
		return Date{}, &DateError{EventID: e.ID, Value: e.Date, Err: err}
	}
	return d, nil
}

// maxIDLen bounds event IDs; a UUID is 36 characters.
const maxIDLen = 128

// reservedIDs collide with fixed routes under /events/.
var reservedIDs = map[string]bool{ //nolint:gochecknoglobals // fixed route names
	".":           true,
	"..":          true,
	"import":      true,
	"export.xlsx": true,
}

// ValidateID reports whether id can address an event as a single URL path
// segment: letters, digits and "-_.~:@", not a reserved route name.
func ValidateID(id string) error {
	if id == "" || len(id) > maxIDLen || reservedIDs[strings.ToLower(id)] {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_.~:@", r):
		default:
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// Validate performs the required-field checks applied at the API and
// import boundaries. An empty ID is allowed; the store assigns one.
func (e CalendarEvent) Validate() error {
	if e.ID != "" {
		if err := ValidateID(e.ID); err != nil {
			return err
		}
	}
	switch {
	case strings.TrimSpace(e.ParticipantName) == "":
		return fmt.Errorf("%w: participant_name", ErrMissingField)
	case strings.TrimSpace(e.Date) == "":
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	if _, err := e.CivilDate(); err != nil {
		return err
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	return nil
}
