package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Direction names a navigation transition.
type Direction string

// Supported transitions.
const (
	Previous Direction = "prev"
	Next     Direction = "next"
	Today    Direction = "today"
)

// ParseDirection maps user input onto a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return Previous, nil
	case "next":
		return Next, nil
	case "today":
		return Today, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Navigation is the month currently on display. It is a plain value owned
// by its caller; transitions return the new state and never fail.
type Navigation struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// NewNavigation validates the starting month.
func NewNavigation(year int, month time.Month) (Navigation, error) {
	if err := validate(year, month); err != nil {
		return Navigation{}, err
	}
	return Navigation{Year: year, Month: month}, nil
}

// NavigationAt returns the month containing now.
func NavigationAt(now time.Time) Navigation {
	return Navigation{Year: now.Year(), Month: now.Month()}
}

// Previous steps back one month, rolling into December of the prior year.
func (n Navigation) Previous() Navigation {
	if n.Month == time.January {
		return Navigation{Year: n.Year - 1, Month: time.December}
	}
	return Navigation{Year: n.Year, Month: n.Month - 1}
}

// Next steps forward one month, rolling into January of the next year.
func (n Navigation) Next() Navigation {
	if n.Month == time.December {
		return Navigation{Year: n.Year + 1, Month: time.January}
	}
	return Navigation{Year: n.Year, Month: n.Month + 1}
}

// Today jumps to the month containing now.
func (n Navigation) Today(now time.Time) Navigation {
	return NavigationAt(now)
}

// Apply performs the transition named by dir.
func (n Navigation) Apply(dir Direction, now time.Time) Navigation {
	switch dir {
	case Previous:
		return n.Previous()
	case Next:
		return n.Next()
	case Today:
		return n.Today(now)
	}
	return n
}

func (n Navigation) String() string {
	return fmt.Sprintf("%04d-%02d", n.Year, int(n.Month))
}
