// Package period decides whether a dated record falls inside a report's
// year window.
package period

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	log "github.com/sirupsen/logrus"
)

// Window is an inclusive [Start, End] year range. Callers normalise inverted
// windows; Includes does not.
type Window struct {
	Start int
	End   int
}

func (w Window) Valid() bool {
	return w.Start <= w.End
}

var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01",
	"2006",
	// day-first, as the portal writes them
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
}

// YearOf extracts the year of a date string. Empty or unparseable values
// report false and are treated as absent; unparseable ones are logged.
func YearOf(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Year(), true
	}
	// fall back to a leading four digit year, e.g. "2021/05/01 noon"
	if len(s) >= 4 {
		if year, err := strconv.Atoi(s[:4]); err == nil && year > 0 {
			return year, true
		}
	}
	log.WithField("date", s).Warn("unparseable date, treating as absent")
	return 0, false
}

// Includes reports whether a record dated [start, end] belongs in the window.
// No dates: always included. One date: point test. Both: interval overlap,
// so records spanning a window boundary are kept.
func (w Window) Includes(start, end string) bool {
	startYear, hasStart := YearOf(start)
	endYear, hasEnd := YearOf(end)
	switch {
	case !hasStart && !hasEnd:
		return true
	case hasStart && !hasEnd:
		return w.Start <= startYear && startYear <= w.End
	case !hasStart && hasEnd:
		return w.Start <= endYear && endYear <= w.End
	}
	minYear, maxYear := startYear, endYear
	if minYear > maxYear {
		minYear, maxYear = maxYear, minYear
	}
	return minYear <= w.End && maxYear >= w.Start
}
