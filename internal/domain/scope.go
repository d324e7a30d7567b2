package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// dateInput also takes one-digit month and day, e.g. 2026-1-5.
	dateInput = "2006-1-2"
)

// Scope is the AND-composed filter shared by the dashboard summary, hourly usage and
// device status views. Nil/empty fields do not filter.
type Scope struct {
	Date       *time.Time // midnight of the calendar day in Location
	FacilityID *int64
	ZoneCode   string
	Location   *time.Location
}

// ParseScope builds a Scope from raw query values.
func ParseScope(date, facility, zoneCode string, loc *time.Location) (Scope, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := Scope{ZoneCode: strings.TrimSpace(zoneCode), Location: loc}
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.ParseInLocation(dateInput, date, loc)
		if err != nil {
			return Scope{}, ErrInvalidDate
		}
		s.Date = &d
	}
	if facility = strings.TrimSpace(facility); facility != "" {
		id, err := strconv.ParseInt(facility, 10, 64)
		if err != nil {
			return Scope{}, &ValidationError{Field: "facility", Reason: "must be an integer id"}
		}
		s.FacilityID = &id
	}
	return s, nil
}

func (s Scope) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// DayBounds returns [00:00:00, 23:59:59.999999] of the date filter.
func (s Scope) DayBounds() (start, end time.Time, ok bool) {
	if s.Date == nil {
		return time.Time{}, time.Time{}, false
	}
	d := s.Date.In(s.loc())
	start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc())
	end = start.AddDate(0, 0, 1).Add(-time.Microsecond)
	return start, end, true
}

// DateString formats the date filter, or "" when absent.
func (s Scope) DateString() string {
	if s.Date == nil {
		return ""
	}
	return s.Date.In(s.loc()).Format(dateLayout)
}

// TimezoneName is the IANA name used for hour truncation.
func (s Scope) TimezoneName() string {
	return s.loc().String()
}

// Contains reports whether a timestamp falls on the date filter (always true without one).
func (s Scope) Contains(ts time.Time) bool {
	start, end, ok := s.DayBounds()
	if !ok {
		return true
	}
	return !ts.Before(start) && !ts.After(end)
}

// MatchesZone reports whether a zone passes the facility and zone-code filters.
func (s Scope) MatchesZone(z Zone) bool {
	if s.FacilityID != nil && z.FacilityID != *s.FacilityID {
		return false
	}
	if s.ZoneCode != "" && z.Code != s.ZoneCode {
		return false
	}
	return true
}
