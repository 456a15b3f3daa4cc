package policy

import (
	"strings"
	"time"
)

// Accepted date layouts, tried in order. Only the calendar date survives
// parsing; time of day and zone offset are dropped.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2.1.2006",
}

// Date is a calendar date without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses s with the accepted layouts. The date is taken as written,
// in the offset it was written in. Unparseable or empty input reports false.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return Date{Year: y, Month: m, Day: d}, true
	}
	return Date{}, false
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysSince returns the whole calendar days from d to today. Dates in the
// future yield negative values. Unix seconds are used because Duration
// saturates at about 292 years.
func (d Date) DaysSince(today Date) int {
	return int((today.midnight().Unix() - d.midnight().Unix()) / secondsPerDay)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.midnight().Format("2006-01-02")
}
