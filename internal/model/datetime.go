package model

import (
	"fmt"
	"strings"
	"time"
)

// Floating is the location of date-times that carry no zone information
// ("19970406T020000"). They keep their wall clock through conversions and are
// written back without a UTC designator.
var Floating = time.FixedZone("floating", 0)

const (
	layoutUTC      = "20060102T150405Z"
	layoutFloating = "20060102T150405"
	layoutDate     = "20060102"
)

// ParseDateTime parses a basic-format DATE-TIME or DATE value. Values ending in
// Z are UTC; everything else is floating.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return time.Time{}, fmt.Errorf("empty date-time")
	case strings.HasSuffix(s, "Z"):
		return time.Parse(layoutUTC, s)
	case strings.Contains(s, "T"):
		return time.ParseInLocation(layoutFloating, s, Floating)
	default:
		return time.ParseInLocation(layoutDate, s, Floating)
	}
}

// ParseDateTimeIn parses a local DATE-TIME value in loc.
func ParseDateTimeIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") || loc == nil {
		return ParseDateTime(s)
	}
	if !strings.Contains(s, "T") {
		return time.ParseInLocation(layoutDate, s, loc)
	}
	return time.ParseInLocation(layoutFloating, s, loc)
}

// FormatDateTime writes t in basic format. Floating times keep their wall
// clock; every other time is written in UTC.
func FormatDateTime(t time.Time) string {
	if t.Location() == Floating {
		return t.Format(layoutFloating)
	}
	return t.UTC().Format(layoutUTC)
}

// FormatLocal writes the wall clock of t without a zone designator.
func FormatLocal(t time.Time) string {
	return t.Format(layoutFloating)
}

// AsUTC returns t in UTC, reading a floating wall clock as UTC.
func AsUTC(t time.Time) time.Time {
	if t.Location() == Floating {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC()
}
