// Package model defines the calendar entities shared by the legacy (vCalendar 1.0)
// and structured (iCalendar 2.0) sides of the converters.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UtcOffset is a signed hour/minute offset from UTC.
// Hour and Minute always carry the same sign.
type UtcOffset struct {
	Hour   int
	Minute int
}

// NewUtcOffset builds an offset from an explicit sign and unsigned parts.
func NewUtcOffset(negative bool, hour, minute int) UtcOffset {
	if negative {
		return UtcOffset{Hour: -hour, Minute: -minute}
	}
	return UtcOffset{Hour: hour, Minute: minute}
}

// OffsetFromMinutes builds a normalized offset from a total number of minutes.
func OffsetFromMinutes(total int) UtcOffset {
	return UtcOffset{Hour: total / 60, Minute: total % 60}
}

// Minutes returns the total signed offset in minutes.
func (o UtcOffset) Minutes() int {
	return o.Hour*60 + o.Minute
}

// Add shifts the offset by d, truncated to whole minutes.
func (o UtcOffset) Add(d time.Duration) UtcOffset {
	return OffsetFromMinutes(o.Minutes() + int(d/time.Minute))
}

// String formats the offset as ±HH:MM.
func (o UtcOffset) String() string {
	return o.format(":")
}

// Compact formats the offset as ±HHMM, the iCalendar utc-offset form.
func (o UtcOffset) Compact() string {
	return o.format("")
}

func (o UtcOffset) format(sep string) string {
	total := o.Minutes()
	sign := '+'
	if total < 0 {
		sign = '-'
		total = -total
	}
	return fmt.Sprintf("%c%02d%s%02d", sign, total/60, sep, total%60)
}

// ParseUtcOffset parses ±HH, ±HHMM, ±HH:MM (and the same forms with a
// trailing seconds component, which is ignored).
func ParseUtcOffset(s string) (UtcOffset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UtcOffset{}, fmt.Errorf("empty utc offset")
	}

	negative := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		negative = true
		s = s[1:]
	}

	digits := strings.ReplaceAll(s, ":", "")
	if len(digits) != 2 && len(digits) != 4 && len(digits) != 6 {
		return UtcOffset{}, fmt.Errorf("invalid utc offset %q", s)
	}

	hour, err := strconv.Atoi(digits[:2])
	if err != nil {
		return UtcOffset{}, fmt.Errorf("invalid utc offset hour %q: %w", s, err)
	}
	minute := 0
	if len(digits) >= 4 {
		minute, err = strconv.Atoi(digits[2:4])
		if err != nil {
			return UtcOffset{}, fmt.Errorf("invalid utc offset minute %q: %w", s, err)
		}
		if minute > 59 {
			return UtcOffset{}, fmt.Errorf("invalid utc offset minute %q", s)
		}
	}

	return NewUtcOffset(negative, hour, minute), nil
}
