package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a signed RFC 5545 duration. Weeks and days are nominal:
// adding a day moves the wall clock to the same time on the next day.
type Duration struct {
	Negative bool
	Weeks    int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
}

// Add returns t shifted by the duration.
func (d Duration) Add(t time.Time) time.Time {
	sign := 1
	if d.Negative {
		sign = -1
	}
	days := d.Weeks*7 + d.Days
	if days != 0 {
		t = t.AddDate(0, 0, sign*days)
	}
	exact := time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
	return t.Add(time.Duration(sign) * exact)
}

// IsZero reports whether the duration spans no time.
func (d Duration) IsZero() bool {
	return d.Weeks == 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// String formats the duration in RFC 5545 dur-value form, e.g. -PT15M.
func (d Duration) String() string {
	var b strings.Builder
	if d.Negative && !d.IsZero() {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if d.IsZero() {
		b.WriteString("T0S")
		return b.String()
	}
	// The week form cannot be combined with other units.
	if d.Weeks > 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0 {
		fmt.Fprintf(&b, "%dW", d.Weeks)
		return b.String()
	}
	if days := d.Weeks*7 + d.Days; days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if d.Hours > 0 || d.Minutes > 0 || d.Seconds > 0 {
		b.WriteByte('T')
		if d.Hours > 0 {
			fmt.Fprintf(&b, "%dH", d.Hours)
		}
		if d.Minutes > 0 {
			fmt.Fprintf(&b, "%dM", d.Minutes)
		}
		if d.Seconds > 0 {
			fmt.Fprintf(&b, "%dS", d.Seconds)
		}
	}
	return b.String()
}

// ParseDuration parses an RFC 5545 dur-value such as "P1W", "-PT10M" or "P1DT2H".
func ParseDuration(s string) (Duration, error) {
	orig := s
	s = strings.ToUpper(strings.TrimSpace(s))

	var d Duration
	switch {
	case strings.HasPrefix(s, "-"):
		d.Negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 2 {
		return Duration{}, fmt.Errorf("invalid duration %q", orig)
	}
	s = s[1:]

	inTime := false
	units, timeUnits := 0, 0
	sawWeek := false
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
			continue
		case r == 'T':
			if inTime || num != "" {
				return Duration{}, fmt.Errorf("invalid duration %q", orig)
			}
			inTime = true
			continue
		}

		if num == "" {
			return Duration{}, fmt.Errorf("invalid duration %q: missing number before %q", orig, r)
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return Duration{}, fmt.Errorf("invalid duration %q: %w", orig, err)
		}
		num = ""

		units++
		if inTime {
			timeUnits++
		}

		switch {
		case r == 'W' && !inTime:
			sawWeek = true
			d.Weeks = n
		case r == 'D' && !inTime:
			d.Days = n
		case r == 'H' && inTime:
			d.Hours = n
		case r == 'M' && inTime:
			d.Minutes = n
		case r == 'S' && inTime:
			d.Seconds = n
		default:
			return Duration{}, fmt.Errorf("invalid duration %q: unexpected %q", orig, r)
		}
	}
	if num != "" {
		return Duration{}, fmt.Errorf("invalid duration %q: trailing number", orig)
	}
	if sawWeek && units > 1 {
		return Duration{}, fmt.Errorf("invalid duration %q: weeks cannot be combined with other units", orig)
	}
	if inTime && timeUnits == 0 {
		return Duration{}, fmt.Errorf("invalid duration %q: empty time part", orig)
	}
	return d, nil
}
