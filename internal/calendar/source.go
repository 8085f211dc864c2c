// Package calendar provides calendar sources and document output.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"

	ics "github.com/emersion/go-ical"
)

// Source is the interface that calendar sources must implement.
type Source interface {
	// Name returns the display name of this calendar source.
	Name() string

	// Fetch retrieves the source's calendar documents.
	Fetch(ctx context.Context) ([]*ics.Calendar, error)
}

// Decode reads every VCALENDAR in r. Both iCalendar 2.0 and vCalendar 1.0
// documents share the content-line syntax and decode the same way.
func Decode(r io.Reader) ([]*ics.Calendar, error) {
	dec := ics.NewDecoder(r)

	var cals []*ics.Calendar
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}
		cals = append(cals, cal)
	}

	if len(cals) == 0 {
		return nil, fmt.Errorf("decode calendar: no VCALENDAR found")
	}
	return cals, nil
}
