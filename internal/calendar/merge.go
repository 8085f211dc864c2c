package calendar

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/vcalendar"
)

// Merge combines the children of several documents into one VCALENDAR that
// takes its properties from the first document. VTIMEZONEs are kept once per
// TZID.
func Merge(cals ...*ics.Calendar) *ics.Calendar {
	merged := ics.NewCalendar()
	if len(cals) == 0 {
		return merged
	}
	for name, props := range cals[0].Props {
		merged.Props[name] = append([]ics.Prop(nil), props...)
	}

	// Legacy documents carry DAYLIGHT on the calendar itself. Keep one per value.
	seenProps := make(map[string]bool)
	for _, p := range merged.Props[vcalendar.PropDaylight] {
		seenProps[p.Value] = true
	}

	seenTZ := make(map[string]bool)
	for i, cal := range cals {
		if i > 0 {
			for _, p := range cal.Props[vcalendar.PropDaylight] {
				if !seenProps[p.Value] {
					seenProps[p.Value] = true
					merged.Props.Add(&p)
				}
			}
		}
		for _, child := range cal.Children {
			if child.Name == ics.CompTimezone {
				id := child.Props.Get(ics.PropTimezoneID)
				if id != nil {
					if seenTZ[id.Value] {
						continue
					}
					seenTZ[id.Value] = true
				}
			}
			merged.Children = append(merged.Children, child)
		}
	}

	return merged
}

// Write encodes a document to path atomically.
// It writes to a temp file first, then renames to the final path.
func Write(path string, cal *ics.Calendar) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var buf bytes.Buffer
	if err := ics.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}

	// Write to temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up temp file on error
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Read decodes the documents stored at path.
func Read(path string) ([]*ics.Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
