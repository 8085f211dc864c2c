// Package pipeline converts whole calendar documents between vCalendar 1.0
// and iCalendar 2.0 and drives conversions for the configured sources.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	ics "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cpuguy83/vcalconv/internal/convert"
	"github.com/cpuguy83/vcalconv/internal/filter"
	"github.com/cpuguy83/vcalconv/internal/model"
)

// Document versions.
const (
	versionLegacy     = "1.0"
	versionStructured = "2.0"
)

// DefaultProductID is written when Options.ProductID is empty.
const DefaultProductID = "-//vcalconv//vcalconv//EN"

// Options controls a document conversion.
type Options struct {
	// ProductID is the PRODID of the output document.
	ProductID string

	// TimezoneID names the VTIMEZONEs built from DAYLIGHT properties.
	// Further timezones in the same document get "-2", "-3"... appended.
	TimezoneID string

	// DefaultRelated anchors relative VALARM triggers without RELATED.
	DefaultRelated model.Related

	// Filters select the VEVENT and VTODO components to convert. A
	// component must match every filter.
	Filters []*filter.Filter

	// Now and NewUID default to time.Now and uuid.NewString.
	Now    func() time.Time
	NewUID func() string
}

func (o Options) productID() string {
	if o.ProductID == "" {
		return DefaultProductID
	}
	return o.ProductID
}

func (o Options) timezoneID(n int) string {
	id := o.TimezoneID
	if id == "" {
		id = convert.DefaultTimezoneID
	}
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s-%d", id, n+1)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) newUID() string {
	if o.NewUID != nil {
		return o.NewUID()
	}
	return uuid.NewString()
}

func (o Options) included(comp *ics.Component) bool {
	for _, f := range o.Filters {
		if !f.Match(comp) {
			return false
		}
	}
	return true
}

// Report summarizes a conversion.
type Report struct {
	Components        int // VEVENT and VTODO components converted
	Filtered          int // components excluded by filters
	SkippedComponents int // other components that have no counterpart
	Timezones         int // VTIMEZONE components or DAYLIGHT properties written
	Alarms            int // alarms converted
	SkippedAlarms     int // alarms that could not be expressed in the target format
	Organizers        int // organizer identities moved between ORGANIZER and ATTENDEE

	// Warnings holds malformed values that were skipped.
	Warnings []error
}

func (r *Report) warn(err error) {
	slog.Warn("skipping malformed value", "error", err)
	r.Warnings = append(r.Warnings, err)
}

// Add accumulates other into r.
func (r *Report) Add(other Report) {
	r.Components += other.Components
	r.Filtered += other.Filtered
	r.SkippedComponents += other.SkippedComponents
	r.Timezones += other.Timezones
	r.Alarms += other.Alarms
	r.SkippedAlarms += other.SkippedAlarms
	r.Organizers += other.Organizers
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("components", r.Components),
		slog.Int("filtered", r.Filtered),
		slog.Int("skipped_components", r.SkippedComponents),
		slog.Int("timezones", r.Timezones),
		slog.Int("alarms", r.Alarms),
		slog.Int("skipped_alarms", r.SkippedAlarms),
		slog.Int("organizers", r.Organizers),
		slog.Int("warnings", len(r.Warnings)),
	)
}

// newDocument starts an output VCALENDAR.
func newDocument(version string, opts Options) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, version)
	cal.Props.SetText(ics.PropProductID, opts.productID())
	return cal
}

// copyProps copies every property of src except the skipped names. The
// copies own their parameters, so dst can be edited without touching src.
func copyProps(dst, src *ics.Component, skip ...string) {
	for name, props := range src.Props {
		if containsName(skip, name) {
			continue
		}
		copied := make([]ics.Prop, 0, len(props))
		for _, p := range props {
			params := make(ics.Params, len(p.Params))
			for k, v := range p.Params {
				params[k] = append([]string(nil), v...)
			}
			p.Params = params
			copied = append(copied, p)
		}
		dst.Props[name] = copied
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// convertible reports whether a component carries events or tasks.
func convertible(comp *ics.Component) bool {
	return comp.Name == ics.CompEvent || comp.Name == ics.CompToDo
}
