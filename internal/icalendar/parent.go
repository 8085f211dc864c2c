package icalendar

import (
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// Parent exposes the DTSTART, DTEND and DURATION of a VEVENT, VTODO or
// VJOURNAL to trigger resolution.
type Parent struct {
	comp *ics.Component
}

// NewParent wraps comp.
func NewParent(comp *ics.Component) Parent {
	return Parent{comp: comp}
}

// Start returns DTSTART.
func (p Parent) Start() (time.Time, bool) {
	return p.dateTime(ics.PropDateTimeStart)
}

// End returns DTEND.
func (p Parent) End() (time.Time, bool) {
	return p.dateTime(ics.PropDateTimeEnd)
}

// Duration returns DURATION.
func (p Parent) Duration() (*model.Duration, bool) {
	prop := p.comp.Props.Get(ics.PropDuration)
	if prop == nil {
		return nil, false
	}
	d, err := model.ParseDuration(prop.Value)
	if err != nil {
		return nil, true
	}
	return &d, true
}

func (p Parent) dateTime(name string) (time.Time, bool) {
	prop := p.comp.Props.Get(name)
	if prop == nil {
		return time.Time{}, false
	}
	t, err := DateTime(prop)
	if err != nil {
		return time.Time{}, true
	}
	return t, true
}

var _ model.Parent = Parent{}
