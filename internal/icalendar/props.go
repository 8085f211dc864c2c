// Package icalendar maps iCalendar 2.0 components and properties, as decoded
// by go-ical, onto the converter model.
package icalendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// paramEmail is the RFC 7986 EMAIL parameter.
const paramEmail = "EMAIL"

// DateTime reads a DATE-TIME or DATE property, honouring its TZID parameter.
func DateTime(prop *ics.Prop) (time.Time, error) {
	tzid := prop.Params.Get(ics.ParamTimezoneID)
	if tzid == "" {
		return model.ParseDateTime(prop.Value)
	}
	loc, err := time.LoadLocation(tzid)
	if err != nil {
		// Unknown or custom TZIDs keep their wall clock.
		return model.ParseDateTime(prop.Value)
	}
	return model.ParseDateTimeIn(prop.Value, loc)
}

// SetDateTime writes t into prop. Times in a named IANA zone get a TZID
// parameter; floating times stay floating; anything else is written in UTC.
func SetDateTime(prop *ics.Prop, t time.Time) {
	prop.Params.Del(ics.ParamTimezoneID)
	if name := t.Location().String(); isZoneName(name) {
		prop.Params.Set(ics.ParamTimezoneID, name)
		prop.Value = model.FormatLocal(t)
		return
	}
	prop.Value = model.FormatDateTime(t)
}

func isZoneName(name string) bool {
	if !strings.Contains(name, "/") {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// NewDateTimeProp returns a new property holding t.
func NewDateTimeProp(name string, t time.Time) *ics.Prop {
	prop := ics.NewProp(name)
	SetDateTime(prop, t)
	return prop
}

// ParamsFrom copies go-ical parameters into an ordered bag, skipping the named
// ones. Names are sorted so the result does not depend on map iteration.
func ParamsFrom(params ics.Params, skip ...string) model.Params {
	names := make([]string, 0, len(params))
	for name := range params {
		if containsFold(skip, name) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	out := make(model.Params, 0, len(names))
	for _, name := range names {
		out = append(out, model.Param{
			Name:   strings.ToUpper(name),
			Values: append([]string(nil), params[name]...),
		})
	}
	return out
}

// ApplyParams copies an ordered bag onto go-ical parameters.
func ApplyParams(dst ics.Params, params model.Params) {
	for _, p := range params {
		dst[p.Name] = append([]string(nil), p.Values...)
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// PropError reports a property value that could not be read.
type PropError struct {
	Prop  string
	Value string
	Err   error
}

func (e *PropError) Error() string {
	return fmt.Sprintf("property %s %q: %v", e.Prop, e.Value, e.Err)
}

func (e *PropError) Unwrap() error {
	return e.Err
}

func propError(prop *ics.Prop, err error) error {
	return &PropError{Prop: prop.Name, Value: prop.Value, Err: err}
}
