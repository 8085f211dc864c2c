package icalendar

import (
	"fmt"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// DecodeTimezone reads a VTIMEZONE component. STANDARD and DAYLIGHT rules are
// kept in document order.
func DecodeTimezone(comp *ics.Component) (model.Timezone, error) {
	if comp.Name != ics.CompTimezone {
		return model.Timezone{}, fmt.Errorf("decode timezone: unexpected component %s", comp.Name)
	}

	var tz model.Timezone
	if prop := comp.Props.Get(ics.PropTimezoneID); prop != nil {
		tz.ID = prop.Value
	}

	for _, child := range comp.Children {
		switch child.Name {
		case ics.CompTimezoneDaylight:
			rule, err := decodeObservance(child)
			if err != nil {
				return tz, fmt.Errorf("decode timezone %s: %w", tz.ID, err)
			}
			tz.Daylight = append(tz.Daylight, rule)
		case ics.CompTimezoneStandard:
			rule, err := decodeObservance(child)
			if err != nil {
				return tz, fmt.Errorf("decode timezone %s: %w", tz.ID, err)
			}
			tz.Standard = append(tz.Standard, rule)
		}
	}

	return tz, nil
}

func decodeObservance(comp *ics.Component) (model.Observance, error) {
	var rule model.Observance

	if prop := comp.Props.Get(ics.PropDateTimeStart); prop != nil {
		t, err := DateTime(prop)
		if err != nil {
			return rule, propError(prop, err)
		}
		rule.Start = t
	}

	if prop := comp.Props.Get(ics.PropTimezoneOffsetFrom); prop != nil {
		off, err := model.ParseUtcOffset(prop.Value)
		if err != nil {
			return rule, propError(prop, err)
		}
		rule.OffsetFrom = off
	}

	if prop := comp.Props.Get(ics.PropTimezoneOffsetTo); prop != nil {
		off, err := model.ParseUtcOffset(prop.Value)
		if err != nil {
			return rule, propError(prop, err)
		}
		rule.OffsetTo = off
	}

	for _, prop := range comp.Props[ics.PropTimezoneName] {
		if prop.Value != "" {
			rule.Names = append(rule.Names, prop.Value)
		}
	}

	return rule, nil
}

// EncodeTimezone builds a VTIMEZONE component. Rules are emitted pairwise,
// DAYLIGHT before STANDARD.
func EncodeTimezone(tz model.Timezone) *ics.Component {
	comp := ics.NewComponent(ics.CompTimezone)
	comp.Props.SetText(ics.PropTimezoneID, tz.ID)

	n := max(len(tz.Daylight), len(tz.Standard))
	for i := 0; i < n; i++ {
		if i < len(tz.Daylight) {
			comp.Children = append(comp.Children, encodeObservance(ics.CompTimezoneDaylight, tz.Daylight[i]))
		}
		if i < len(tz.Standard) {
			comp.Children = append(comp.Children, encodeObservance(ics.CompTimezoneStandard, tz.Standard[i]))
		}
	}

	return comp
}

func encodeObservance(name string, rule model.Observance) *ics.Component {
	comp := ics.NewComponent(name)

	// DTSTART of an observance is always local time.
	start := ics.NewProp(ics.PropDateTimeStart)
	start.Value = model.FormatLocal(rule.Start)
	comp.Props.Set(start)

	from := ics.NewProp(ics.PropTimezoneOffsetFrom)
	from.Value = rule.OffsetFrom.Compact()
	comp.Props.Set(from)

	to := ics.NewProp(ics.PropTimezoneOffsetTo)
	to.Value = rule.OffsetTo.Compact()
	comp.Props.Set(to)

	for _, name := range rule.Names {
		prop := ics.NewProp(ics.PropTimezoneName)
		prop.SetText(name)
		comp.Props.Add(prop)
	}

	return comp
}
