package pipeline

import (
	"log/slog"
	"strings"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/convert"
	"github.com/cpuguy83/vcalconv/internal/icalendar"
	"github.com/cpuguy83/vcalconv/internal/model"
	"github.com/cpuguy83/vcalconv/internal/vcalendar"
)

// zonedProps are the single-valued date-time properties whose TZID is folded
// into the value, since vCalendar 1.0 has no TZID parameter.
var zonedProps = []string{
	ics.PropDateTimeStart,
	ics.PropDateTimeEnd,
	ics.PropDue,
	ics.PropRecurrenceID,
}

// Downgrade converts an iCalendar 2.0 document into a vCalendar 1.0 one.
//
// VTIMEZONEs become DAYLIGHT properties on the calendar, ORGANIZER becomes
// ATTENDEE;ROLE=ORGANIZER and audio VALARMs become AALARM properties.
// Alarms with other actions are dropped and counted.
func Downgrade(cal *ics.Calendar, opts Options) (*ics.Calendar, Report, error) {
	var report Report
	out := newDocument(versionLegacy, opts)

	for _, child := range cal.Children {
		switch {
		case child.Name == ics.CompTimezone:
			downgradeTimezone(out, child, &report)
		case convertible(child):
			if !opts.included(child) {
				report.Filtered++
				continue
			}
			out.Children = append(out.Children, downgradeComponent(child, opts, &report))
			report.Components++
		default:
			slog.Debug("skipping component", "component", child.Name)
			report.SkippedComponents++
		}
	}

	return out, report, nil
}

func downgradeTimezone(out *ics.Calendar, comp *ics.Component, report *Report) {
	tz, err := icalendar.DecodeTimezone(comp)
	if err != nil {
		report.warn(err)
		return
	}
	for _, d := range convert.TimezoneToDaylights(tz) {
		out.Props.Add(vcalendar.EncodeDaylight(d))
		report.Timezones++
	}
}

func downgradeComponent(comp *ics.Component, opts Options, report *Report) *ics.Component {
	out := ics.NewComponent(comp.Name)
	copyProps(out, comp, ics.PropOrganizer, ics.PropAttendee)

	for _, name := range zonedProps {
		foldTimezone(out, name, report)
	}

	if prop := comp.Props.Get(ics.PropOrganizer); prop != nil {
		organizer := icalendar.DecodeOrganizer(prop)
		out.Props.Add(vcalendar.EncodeAttendee(convert.OrganizerToAttendee(organizer)))
		report.Organizers++
	}
	for i := range comp.Props[ics.PropAttendee] {
		attendee := icalendar.DecodeAttendee(&comp.Props[ics.PropAttendee][i])
		out.Props.Add(vcalendar.EncodeAttendee(attendee))
	}

	parent := icalendar.NewParent(comp)
	for _, child := range comp.Children {
		if child.Name != ics.CompAlarm {
			continue
		}

		alarm, err := icalendar.DecodeAlarm(child, icalendar.DecodeOptions{DefaultRelated: opts.DefaultRelated})
		if err != nil {
			report.warn(err)
			continue
		}

		aalarm, ok := convert.AlarmToAudioAlarm(alarm, parent)
		if !ok {
			slog.Debug("skipping alarm", "action", alarm.Action, "component", comp.Name)
			report.SkippedAlarms++
			continue
		}
		out.Props.Add(vcalendar.EncodeAudioAlarm(aalarm))
		report.Alarms++
	}

	return out
}

// foldTimezone rewrites a TZID-qualified date-time as UTC. Values whose TZID
// is not an IANA name keep their wall clock as floating time.
func foldTimezone(comp *ics.Component, name string, report *Report) {
	prop := comp.Props.Get(name)
	if prop == nil || prop.Params.Get(ics.ParamTimezoneID) == "" {
		return
	}
	if strings.EqualFold(prop.Params.Get(ics.ParamValue), "DATE") {
		prop.Params.Del(ics.ParamTimezoneID)
		return
	}

	t, err := icalendar.DateTime(prop)
	if err != nil {
		report.warn(err)
		return
	}
	prop.Params.Del(ics.ParamTimezoneID)
	prop.Value = model.FormatDateTime(t)
}
