package pipeline

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/convert"
	"github.com/cpuguy83/vcalconv/internal/icalendar"
	"github.com/cpuguy83/vcalconv/internal/model"
	"github.com/cpuguy83/vcalconv/internal/vcalendar"
)

// legacyRenames maps vCalendar 1.0 property names onto iCalendar 2.0 ones.
var legacyRenames = map[string]string{
	"DCREATED": ics.PropCreated,
}

// Display, procedure and mail alarms have no converter.
var legacyAlarms = []string{"DALARM", "PALARM", "MALARM"}

var (
	errNoRunTime        = errors.New("audio alarm has no run time")
	errNoRunTimeAtStart = errors.New("audio alarm has no run time, ringing at start")
)

// Upgrade converts a vCalendar 1.0 document into an iCalendar 2.0 one.
//
// Observed DAYLIGHT properties become VTIMEZONE components, AALARM properties
// become audio VALARMs and the first ATTENDEE;ROLE=ORGANIZER becomes the
// ORGANIZER. Components missing UID or DTSTAMP get generated values.
func Upgrade(cal *ics.Calendar, opts Options) (*ics.Calendar, Report, error) {
	var report Report
	out := newDocument(versionStructured, opts)

	var zones []legacyZone
	for i := range cal.Props[vcalendar.PropDaylight] {
		d, err := vcalendar.DecodeDaylight(&cal.Props[vcalendar.PropDaylight][i])
		if err != nil {
			report.warn(err)
			continue
		}

		tz := convert.DaylightToTimezone(d)
		if tz.Empty() {
			continue
		}
		tz.ID = opts.timezoneID(len(zones))
		zones = append(zones, legacyZone{id: tz.ID, daylight: d})
		out.Children = append(out.Children, icalendar.EncodeTimezone(tz))
		report.Timezones++
	}

	// Floating times can only be pinned when the zone is unambiguous.
	var zone *legacyZone
	if len(zones) == 1 {
		zone = &zones[0]
	}

	for _, child := range cal.Children {
		if !convertible(child) {
			slog.Debug("skipping component", "component", child.Name)
			report.SkippedComponents++
			continue
		}

		// Filters see the upgraded component, so ORGANIZER and friends
		// are already in their iCalendar form.
		var componentReport Report
		upgraded := upgradeComponent(child, zone, opts, &componentReport)
		if !opts.included(upgraded) {
			report.Filtered++
			continue
		}
		out.Children = append(out.Children, upgraded)
		report.Add(componentReport)
		report.Components++
	}

	return out, report, nil
}

func upgradeComponent(comp *ics.Component, zone *legacyZone, opts Options, report *Report) *ics.Component {
	skip := append([]string{vcalendar.PropAudioAlarm, ics.PropAttendee}, legacyAlarms...)
	for name := range legacyRenames {
		skip = append(skip, name)
	}

	out := ics.NewComponent(comp.Name)
	copyProps(out, comp, skip...)

	for legacy, name := range legacyRenames {
		if props, ok := comp.Props[legacy]; ok && out.Props.Get(name) == nil {
			out.Props[name] = append([]ics.Prop(nil), props...)
			for i := range out.Props[name] {
				out.Props[name][i].Name = name
			}
		}
	}

	if zone != nil {
		for _, name := range zonedProps {
			pinFloating(out, name, zone.id)
		}
	}

	hasOrganizer := out.Props.Get(ics.PropOrganizer) != nil
	for i := range comp.Props[ics.PropAttendee] {
		attendee := vcalendar.DecodeAttendee(&comp.Props[ics.PropAttendee][i])
		if attendee.Role == model.RoleOrganizer && !hasOrganizer {
			out.Props.Set(icalendar.EncodeOrganizer(convert.AttendeeToOrganizer(attendee)))
			hasOrganizer = true
			report.Organizers++
			continue
		}
		out.Props.Add(icalendar.EncodeAttendee(attendee))
	}

	for i := range comp.Props[vcalendar.PropAudioAlarm] {
		prop := &comp.Props[vcalendar.PropAudioAlarm][i]
		aalarm, err := vcalendar.DecodeAudioAlarm(prop)
		if err != nil {
			report.warn(err)
			continue
		}
		if zone != nil {
			aalarm.Start = zone.localize(aalarm.Start)
		}

		alarm := convert.AudioAlarmToAlarm(aalarm)
		// VALARM requires a TRIGGER: an alarm without a run time rings at
		// the start of its component.
		if aalarm.Start.IsZero() {
			if comp.Props.Get(ics.PropDateTimeStart) == nil {
				report.warn(&vcalendar.ValueError{Prop: prop.Name, Value: prop.Value, Err: errNoRunTime})
				report.SkippedAlarms++
				continue
			}
			report.warn(&vcalendar.ValueError{Prop: prop.Name, Value: prop.Value, Err: errNoRunTimeAtStart})
			alarm.Trigger = model.RelativeTrigger(model.Duration{}, model.RelatedStart)
		}
		out.Children = append(out.Children, icalendar.EncodeAlarm(alarm))
		report.Alarms++
	}
	for _, name := range legacyAlarms {
		if n := len(comp.Props[name]); n > 0 {
			slog.Debug("skipping alarm", "property", name, "count", n, "component", comp.Name)
			report.SkippedAlarms += n
		}
	}

	if out.Props.Get(ics.PropUID) == nil {
		out.Props.SetText(ics.PropUID, opts.newUID())
	}
	if out.Props.Get(ics.PropDateTimeStamp) == nil {
		out.Props.Set(icalendar.NewDateTimeProp(ics.PropDateTimeStamp, opts.now().UTC()))
	}

	return out
}

// pinFloating attaches tzid to a floating date-time value.
func pinFloating(comp *ics.Component, name, tzid string) {
	prop := comp.Props.Get(name)
	if prop == nil || prop.Params.Get(ics.ParamTimezoneID) != "" {
		return
	}
	if !strings.Contains(prop.Value, "T") || strings.HasSuffix(strings.ToUpper(prop.Value), "Z") {
		return
	}
	prop.Params.Set(ics.ParamTimezoneID, tzid)
}

// legacyZone is the single timezone a DAYLIGHT property describes.
type legacyZone struct {
	id       string
	daylight model.Daylight
}

// localize reads a floating wall clock in the zone: the DST offset applies
// between the DAYLIGHT start and end, the standard offset elsewhere.
func (z legacyZone) localize(t time.Time) time.Time {
	if t.IsZero() || t.Location() != model.Floating {
		return t
	}

	d := z.daylight
	offset := convert.StandardOffset(d)
	if !d.Start.IsZero() && !d.End.IsZero() && !t.Before(d.Start) && t.Before(d.End) {
		offset = d.Offset
	}

	loc := time.FixedZone(z.id, offset.Minutes()*60)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
