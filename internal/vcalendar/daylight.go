package vcalendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// PropDaylight is the vCalendar DAYLIGHT property.
const PropDaylight = "DAYLIGHT"

// DecodeDaylight reads a DAYLIGHT value such as
// "TRUE;-04;19970406T020000;19971026T020000;EST;EDT" or "FALSE".
func DecodeDaylight(prop *ics.Prop) (model.Daylight, error) {
	fields := splitFields(prop.Value, 6)

	switch strings.ToUpper(fields[0]) {
	case "FALSE", "":
		return model.Daylight{}, nil
	case "TRUE":
	default:
		return model.Daylight{}, valueError(prop, fmt.Errorf("flag %q is neither TRUE nor FALSE", fields[0]))
	}

	if len(fields) < 4 {
		return model.Daylight{}, valueError(prop, fmt.Errorf("want offset, start and end, got %d fields", len(fields)))
	}

	offset, err := model.ParseUtcOffset(fields[1])
	if err != nil {
		return model.Daylight{}, valueError(prop, err)
	}
	start, err := optionalDateTime(fields[2])
	if err != nil {
		return model.Daylight{}, valueError(prop, err)
	}
	end, err := optionalDateTime(fields[3])
	if err != nil {
		return model.Daylight{}, valueError(prop, err)
	}

	d := model.Daylight{
		Observed: true,
		Offset:   offset,
		Start:    start,
		End:      end,
	}
	if len(fields) > 4 {
		d.StandardName = fields[4]
	}
	if len(fields) > 5 {
		d.DaylightName = fields[5]
	}
	return d, nil
}

// EncodeDaylight builds a DAYLIGHT property.
func EncodeDaylight(d model.Daylight) *ics.Prop {
	prop := ics.NewProp(PropDaylight)
	if !d.Observed {
		prop.Value = "FALSE"
		return prop
	}

	fields := []string{
		"TRUE",
		formatOffset(d.Offset),
		optionalFormat(d.Start),
		optionalFormat(d.End),
	}
	if d.StandardName != "" || d.DaylightName != "" {
		fields = append(fields, d.StandardName, d.DaylightName)
	}
	prop.Value = strings.Join(fields, ";")
	return prop
}

// formatOffset writes ±HH, or ±HH:MM when the offset has minutes.
func formatOffset(o model.UtcOffset) string {
	s := o.String()
	if strings.HasSuffix(s, ":00") {
		return strings.TrimSuffix(s, ":00")
	}
	return s
}

func optionalDateTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return model.ParseDateTime(s)
}

func optionalFormat(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return model.FormatDateTime(t)
}

// splitFields splits a structured value on ';' into at most n trimmed fields.
func splitFields(value string, n int) []string {
	fields := strings.SplitN(value, ";", n)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func valueError(prop *ics.Prop, err error) error {
	return &ValueError{Prop: prop.Name, Value: prop.Value, Err: err}
}
