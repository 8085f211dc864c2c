// Package convert translates between the legacy vCalendar 1.0 data model and
// the structured iCalendar 2.0 one. Every function is pure: it reads its
// arguments and returns freshly built values.
package convert

import (
	"time"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// DefaultTimezoneID is the TZID given to timezones built from a DAYLIGHT property.
const DefaultTimezoneID = "TZ1"

// DaylightToTimezone converts a DAYLIGHT property into a VTIMEZONE.
//
// The legacy format only records the DST offset, so the standard offset is
// assumed to be exactly one hour less. A descriptor that does not observe DST
// yields a timezone with no rules.
func DaylightToTimezone(d model.Daylight) model.Timezone {
	tz := model.Timezone{ID: DefaultTimezoneID}
	if !d.Observed {
		return tz
	}

	standard := StandardOffset(d)

	dst := model.Observance{
		Start:      d.Start,
		OffsetFrom: standard,
		OffsetTo:   d.Offset,
	}
	if d.DaylightName != "" {
		dst.Names = []string{d.DaylightName}
	}

	std := model.Observance{
		Start:      d.End,
		OffsetFrom: d.Offset,
		OffsetTo:   standard,
	}
	if d.StandardName != "" {
		std.Names = []string{d.StandardName}
	}

	tz.Daylight = []model.Observance{dst}
	tz.Standard = []model.Observance{std}
	return tz
}

// StandardOffset returns the standard-time offset of a DAYLIGHT descriptor,
// assumed to be exactly one hour less than its DST offset.
func StandardOffset(d model.Daylight) model.UtcOffset {
	// TODO: derive the standard offset from a VTIMEZONE in the same document
	// when one is available instead of assuming a one hour shift.
	return d.Offset.Add(-time.Hour)
}

// TimezoneToDaylights converts a VTIMEZONE into DAYLIGHT properties, pairing
// the i-th DAYLIGHT rule with the i-th STANDARD rule.
//
// A slot with no DAYLIGHT rule becomes a non-observed descriptor. A DAYLIGHT
// rule with no matching STANDARD rule is dropped.
func TimezoneToDaylights(tz model.Timezone) []model.Daylight {
	n := max(len(tz.Daylight), len(tz.Standard))
	daylights := make([]model.Daylight, 0, n)

	for i := 0; i < n; i++ {
		if i >= len(tz.Daylight) {
			daylights = append(daylights, model.Daylight{})
			continue
		}
		if i >= len(tz.Standard) {
			continue
		}

		dst, std := tz.Daylight[i], tz.Standard[i]
		daylights = append(daylights, model.Daylight{
			Observed:     true,
			Offset:       dst.OffsetTo,
			Start:        dst.Start,
			End:          std.Start,
			StandardName: std.FirstName(),
			DaylightName: dst.FirstName(),
		})
	}

	return daylights
}
