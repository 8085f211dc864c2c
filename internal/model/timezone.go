package model

import "time"

// Daylight is the legacy DAYLIGHT property: a single flattened daylight
// saving rule. When Observed is false every other field is meaningless.
type Daylight struct {
	Observed bool

	// Offset is the UTC offset while daylight saving time is in effect.
	Offset UtcOffset

	// Start and End are the transition instants into and out of DST.
	Start time.Time
	End   time.Time

	// StandardName and DaylightName are the zone abbreviations ("EST", "EDT").
	// Empty means absent.
	StandardName string
	DaylightName string
}

// Observance is one STANDARD or DAYLIGHT transition rule of a timezone.
type Observance struct {
	Start      time.Time
	OffsetFrom UtcOffset
	OffsetTo   UtcOffset
	Names      []string
}

// FirstName returns the first TZNAME of the rule, or "" when it has none.
func (o Observance) FirstName() string {
	if len(o.Names) == 0 {
		return ""
	}
	return o.Names[0]
}

// Timezone is a structured VTIMEZONE. Daylight[i] and Standard[i] are
// paired by position.
type Timezone struct {
	ID       string
	Daylight []Observance
	Standard []Observance
}

// Empty reports whether the timezone carries no rules at all.
func (tz Timezone) Empty() bool {
	return len(tz.Daylight) == 0 && len(tz.Standard) == 0
}
