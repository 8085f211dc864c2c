package model

import "time"

// Action is the ACTION of a structured alarm.
type Action string

const (
	ActionAudio   Action = "AUDIO"
	ActionDisplay Action = "DISPLAY"
	ActionEmail   Action = "EMAIL"
)

// Related names the anchor of a relative trigger.
type Related string

const (
	RelatedStart Related = "START"
	RelatedEnd   Related = "END"
)

// Trigger is the timing of an alarm: either an absolute Date, or a Duration
// measured from the Related anchor of the owning component.
type Trigger struct {
	Date     time.Time
	Duration *Duration
	Related  Related
}

// AbsoluteTrigger returns a trigger firing at t.
func AbsoluteTrigger(t time.Time) *Trigger {
	return &Trigger{Date: t}
}

// RelativeTrigger returns a trigger firing d after the related anchor.
func RelativeTrigger(d Duration, related Related) *Trigger {
	return &Trigger{Duration: &d, Related: related}
}

// Attachment is an alarm payload: inline data or a URI.
type Attachment struct {
	ContentType string
	Data        []byte
	URI         string
}

// InlineAttachment returns an attachment carrying data directly.
func InlineAttachment(contentType string, data []byte) Attachment {
	return Attachment{ContentType: contentType, Data: data}
}

// URIAttachment returns an attachment referencing uri.
func URIAttachment(contentType, uri string) Attachment {
	return Attachment{ContentType: contentType, URI: uri}
}

// Inline reports whether the attachment carries its data directly.
func (a Attachment) Inline() bool {
	return a.Data != nil
}

// Alarm is a structured VALARM component.
type Alarm struct {
	Action      Action
	Trigger     *Trigger
	Attachments []Attachment
	Duration    *Duration
	Repeat      *int
}

// AudioAlarm is the legacy AALARM property.
type AudioAlarm struct {
	// Start is the run time. The zero time means absent.
	Start time.Time

	Snooze *Duration
	Repeat *int

	// Audio content: at most one of these is normally set.
	Data      []byte
	ContentID string
	URI       string

	// Params holds the TYPE parameter and anything else the property carried.
	Params Params
}

// Type returns the TYPE parameter (e.g. "WAVE").
func (a AudioAlarm) Type() string {
	return a.Params.Get(ParamType)
}

// Parent is the read-only view of the event, to-do or journal owning an
// alarm. Each accessor reports whether the property is present; a present
// property whose value could not be read yields the zero value and true.
type Parent interface {
	Start() (time.Time, bool)
	End() (time.Time, bool)
	Duration() (*Duration, bool)
}
