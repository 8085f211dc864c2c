package convert

import (
	"time"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// AudioAlarmToAlarm converts an AALARM property into an audio VALARM with an
// absolute trigger at the alarm's run time.
func AudioAlarmToAlarm(a model.AudioAlarm) model.Alarm {
	return model.Alarm{
		Action:      model.ActionAudio,
		Trigger:     model.AbsoluteTrigger(a.Start),
		Attachments: []model.Attachment{EncodeAttachment(a)},
		Duration:    cloneDuration(a.Snooze),
		Repeat:      cloneInt(a.Repeat),
	}
}

// AlarmToAudioAlarm converts a VALARM into an AALARM property. parent is the
// component holding the alarm and is used to resolve relative triggers.
//
// ok is false when the alarm cannot be expressed as an AALARM: the action is
// missing or is not AUDIO. DISPLAY and EMAIL alarms are not converted yet.
func AlarmToAudioAlarm(alarm model.Alarm, parent model.Parent) (aalarm model.AudioAlarm, ok bool) {
	if alarm.Action != model.ActionAudio {
		return model.AudioAlarm{}, false
	}

	if start, resolved := ResolveTrigger(alarm.Trigger, parent); resolved {
		aalarm.Start = start
	}

	// The legacy property holds a single payload.
	if len(alarm.Attachments) > 0 {
		DecodeAttachment(alarm.Attachments[0], &aalarm)
	}

	aalarm.Snooze = cloneDuration(alarm.Duration)
	aalarm.Repeat = cloneInt(alarm.Repeat)
	return aalarm, true
}

// ResolveTrigger computes the absolute time a trigger fires at.
//
// Relative triggers are anchored on the parent's DTSTART (RELATED=START) or
// DTEND (RELATED=END). Without a DTEND the end is derived from DTSTART plus
// the parent's DURATION. A trigger with no RELATED value does not resolve.
func ResolveTrigger(trigger *model.Trigger, parent model.Parent) (time.Time, bool) {
	if trigger == nil {
		return time.Time{}, false
	}
	if !trigger.Date.IsZero() {
		return trigger.Date, true
	}
	if trigger.Duration == nil || parent == nil {
		return time.Time{}, false
	}
	offset := *trigger.Duration

	switch trigger.Related {
	case model.RelatedStart:
		start, ok := parent.Start()
		if !ok || start.IsZero() {
			return time.Time{}, false
		}
		return offset.Add(start), true

	case model.RelatedEnd:
		if end, ok := parent.End(); ok {
			if end.IsZero() {
				return time.Time{}, false
			}
			return offset.Add(end), true
		}

		start, hasStart := parent.Start()
		length, hasLength := parent.Duration()
		if !hasStart || !hasLength || start.IsZero() || length == nil {
			return time.Time{}, false
		}
		return offset.Add(length.Add(start)), true
	}

	return time.Time{}, false
}

func cloneDuration(d *model.Duration) *model.Duration {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}
