package icalendar

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/model"
)

// DecodeOptions tunes how components are read.
type DecodeOptions struct {
	// DefaultRelated is used for relative triggers without a RELATED
	// parameter. Empty leaves the relation unset, so such triggers do not
	// resolve to an absolute time.
	DefaultRelated model.Related
}

// DecodeAlarm reads a VALARM component.
func DecodeAlarm(comp *ics.Component, opts DecodeOptions) (model.Alarm, error) {
	if comp.Name != ics.CompAlarm {
		return model.Alarm{}, fmt.Errorf("decode alarm: unexpected component %s", comp.Name)
	}

	var alarm model.Alarm

	if prop := comp.Props.Get(ics.PropAction); prop != nil {
		alarm.Action = model.Action(strings.ToUpper(strings.TrimSpace(prop.Value)))
	}

	if prop := comp.Props.Get(ics.PropTrigger); prop != nil {
		trigger, err := decodeTrigger(prop, opts)
		if err != nil {
			return alarm, err
		}
		alarm.Trigger = trigger
	}

	for i := range comp.Props[ics.PropAttach] {
		att, err := decodeAttachment(&comp.Props[ics.PropAttach][i])
		if err != nil {
			return alarm, err
		}
		alarm.Attachments = append(alarm.Attachments, att)
	}

	if prop := comp.Props.Get(ics.PropDuration); prop != nil {
		d, err := model.ParseDuration(prop.Value)
		if err != nil {
			return alarm, propError(prop, err)
		}
		alarm.Duration = &d
	}

	if prop := comp.Props.Get(ics.PropRepeat); prop != nil {
		n, err := strconv.Atoi(strings.TrimSpace(prop.Value))
		if err != nil {
			return alarm, propError(prop, err)
		}
		alarm.Repeat = &n
	}

	return alarm, nil
}

func decodeTrigger(prop *ics.Prop, opts DecodeOptions) (*model.Trigger, error) {
	if strings.EqualFold(prop.Params.Get(ics.ParamValue), "DATE-TIME") {
		t, err := DateTime(prop)
		if err != nil {
			return nil, propError(prop, err)
		}
		return model.AbsoluteTrigger(t), nil
	}

	d, err := model.ParseDuration(prop.Value)
	if err != nil {
		// Some producers omit VALUE=DATE-TIME on absolute triggers.
		if t, terr := DateTime(prop); terr == nil {
			return model.AbsoluteTrigger(t), nil
		}
		return nil, propError(prop, err)
	}

	related := model.Related(strings.ToUpper(prop.Params.Get(ics.ParamRelated)))
	if related == "" {
		related = opts.DefaultRelated
	}
	return model.RelativeTrigger(d, related), nil
}

func decodeAttachment(prop *ics.Prop) (model.Attachment, error) {
	contentType := prop.Params.Get(ics.ParamFormatType)

	binary := strings.EqualFold(prop.Params.Get(ics.ParamValue), "BINARY") ||
		strings.EqualFold(prop.Params.Get(ics.ParamEncoding), "BASE64")
	if !binary {
		return model.URIAttachment(contentType, prop.Value), nil
	}

	data, err := base64.StdEncoding.DecodeString(prop.Value)
	if err != nil {
		return model.Attachment{}, propError(prop, err)
	}
	return model.InlineAttachment(contentType, data), nil
}

// EncodeAlarm builds a VALARM component. Absolute triggers are written in UTC.
func EncodeAlarm(alarm model.Alarm) *ics.Component {
	comp := ics.NewComponent(ics.CompAlarm)

	if alarm.Action != "" {
		comp.Props.SetText(ics.PropAction, string(alarm.Action))
	}

	if tr := alarm.Trigger; tr != nil {
		prop := ics.NewProp(ics.PropTrigger)
		switch {
		case !tr.Date.IsZero():
			prop.Params.Set(ics.ParamValue, "DATE-TIME")
			prop.Value = model.FormatDateTime(model.AsUTC(tr.Date))
			comp.Props.Set(prop)
		case tr.Duration != nil:
			if tr.Related != "" {
				prop.Params.Set(ics.ParamRelated, string(tr.Related))
			}
			prop.Value = tr.Duration.String()
			comp.Props.Set(prop)
		}
	}

	for _, att := range alarm.Attachments {
		prop := ics.NewProp(ics.PropAttach)
		if att.ContentType != "" {
			prop.Params.Set(ics.ParamFormatType, att.ContentType)
		}
		if att.Inline() {
			prop.Params.Set(ics.ParamEncoding, "BASE64")
			prop.Params.Set(ics.ParamValue, "BINARY")
			prop.Value = base64.StdEncoding.EncodeToString(att.Data)
		} else {
			prop.Value = att.URI
		}
		comp.Props.Add(prop)
	}

	if alarm.Duration != nil {
		prop := ics.NewProp(ics.PropDuration)
		prop.Value = alarm.Duration.String()
		comp.Props.Set(prop)
	}

	if alarm.Repeat != nil {
		prop := ics.NewProp(ics.PropRepeat)
		prop.Value = strconv.Itoa(*alarm.Repeat)
		comp.Props.Set(prop)
	}

	return comp
}
