package vcalendar

import (
	"encoding/base64"
	"strconv"
	"strings"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/icalendar"
	"github.com/cpuguy83/vcalconv/internal/model"
)

// PropAudioAlarm is the vCalendar AALARM property.
const PropAudioAlarm = "AALARM"

const (
	paramValue    = "VALUE"
	paramEncoding = "ENCODING"

	valueURL       = "URL"
	valueContentID = "CONTENT-ID"
	valueInline    = "INLINE"
	encodingBase64 = "BASE64"
)

// DecodeAudioAlarm reads an AALARM value of the form
// "runTime;snoozeTime;repeatCount;audioContent". Every field may be empty.
//
// The audio content is a URL for VALUE=URL, a content ID for
// VALUE=CONTENT-ID and inline data otherwise. Inline content without a
// VALUE parameter that looks like a URL is read as one.
func DecodeAudioAlarm(prop *ics.Prop) (model.AudioAlarm, error) {
	fields := splitFields(prop.Value, 4)
	for len(fields) < 4 {
		fields = append(fields, "")
	}

	var a model.AudioAlarm

	start, err := optionalDateTime(fields[0])
	if err != nil {
		return a, valueError(prop, err)
	}
	a.Start = start

	if fields[1] != "" {
		d, err := model.ParseDuration(fields[1])
		if err != nil {
			return a, valueError(prop, err)
		}
		a.Snooze = &d
	}

	if fields[2] != "" {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return a, valueError(prop, err)
		}
		a.Repeat = &n
	}

	content := fields[3]
	valueType := strings.ToUpper(prop.Params.Get(paramValue))
	base64Encoded := strings.EqualFold(prop.Params.Get(paramEncoding), encodingBase64)

	switch {
	case content == "":
	case valueType == valueURL:
		a.URI = content
	case valueType == valueContentID:
		a.ContentID = strings.TrimSuffix(strings.TrimPrefix(content, "<"), ">")
	case base64Encoded:
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return a, valueError(prop, err)
		}
		a.Data = data
	case valueType == "" && strings.Contains(content, "://"):
		a.URI = content
	default:
		a.Data = []byte(content)
	}

	a.Params = icalendar.ParamsFrom(prop.Params, paramValue, paramEncoding)
	return a, nil
}

// EncodeAudioAlarm builds an AALARM property. Inline data is base64 encoded.
func EncodeAudioAlarm(a model.AudioAlarm) *ics.Prop {
	prop := ics.NewProp(PropAudioAlarm)
	icalendar.ApplyParams(prop.Params, a.Params)

	var content string
	switch {
	case a.Data != nil:
		prop.Params.Set(paramValue, valueInline)
		prop.Params.Set(paramEncoding, encodingBase64)
		content = base64.StdEncoding.EncodeToString(a.Data)
	case a.ContentID != "":
		prop.Params.Set(paramValue, valueContentID)
		content = a.ContentID
	case a.URI != "":
		prop.Params.Set(paramValue, valueURL)
		content = a.URI
	}

	var snooze, repeat string
	if a.Snooze != nil {
		snooze = a.Snooze.String()
	}
	if a.Repeat != nil {
		repeat = strconv.Itoa(*a.Repeat)
	}

	prop.Value = strings.Join([]string{optionalFormat(a.Start), snooze, repeat, content}, ";")
	return prop
}
