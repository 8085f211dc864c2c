package vcalendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/vcalconv/internal/model"
)

const legacyFixture = `BEGIN:VCALENDAR
VERSION:1.0
PRODID:-//Test//Test//EN
DAYLIGHT:TRUE;-04;19970406T020000;19971026T020000;EST;EDT
DAYLIGHT:FALSE
BEGIN:VEVENT
UID:evt-1
DTSTART:19970415T090000Z
AALARM;TYPE=WAVE;VALUE=URL:19960415T235959; ; ; file:///mmedia/taps.wav
AALARM;TYPE=PCM;VALUE=CONTENT-ID:19960415T235000;PT5M;3;<jsmith.part2.960901T083000.xyzMail@host1.com>
AALARM;ENCODING=BASE64;TYPE=WAVE:19960415T235959;;;UklGRg==
ATTENDEE;ROLE=ORGANIZER;STATUS=CONFIRMED:John Smith <jsmith@host.com>
ATTENDEE;ROLE=ATTENDEE:jdoe@host.com
END:VEVENT
END:VCALENDAR
`

func decodeLegacy(t *testing.T) *ics.Calendar {
	t.Helper()
	cal, err := ics.NewDecoder(strings.NewReader(legacyFixture)).Decode()
	require.NoError(t, err)
	return cal
}

func event(t *testing.T, cal *ics.Calendar) *ics.Component {
	t.Helper()
	for _, c := range cal.Children {
		if c.Name == ics.CompEvent {
			return c
		}
	}
	t.Fatal("no VEVENT")
	return nil
}

func TestDecodeDaylight(t *testing.T) {
	cal := decodeLegacy(t)
	props := cal.Props[PropDaylight]
	require.Len(t, props, 2)

	d, err := DecodeDaylight(&props[0])
	require.NoError(t, err)
	assert.True(t, d.Observed)
	assert.Equal(t, model.UtcOffset{Hour: -4}, d.Offset)
	assert.Equal(t, "19970406T020000", model.FormatDateTime(d.Start))
	assert.Equal(t, "19971026T020000", model.FormatDateTime(d.End))
	assert.Equal(t, "EST", d.StandardName)
	assert.Equal(t, "EDT", d.DaylightName)

	off, err := DecodeDaylight(&props[1])
	require.NoError(t, err)
	assert.Equal(t, model.Daylight{}, off)
}

func TestDecodeDaylight_Malformed(t *testing.T) {
	for _, value := range []string{"MAYBE", "TRUE;-04", "TRUE;east;19970406T020000;19971026T020000", "TRUE;-04;April;19971026T020000"} {
		t.Run(value, func(t *testing.T) {
			prop := ics.NewProp(PropDaylight)
			prop.Value = value
			_, err := DecodeDaylight(prop)
			assert.ErrorIs(t, err, ErrMalformedValue)
		})
	}
}

func TestEncodeDaylight(t *testing.T) {
	start, _ := model.ParseDateTime("19970406T020000")
	end, _ := model.ParseDateTime("19971026T020000")

	prop := EncodeDaylight(model.Daylight{
		Observed: true, Offset: model.UtcOffset{Hour: -4}, Start: start, End: end,
		StandardName: "EST", DaylightName: "EDT",
	})
	assert.Equal(t, "TRUE;-04;19970406T020000;19971026T020000;EST;EDT", prop.Value)

	prop = EncodeDaylight(model.Daylight{Observed: true, Offset: model.UtcOffset{Hour: 5, Minute: 30}, Start: start, End: end})
	assert.Equal(t, "TRUE;+05:30;19970406T020000;19971026T020000", prop.Value)

	back, err := DecodeDaylight(prop)
	require.NoError(t, err)
	assert.Equal(t, model.UtcOffset{Hour: 5, Minute: 30}, back.Offset)
	assert.Empty(t, back.StandardName)

	assert.Equal(t, "FALSE", EncodeDaylight(model.Daylight{}).Value)
}

func TestDecodeAudioAlarm(t *testing.T) {
	alarms := event(t, decodeLegacy(t)).Props[PropAudioAlarm]
	require.Len(t, alarms, 3)

	url, err := DecodeAudioAlarm(&alarms[0])
	require.NoError(t, err)
	assert.Equal(t, time.Date(1996, 4, 15, 23, 59, 59, 0, model.Floating), url.Start)
	assert.Nil(t, url.Snooze)
	assert.Nil(t, url.Repeat)
	assert.Equal(t, "file:///mmedia/taps.wav", url.URI)
	assert.Equal(t, "WAVE", url.Type())
	assert.Empty(t, url.Params.Get(paramValue))

	cid, err := DecodeAudioAlarm(&alarms[1])
	require.NoError(t, err)
	assert.Equal(t, "jsmith.part2.960901T083000.xyzMail@host1.com", cid.ContentID)
	assert.Equal(t, &model.Duration{Minutes: 5}, cid.Snooze)
	require.NotNil(t, cid.Repeat)
	assert.Equal(t, 3, *cid.Repeat)

	inline, err := DecodeAudioAlarm(&alarms[2])
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF"), inline.Data)
	assert.Empty(t, inline.Params.Get(paramEncoding))
}

func TestDecodeAudioAlarm_Sparse(t *testing.T) {
	prop := ics.NewProp(PropAudioAlarm)
	prop.Value = "19960415T235959"

	a, err := DecodeAudioAlarm(prop)
	require.NoError(t, err)
	assert.False(t, a.Start.IsZero())
	assert.Nil(t, a.Data)
	assert.Empty(t, a.URI)
	assert.Empty(t, a.ContentID)
}

func TestDecodeAudioAlarm_Malformed(t *testing.T) {
	for _, value := range []string{"tomorrow;;;", ";soon;;", ";;twice;"} {
		t.Run(value, func(t *testing.T) {
			prop := ics.NewProp(PropAudioAlarm)
			prop.Value = value
			_, err := DecodeAudioAlarm(prop)
			var verr *ValueError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, PropAudioAlarm, verr.Prop)
		})
	}
}

func TestEncodeAudioAlarm(t *testing.T) {
	start := time.Date(2026, 5, 1, 8, 45, 0, 0, time.UTC)
	repeat := 2
	tests := []struct {
		name      string
		in        model.AudioAlarm
		wantValue string
		wantType  string
	}{
		{
			name:      "url",
			in:        model.AudioAlarm{Start: start, URI: "file:///ding.wav", Params: model.Params{{Name: "TYPE", Values: []string{"WAVE"}}}},
			wantValue: "20260501T084500Z;;;file:///ding.wav",
			wantType:  valueURL,
		},
		{
			name:      "content id",
			in:        model.AudioAlarm{Start: start, ContentID: "abc", Snooze: &model.Duration{Minutes: 5}, Repeat: &repeat},
			wantValue: "20260501T084500Z;PT5M;2;abc",
			wantType:  valueContentID,
		},
		{
			name:      "inline",
			in:        model.AudioAlarm{Data: []byte("RIFF")},
			wantValue: ";;;UklGRg==",
			wantType:  valueInline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := EncodeAudioAlarm(tt.in)
			assert.Equal(t, tt.wantValue, prop.Value)
			assert.Equal(t, tt.wantType, prop.Params.Get(paramValue))

			back, err := DecodeAudioAlarm(prop)
			require.NoError(t, err)
			assert.Equal(t, tt.in.URI, back.URI)
			assert.Equal(t, tt.in.ContentID, back.ContentID)
			assert.Equal(t, tt.in.Data, back.Data)
			assert.Equal(t, tt.in.Type(), back.Type())
		})
	}
}

func TestAttendee(t *testing.T) {
	attendees := event(t, decodeLegacy(t)).Props[ics.PropAttendee]
	require.Len(t, attendees, 2)

	john := DecodeAttendee(&attendees[0])
	assert.Equal(t, "John Smith", john.CommonName)
	assert.Equal(t, "jsmith@host.com", john.Email)
	assert.Equal(t, model.RoleOrganizer, john.Role)
	assert.Equal(t, "CONFIRMED", john.Params.Get("STATUS"))
	assert.Empty(t, john.Params.Get(paramRole))

	jane := DecodeAttendee(&attendees[1])
	assert.Equal(t, "jdoe@host.com", jane.Email)
	assert.Equal(t, model.RoleAttendee, jane.Role)

	prop := EncodeAttendee(john)
	assert.Equal(t, "John Smith <jsmith@host.com>", prop.Value)
	assert.Equal(t, "ORGANIZER", prop.Params.Get(paramRole))
	assert.Equal(t, "CONFIRMED", prop.Params.Get("STATUS"))

	uri := DecodeAttendee(&ics.Prop{Name: ics.PropAttendee, Params: ics.Params{}, Value: "urn:uuid:1234"})
	assert.Equal(t, "urn:uuid:1234", uri.URI)
	assert.Equal(t, "urn:uuid:1234", EncodeAttendee(uri).Value)
}
