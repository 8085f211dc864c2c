package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/vcalconv/internal/model"
)

var (
	t0 = time.Date(2026, 4, 6, 2, 0, 0, 0, time.UTC)
	t1 = time.Date(2026, 10, 26, 2, 0, 0, 0, time.UTC)
)

func TestDaylightToTimezone_NotObserved(t *testing.T) {
	tz := DaylightToTimezone(model.Daylight{})
	assert.True(t, tz.Empty())
	assert.Equal(t, DefaultTimezoneID, tz.ID)
}

func TestDaylightToTimezone_Observed(t *testing.T) {
	d := model.Daylight{
		Observed:     true,
		Offset:       model.UtcOffset{Hour: -4},
		Start:        t0,
		End:          t1,
		StandardName: "EST",
		DaylightName: "EDT",
	}

	tz := DaylightToTimezone(d)
	require.Len(t, tz.Daylight, 1)
	require.Len(t, tz.Standard, 1)

	dst, std := tz.Daylight[0], tz.Standard[0]
	assert.Equal(t, t0, dst.Start)
	assert.Equal(t, model.UtcOffset{Hour: -5}, dst.OffsetFrom)
	assert.Equal(t, model.UtcOffset{Hour: -4}, dst.OffsetTo)
	assert.Equal(t, []string{"EDT"}, dst.Names)

	assert.Equal(t, t1, std.Start)
	assert.Equal(t, model.UtcOffset{Hour: -4}, std.OffsetFrom)
	assert.Equal(t, model.UtcOffset{Hour: -5}, std.OffsetTo)
	assert.Equal(t, []string{"EST"}, std.Names)
}

func TestStandardOffset(t *testing.T) {
	assert.Equal(t, model.UtcOffset{Hour: -5}, StandardOffset(model.Daylight{Offset: model.UtcOffset{Hour: -4}}))
	assert.Equal(t, model.UtcOffset{Hour: -9, Minute: -30}, StandardOffset(model.Daylight{Offset: model.UtcOffset{Hour: -8, Minute: -30}}))
}

func TestDaylightToTimezone_NoNames(t *testing.T) {
	tz := DaylightToTimezone(model.Daylight{Observed: true, Offset: model.UtcOffset{Hour: 2}, Start: t0, End: t1})
	require.Len(t, tz.Daylight, 1)
	assert.Empty(t, tz.Daylight[0].Names)
	assert.Empty(t, tz.Standard[0].Names)
}

func TestDaylightRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   model.Daylight
	}{
		{
			name: "with names",
			in: model.Daylight{
				Observed: true, Offset: model.UtcOffset{Hour: 5, Minute: 30},
				Start: t0, End: t1, StandardName: "IST", DaylightName: "IDT",
			},
		},
		{
			name: "without names",
			in:   model.Daylight{Observed: true, Offset: model.UtcOffset{Hour: -7}, Start: t0, End: t1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := TimezoneToDaylights(DaylightToTimezone(tt.in))
			require.Len(t, out, 1)
			assert.Equal(t, tt.in, out[0])
		})
	}
}

func TestTimezoneToDaylights_Pairing(t *testing.T) {
	rule := func(start time.Time, to int, names ...string) model.Observance {
		return model.Observance{Start: start, OffsetTo: model.UtcOffset{Hour: to}, Names: names}
	}

	t.Run("unpaired daylight rule is dropped", func(t *testing.T) {
		tz := model.Timezone{
			Daylight: []model.Observance{rule(t0, 2, "CEST"), rule(t0.AddDate(1, 0, 0), 2)},
			Standard: []model.Observance{rule(t1, 1, "CET", "MEZ")},
		}
		out := TimezoneToDaylights(tz)
		require.Len(t, out, 1)
		assert.Equal(t, model.Daylight{
			Observed:     true,
			Offset:       model.UtcOffset{Hour: 2},
			Start:        t0,
			End:          t1,
			StandardName: "CET",
			DaylightName: "CEST",
		}, out[0])
	})

	t.Run("missing daylight rule is not observed", func(t *testing.T) {
		tz := model.Timezone{
			Daylight: []model.Observance{rule(t0, 2)},
			Standard: []model.Observance{rule(t1, 1), rule(t1.AddDate(1, 0, 0), 1)},
		}
		out := TimezoneToDaylights(tz)
		require.Len(t, out, 2)
		assert.True(t, out[0].Observed)
		assert.Equal(t, model.Daylight{}, out[1])
	})

	t.Run("standard only", func(t *testing.T) {
		out := TimezoneToDaylights(model.Timezone{Standard: []model.Observance{rule(t1, 0)}})
		assert.Equal(t, []model.Daylight{{}}, out)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, TimezoneToDaylights(model.Timezone{}))
	})
}

func TestIdentityRoundTrip(t *testing.T) {
	params := model.Params{{Name: "X-PHONE", Values: []string{"555"}}}
	a := model.Attendee{
		CommonName: "Ada",
		Email:      "ada@example.com",
		URI:        "https://example.com/ada",
		Role:       model.RoleChair,
		Params:     params,
	}

	org := AttendeeToOrganizer(a)
	assert.Equal(t, model.Organizer{
		CommonName: "Ada", Email: "ada@example.com", URI: "https://example.com/ada", Params: params,
	}, org)

	back := OrganizerToAttendee(org)
	assert.Equal(t, a.CommonName, back.CommonName)
	assert.Equal(t, a.Email, back.Email)
	assert.Equal(t, a.URI, back.URI)
	assert.Equal(t, a.Params, back.Params)
	assert.Equal(t, model.RoleOrganizer, back.Role)

	back.Params.Set("X-PHONE", "999")
	assert.Equal(t, "555", a.Params.Get("X-PHONE"))
}

func TestOrganizerToAttendee_Empty(t *testing.T) {
	assert.Equal(t, model.Attendee{Role: model.RoleOrganizer}, OrganizerToAttendee(model.Organizer{}))
}

func TestEncodeAttachment(t *testing.T) {
	withType := model.Params{{Name: "TYPE", Values: []string{"WAVE"}}}

	tests := []struct {
		name string
		in   model.AudioAlarm
		want model.Attachment
	}{
		{
			name: "inline data wins",
			in:   model.AudioAlarm{Data: []byte{1, 2}, ContentID: "abc", URI: "file:///a.wav", Params: withType},
			want: model.Attachment{ContentType: "audio/wave", Data: []byte{1, 2}},
		},
		{
			name: "content id",
			in:   model.AudioAlarm{ContentID: "abc", URI: "file:///a.wav"},
			want: model.Attachment{URI: "CID:abc"},
		},
		{
			name: "uri",
			in:   model.AudioAlarm{URI: "file:///a.wav", Params: withType},
			want: model.Attachment{ContentType: "audio/wave", URI: "file:///a.wav"},
		},
		{
			name: "nothing",
			in:   model.AudioAlarm{},
			want: model.Attachment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeAttachment(tt.in))
		})
	}
}

func TestAttachmentContentIDRoundTrip(t *testing.T) {
	att := EncodeAttachment(model.AudioAlarm{ContentID: "abc"})
	assert.Equal(t, "CID:abc", att.URI)

	var out model.AudioAlarm
	DecodeAttachment(att, &out)
	assert.Equal(t, "abc", out.ContentID)
	assert.Empty(t, out.URI)
	assert.Nil(t, out.Data)
}

func TestDecodeAttachment(t *testing.T) {
	var out model.AudioAlarm
	DecodeAttachment(model.Attachment{ContentType: "audio/basic", URI: "cid:part1@host"}, &out)
	assert.Equal(t, "part1@host", out.ContentID)
	assert.Equal(t, "audio/basic", out.Type())

	out = model.AudioAlarm{}
	DecodeAttachment(model.Attachment{URI: "https://example.com/ding.wav"}, &out)
	assert.Equal(t, "https://example.com/ding.wav", out.URI)
	assert.Empty(t, out.Params.Get(model.ParamType))

	out = model.AudioAlarm{}
	DecodeAttachment(model.Attachment{Data: []byte("RIFF")}, &out)
	assert.Equal(t, []byte("RIFF"), out.Data)
	assert.Empty(t, out.URI)
}

type fakeParent struct {
	start    *time.Time
	end      *time.Time
	duration *model.Duration
	hasDur   bool
}

func (p fakeParent) Start() (time.Time, bool) {
	if p.start == nil {
		return time.Time{}, false
	}
	return *p.start, true
}

func (p fakeParent) End() (time.Time, bool) {
	if p.end == nil {
		return time.Time{}, false
	}
	return *p.end, true
}

func (p fakeParent) Duration() (*model.Duration, bool) {
	return p.duration, p.hasDur || p.duration != nil
}

func ptr[T any](v T) *T { return &v }

func TestResolveTrigger(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
	thirty := model.Duration{Minutes: 30}
	five := model.Duration{Minutes: 5}
	minusTen := model.Duration{Negative: true, Minutes: 10}

	tests := []struct {
		name    string
		trigger *model.Trigger
		parent  model.Parent
		want    time.Time
		wantOK  bool
	}{
		{
			name: "no trigger",
		},
		{
			name:    "absolute",
			trigger: model.AbsoluteTrigger(end),
			want:    end,
			wantOK:  true,
		},
		{
			name:    "neither date nor duration",
			trigger: &model.Trigger{Related: model.RelatedStart},
			parent:  fakeParent{start: &start},
		},
		{
			name:    "relative to start",
			trigger: model.RelativeTrigger(minusTen, model.RelatedStart),
			parent:  fakeParent{start: &start},
			want:    start.Add(-10 * time.Minute),
			wantOK:  true,
		},
		{
			name:    "relative to missing start",
			trigger: model.RelativeTrigger(minusTen, model.RelatedStart),
			parent:  fakeParent{end: &end},
		},
		{
			name:    "relative to end",
			trigger: model.RelativeTrigger(minusTen, model.RelatedEnd),
			parent:  fakeParent{start: &start, end: &end},
			want:    end.Add(-10 * time.Minute),
			wantOK:  true,
		},
		{
			name:    "end derived from start and duration",
			trigger: model.RelativeTrigger(five, model.RelatedEnd),
			parent:  fakeParent{start: &start, duration: &thirty},
			want:    start.Add(35 * time.Minute),
			wantOK:  true,
		},
		{
			name:    "end without duration",
			trigger: model.RelativeTrigger(five, model.RelatedEnd),
			parent:  fakeParent{start: &start},
		},
		{
			name:    "end without start",
			trigger: model.RelativeTrigger(five, model.RelatedEnd),
			parent:  fakeParent{duration: &thirty},
		},
		{
			name:    "unreadable end does not fall back",
			trigger: model.RelativeTrigger(five, model.RelatedEnd),
			parent:  fakeParent{start: &start, end: ptr(time.Time{}), duration: &thirty},
		},
		{
			name:    "unreadable duration",
			trigger: model.RelativeTrigger(five, model.RelatedEnd),
			parent:  fakeParent{start: &start, hasDur: true},
		},
		{
			name:    "unset relation",
			trigger: &model.Trigger{Duration: &five},
			parent:  fakeParent{start: &start, end: &end},
		},
		{
			name:    "no parent",
			trigger: model.RelativeTrigger(five, model.RelatedStart),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTrigger(tt.trigger, tt.parent)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAudioAlarmToAlarm(t *testing.T) {
	snooze := model.Duration{Minutes: 5}
	in := model.AudioAlarm{
		Start:  t0,
		Snooze: &snooze,
		Repeat: ptr(3),
		URI:    "file:///ding.wav",
		Params: model.Params{{Name: "TYPE", Values: []string{"PCM"}}},
	}

	alarm := AudioAlarmToAlarm(in)
	assert.Equal(t, model.ActionAudio, alarm.Action)
	require.NotNil(t, alarm.Trigger)
	assert.Equal(t, t0, alarm.Trigger.Date)
	assert.Nil(t, alarm.Trigger.Duration)
	assert.Equal(t, []model.Attachment{{ContentType: "audio/pcm", URI: "file:///ding.wav"}}, alarm.Attachments)
	assert.Equal(t, &snooze, alarm.Duration)
	assert.Equal(t, ptr(3), alarm.Repeat)
}

func TestAudioAlarmToAlarm_Sparse(t *testing.T) {
	alarm := AudioAlarmToAlarm(model.AudioAlarm{})
	require.NotNil(t, alarm.Trigger)
	assert.True(t, alarm.Trigger.Date.IsZero())
	assert.Nil(t, alarm.Duration)
	assert.Nil(t, alarm.Repeat)
	require.Len(t, alarm.Attachments, 1)
}

func TestAlarmToAudioAlarm(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	snooze := model.Duration{Minutes: 2}
	alarm := model.Alarm{
		Action:  model.ActionAudio,
		Trigger: model.RelativeTrigger(model.Duration{Negative: true, Minutes: 15}, model.RelatedStart),
		Attachments: []model.Attachment{
			{ContentType: "audio/wave", URI: "CID:first"},
			{URI: "file:///ignored.wav"},
		},
		Duration: &snooze,
		Repeat:   ptr(2),
	}

	aalarm, ok := AlarmToAudioAlarm(alarm, fakeParent{start: &start})
	require.True(t, ok)
	assert.Equal(t, start.Add(-15*time.Minute), aalarm.Start)
	assert.Equal(t, "first", aalarm.ContentID)
	assert.Empty(t, aalarm.URI)
	assert.Equal(t, "audio/wave", aalarm.Type())
	assert.Equal(t, &snooze, aalarm.Snooze)
	assert.Equal(t, ptr(2), aalarm.Repeat)
}

func TestAlarmToAudioAlarm_Unrepresentable(t *testing.T) {
	for _, action := range []model.Action{"", model.ActionDisplay, model.ActionEmail, "X-PROCEDURE"} {
		t.Run(string(action), func(t *testing.T) {
			_, ok := AlarmToAudioAlarm(model.Alarm{Action: action, Trigger: model.AbsoluteTrigger(t0)}, nil)
			assert.False(t, ok)
		})
	}
}

func TestAlarmToAudioAlarm_UnresolvedTrigger(t *testing.T) {
	aalarm, ok := AlarmToAudioAlarm(model.Alarm{Action: model.ActionAudio}, fakeParent{})
	require.True(t, ok)
	assert.True(t, aalarm.Start.IsZero())
	assert.Nil(t, aalarm.Snooze)
	assert.Nil(t, aalarm.Repeat)
	assert.Empty(t, aalarm.Params)
}
