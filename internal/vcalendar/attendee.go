package vcalendar

import (
	"fmt"
	"net/mail"
	"strings"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/icalendar"
	"github.com/cpuguy83/vcalconv/internal/model"
)

const paramRole = "ROLE"

// DecodeAttendee reads a vCalendar ATTENDEE. The value is an RFC 822 address
// ("Ada <ada@example.com>") or, failing that, a URI.
func DecodeAttendee(prop *ics.Prop) model.Attendee {
	a := model.Attendee{
		Role:   model.Role(strings.ToUpper(prop.Params.Get(paramRole))),
		Params: icalendar.ParamsFrom(prop.Params, paramRole),
	}

	value := strings.TrimSpace(prop.Value)
	if len(value) > 7 && strings.EqualFold(value[:7], "mailto:") {
		a.Email = value[7:]
		return a
	}
	if strings.Contains(value, "@") {
		if addr, err := mail.ParseAddress(value); err == nil {
			a.CommonName = addr.Name
			a.Email = addr.Address
			return a
		}
	}
	a.URI = value
	return a
}

// EncodeAttendee builds a vCalendar ATTENDEE.
func EncodeAttendee(a model.Attendee) *ics.Prop {
	prop := ics.NewProp(ics.PropAttendee)
	icalendar.ApplyParams(prop.Params, a.Params)
	if a.Role != "" {
		prop.Params.Set(paramRole, string(a.Role))
	}

	switch {
	case a.Email != "" && a.CommonName != "":
		prop.Value = fmt.Sprintf("%s <%s>", a.CommonName, a.Email)
	case a.Email != "":
		prop.Value = a.Email
	default:
		prop.Value = a.URI
	}
	return prop
}
