package icalendar

import (
	"strings"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/model"
)

const mailto = "mailto:"

// DecodeAttendee reads an ATTENDEE property.
func DecodeAttendee(prop *ics.Prop) model.Attendee {
	email, uri := splitAddress(prop)
	return model.Attendee{
		CommonName: prop.Params.Get(ics.ParamCommonName),
		Email:      email,
		URI:        uri,
		Role:       model.Role(strings.ToUpper(prop.Params.Get(ics.ParamRole))),
		Params:     ParamsFrom(prop.Params, ics.ParamCommonName, ics.ParamRole, paramEmail),
	}
}

// EncodeAttendee builds an ATTENDEE property.
func EncodeAttendee(a model.Attendee) *ics.Prop {
	prop := ics.NewProp(ics.PropAttendee)
	ApplyParams(prop.Params, a.Params)
	if a.Role != "" {
		prop.Params.Set(ics.ParamRole, string(a.Role))
	}
	setAddress(prop, a.CommonName, a.Email, a.URI)
	return prop
}

// DecodeOrganizer reads an ORGANIZER property.
func DecodeOrganizer(prop *ics.Prop) model.Organizer {
	email, uri := splitAddress(prop)
	return model.Organizer{
		CommonName: prop.Params.Get(ics.ParamCommonName),
		Email:      email,
		URI:        uri,
		Params:     ParamsFrom(prop.Params, ics.ParamCommonName, paramEmail),
	}
}

// EncodeOrganizer builds an ORGANIZER property.
func EncodeOrganizer(o model.Organizer) *ics.Prop {
	prop := ics.NewProp(ics.PropOrganizer)
	ApplyParams(prop.Params, o.Params)
	// ROLE is not defined on ORGANIZER.
	prop.Params.Del(ics.ParamRole)
	setAddress(prop, o.CommonName, o.Email, o.URI)
	return prop
}

// splitAddress separates the e-mail address from the calendar user URI.
// An EMAIL parameter wins over a mailto: value.
func splitAddress(prop *ics.Prop) (email, uri string) {
	value := prop.Value
	if len(value) >= len(mailto) && strings.EqualFold(value[:len(mailto)], mailto) {
		email = value[len(mailto):]
	} else {
		uri = value
	}
	if param := prop.Params.Get(paramEmail); param != "" {
		if email != "" && email != param {
			uri = prop.Value
		}
		email = param
	}
	return email, uri
}

func setAddress(prop *ics.Prop, commonName, email, uri string) {
	if commonName != "" {
		prop.Params.Set(ics.ParamCommonName, commonName)
	}
	switch {
	case uri != "":
		prop.Value = uri
		if email != "" {
			prop.Params.Set(paramEmail, email)
		}
	case email != "":
		prop.Value = mailto + email
	}
}
