package convert

import "github.com/cpuguy83/vcalconv/internal/model"

// AttendeeToOrganizer converts an ATTENDEE into an ORGANIZER. The role is dropped.
func AttendeeToOrganizer(a model.Attendee) model.Organizer {
	return model.Organizer{
		CommonName: a.CommonName,
		Email:      a.Email,
		URI:        a.URI,
		Params:     a.Params.Clone(),
	}
}

// OrganizerToAttendee converts an ORGANIZER into an ATTENDEE whose role is
// always ORGANIZER.
func OrganizerToAttendee(o model.Organizer) model.Attendee {
	return model.Attendee{
		CommonName: o.CommonName,
		Email:      o.Email,
		URI:        o.URI,
		Role:       model.RoleOrganizer,
		Params:     o.Params.Clone(),
	}
}
