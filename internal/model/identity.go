package model

// Role is a participation role of an attendee.
type Role string

const (
	RoleOrganizer      Role = "ORGANIZER"
	RoleAttendee       Role = "ATTENDEE"
	RoleOwner          Role = "OWNER"
	RoleDelegate       Role = "DELEGATE"
	RoleChair          Role = "CHAIR"
	RoleRequired       Role = "REQ-PARTICIPANT"
	RoleOptional       Role = "OPT-PARTICIPANT"
	RoleNonParticipant Role = "NON-PARTICIPANT"
)

// Attendee is a calendar participant with an optional role.
type Attendee struct {
	CommonName string
	Email      string
	URI        string
	Role       Role

	// Params holds every parameter not modelled above.
	Params Params
}

// Organizer is the calendar participant who owns an event. It has no role.
type Organizer struct {
	CommonName string
	Email      string
	URI        string
	Params     Params
}
