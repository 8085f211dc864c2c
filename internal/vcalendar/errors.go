// Package vcalendar reads and writes the flattened vCalendar 1.0 properties
// (DAYLIGHT, AALARM, ATTENDEE) that the converters work on.
package vcalendar

import (
	"errors"
	"fmt"
)

// ErrMalformedValue is returned for legacy property values that cannot be read.
var ErrMalformedValue = errors.New("malformed vCalendar value")

// ValueError describes a malformed legacy property value.
type ValueError struct {
	Prop  string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q: %v", e.Prop, e.Value, ErrMalformedValue)
	}
	return fmt.Sprintf("%s %q: %v", e.Prop, e.Value, e.Err)
}

// Is reports ErrMalformedValue for every ValueError.
func (e *ValueError) Is(target error) bool {
	return target == ErrMalformedValue
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
