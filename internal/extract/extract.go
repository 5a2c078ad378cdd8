// Package extract locates single fields inside tagesschau.de archive pages, show pages and
// media metadata. Extractors are pure: they never fetch, and they report a missing structural
// element by wrapping ErrAbsent so callers can tell "not found" from "found but empty".
package extract

import (
	"errors"
	"time"
	_ "time/tzdata"
)

var (
	// ErrAbsent marks a field whose element, attribute or key could not be located.
	ErrAbsent = errors.New("field absent")
	// ErrDecode is returned when an embedded payload that must be JSON is not.
	ErrDecode = errors.New("decode embedded payload")
)

const berlinTimezoneCode = "Europe/Berlin"

var berlinTZ *time.Location

func init() {
	var err error
	berlinTZ, err = time.LoadLocation(berlinTimezoneCode)
	if err != nil {
		berlinTZ = time.UTC
	}
}

// Berlin returns the broadcaster's timezone.
func Berlin() *time.Location {
	return berlinTZ
}
