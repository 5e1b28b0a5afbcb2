package timeutil

import (
	"log"
	"time"
)

// Facility is the receiving facility's location. Defaults to Brasília time.
var Facility = brasilia()

func brasilia() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// No tzdata on the host
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// SetFacilityZone switches Facility to the named IANA zone. Unknown names
// keep the current location.
func SetFacilityZone(name string) {
	if name == "" {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[Config] Unknown timezone %q, keeping %s", name, Facility)
		return
	}
	Facility = loc
}

// Now returns the current time at the facility.
func Now() time.Time {
	return time.Now().In(Facility)
}

// Common layouts
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02/01/2006 15:04"
	DayLayout     = "02/01/2006"
)
