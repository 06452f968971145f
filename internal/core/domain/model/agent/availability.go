package agent

import (
	"marketplace/internal/pkg/errs"
)

// Availability is the delivery agent's duty state.
//
// Available and Offline are set by the agent; Busy is system-managed and
// entered only through Reserve when an order is assigned. A Busy agent always
// carries exactly one active order id.
type Availability int

const (
	// UnknownAvailability is the invalid zero value.
	UnknownAvailability Availability = iota
	// Available marks an agent on duty and free to take an order.
	Available
	// Busy marks an agent currently bound to an active order.
	Busy
	// Offline marks an agent off duty.
	Offline
)

func getAvailabilityStrings() map[Availability]string {
	return map[Availability]string{
		UnknownAvailability: "Unknown",
		Available:           "Available",
		Busy:                "Busy",
		Offline:             "Offline",
	}
}

// getValidAvailabilityStrings excludes Unknown and Busy: Busy is entered
// through Reserve only and must never arrive from external input.
func getValidAvailabilityStrings() map[string]Availability {
	return map[string]Availability{
		"Available": Available,
		"Offline":   Offline,
	}
}

// AvailabilityFromString parses an externally supplied availability. Only
// Available and Offline are accepted.
func AvailabilityFromString(name string) (Availability, error) {
	if availability, ok := getValidAvailabilityStrings()[name]; ok {
		return availability, nil
	}
	return UnknownAvailability, errs.NewValueIsInvalidError("availability")
}

// Validate checks the availability is one of the defined non-zero values.
func (a Availability) Validate() error {
	switch a {
	case Available, Busy, Offline:
		return nil
	case UnknownAvailability:
		return errs.NewValueIsInvalidError("availability")
	default:
		return errs.NewValueIsInvalidError("availability")
	}
}

// String returns the availability name, or "Unknown" for invalid values.
func (a Availability) String() string {
	if name, ok := getAvailabilityStrings()[a]; ok {
		return name
	}
	return getAvailabilityStrings()[UnknownAvailability]
}
