package payment

import (
	"marketplace/internal/pkg/errs"
)

// Status is the settlement state of a payment.
//
// Pending is the only initial state. Settled and Refunded are terminal.
type Status int

const (
	// UnknownStatus is the invalid zero value.
	UnknownStatus Status = iota
	// Pending marks a payment created at order acceptance, awaiting delivery.
	Pending
	// Settled marks a payment finalized by a completed delivery.
	Settled
	// Refunded marks a payment returned after rejection or cancellation.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "Unknown",
		Pending:       "Pending",
		Settled:       "Settled",
		Refunded:      "Refunded",
	}
}

func getValidStatusStrings() map[string]Status {
	return map[string]Status{
		"Pending":  Pending,
		"Settled":  Settled,
		"Refunded": Refunded,
	}
}

// StatusFromString parses a persisted payment status.
func StatusFromString(name string) (Status, error) {
	if status, ok := getValidStatusStrings()[name]; ok {
		return status, nil
	}
	return UnknownStatus, errs.NewValueIsInvalidError("status")
}

// Validate checks the status is one of the defined non-zero values.
func (s Status) Validate() error {
	switch s {
	case Pending, Settled, Refunded:
		return nil
	case UnknownStatus:
		return errs.NewValueIsInvalidError("status")
	default:
		return errs.NewValueIsInvalidError("status")
	}
}

// String returns the status name, or "Unknown" for invalid values.
func (s Status) String() string {
	if name, ok := getStatusStrings()[s]; ok {
		return name
	}
	return getStatusStrings()[UnknownStatus]
}
