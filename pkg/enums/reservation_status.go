package enums

import "fmt"

// ReservationStatus tags the two-phase lifecycle of a reservation.
// ACTIVE transitions to exactly one of DEDUCTED or RELEASED; both are
// terminal and there is no path back to ACTIVE.
type ReservationStatus string

const (
	ReservationStatusActive   ReservationStatus = "ACTIVE"
	ReservationStatusDeducted ReservationStatus = "DEDUCTED"
	ReservationStatusReleased ReservationStatus = "RELEASED"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusActive,
	ReservationStatusDeducted,
	ReservationStatusReleased,
}

// IsValid reports whether the value matches the canonical status enum.
func (s ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reservation can no longer change state.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusDeducted || s == ReservationStatusReleased
}

// ParseReservationStatus converts raw input into ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
