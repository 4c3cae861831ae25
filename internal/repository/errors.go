package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned by UserRepo.Create when the email column's
// unique index rejects the insert.
var ErrEmailExists = errors.New("email already exists")

// SeatConflictError reports which requested seats are already claimed
// for a (movie, showtime) pair. It is returned both by the pre-insert
// availability check and by the unique index on booking_seats when a
// concurrent booking wins the race.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return "Seats " + strings.Join(e.Seats, ", ") + " are already booked"
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
