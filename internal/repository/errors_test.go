package repository

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeatConflictErrorMessage(t *testing.T) {
	err := &SeatConflictError{Seats: []string{"A2", "A3"}}
	want := "Seats A2, A3 are already booked"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var sc *SeatConflictError
	if !errors.As(error(err), &sc) {
		t.Fatal("errors.As failed to match *SeatConflictError")
	}
	if len(sc.Seats) != 2 || sc.Seats[0] != "A2" {
		t.Errorf("conflicting seats = %v, want [A2 A3]", sc.Seats)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	dup := fmt.Errorf("Error 1062 (23000): Duplicate entry 'Dune-18:00-A2' for key 'uniq_screening_seat'")
	if !isDuplicateKey(dup) {
		t.Error("MySQL 1062 error not recognized as duplicate key")
	}
	if isDuplicateKey(errors.New("connection refused")) {
		t.Error("unrelated error misclassified as duplicate key")
	}
	if isDuplicateKey(nil) {
		t.Error("nil error misclassified as duplicate key")
	}
}
