package model

import "strings"

// The auditorium layout is a fixed 5x8 grid. Seat labels are a row
// letter (A-E) followed by a column number (1-8), e.g. "C4". The same
// 40 labels are reused for every movie and showtime; availability is
// scoped per (movie, showtime), not global.
const (
	SeatRows    = "ABCDE"
	SeatColumns = 8

	// MaxSeatsPerBooking caps how many seats a single booking may claim.
	MaxSeatsPerBooking = 6
)

// ValidSeatLabel reports whether s names a seat on the grid. Matching is
// strict: uppercase row letter, single column digit, no whitespace.
func ValidSeatLabel(s string) bool {
	if len(s) != 2 {
		return false
	}
	if strings.IndexByte(SeatRows, s[0]) < 0 {
		return false
	}
	return s[1] >= '1' && s[1] <= '0'+SeatColumns
}

// allSeatLabels returns every label on the grid in row-major order
// (A1..A8, B1..B8, ...).
func allSeatLabels() []string {
	labels := make([]string, 0, len(SeatRows)*SeatColumns)
	for i := 0; i < len(SeatRows); i++ {
		for col := 1; col <= SeatColumns; col++ {
			labels = append(labels, string(SeatRows[i])+string(rune('0'+col)))
		}
	}
	return labels
}
