package model

import "time"

// Booking is the persisted record of a completed seat reservation for a
// movie and showtime. Rows are written once by the booking endpoint and
// never mutated or deleted. The JSON tags match the client contract, so
// the repository type doubles as the response body.
type Booking struct {
	ID          uint64    `json:"-"`
	BookingID   string    `json:"bookingId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	MovieName   string    `json:"movieName"`
	Seats       []string  `json:"seats"`
	ShowTime    string    `json:"showTime"`
	TotalAmount float64   `json:"totalAmount"`
	BookingDate time.Time `json:"bookingDate"`
}
