// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// persisted. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   string   `json:"booking_id"`
	UserName    string   `json:"user_name"`
	UserEmail   string   `json:"user_email"`
	MovieName   string   `json:"movie_name"`
	Seats       []string `json:"seats"`
	ShowTime    string   `json:"show_time"`
	TotalAmount float64  `json:"total_amount"`
	ConfirmedAt string   `json:"confirmed_at"`
}
