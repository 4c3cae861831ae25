package utils

import (
	"crypto/rand"
	"strconv"
	"time"
)

// bookingIDAlphabet holds the characters allowed in the random suffix of
// a booking identifier (uppercase base-36).
const bookingIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingID generates a booking identifier of the form
// BK<unix-milliseconds><5 random uppercase alphanumerics>, e.g.
// "BK1719409816345X7Q2M". The timestamp plus random suffix makes a
// collision overwhelmingly unlikely; the unique index on
// bookings.booking_id catches the residual case at insert time.
func NewBookingID() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = bookingIDAlphabet[int(b)%len(bookingIDAlphabet)]
	}
	return "BK" + strconv.FormatInt(time.Now().UnixMilli(), 10) + string(buf), nil
}
