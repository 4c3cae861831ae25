package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/movietix/ticket-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their seats. A
// booking row groups one or more seat claims for a (movie, showtime)
// pair; the claims live in the booking_seats child table, whose unique
// index on (movie_name, show_time, seat_label) guarantees that a seat
// can be sold at most once per screening even under concurrent requests.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookedSeats returns the set of seat labels already claimed for the
// given movie and showtime. Matching is exact and case-sensitive (the
// schema uses a binary collation). The result is sorted and free of
// duplicates; an empty slice, not an error, is returned when no
// bookings exist. This is a read-only query recomputed on every call.
func (r *BookingRepo) BookedSeats(ctx context.Context, movieName, showTime string) ([]string, error) {
	const q = `SELECT seat_label FROM booking_seats
	           WHERE movie_name = ? AND show_time = ?
	           ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, q, movieName, showTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)
	seen := make(map[string]struct{})
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		seats = append(seats, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// Create persists a booking and its seat claims in one transaction and
// populates the generated ID and booking date on b. When the seat
// unique index rejects the insert because a concurrent booking claimed
// an overlapping seat first, the committed claims are re-read and the
// overlap is returned as a *SeatConflictError.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO bookings (booking_id, user_name, user_email, movie_name, show_time, total_amount)
	             VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.BookingID, b.UserName, b.UserEmail, b.MovieName, b.ShowTime, b.TotalAmount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Bulk insert the seat claims. The unique index on
	// (movie_name, show_time, seat_label) is the backstop against the
	// read-then-write race: the loser of two overlapping bookings fails
	// here instead of silently double-booking.
	query := `INSERT INTO booking_seats (booking_id, movie_name, show_time, seat_label) VALUES `
	args := make([]interface{}, 0, len(b.Seats)*4)
	for i, seat := range b.Seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, b.ID, b.MovieName, b.ShowTime, seat)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			_ = tx.Rollback()
			return r.seatConflict(ctx, b)
		}
		return err
	}

	// Read back the row to pick up the booking_date default.
	const sel = `SELECT booking_date FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.BookingDate); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// seatConflict re-reads the committed claims for b's screening and
// names the requested seats that overlap. Falls back to a generic
// conflict over all requested seats if the overlap cannot be computed
// (e.g. the duplicate key hit bookings.booking_id instead).
func (r *BookingRepo) seatConflict(ctx context.Context, b *model.Booking) error {
	booked, err := r.BookedSeats(ctx, b.MovieName, b.ShowTime)
	if err != nil {
		return &SeatConflictError{Seats: b.Seats}
	}
	taken := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		taken[s] = struct{}{}
	}
	conflicts := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		if _, ok := taken[s]; ok {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) == 0 {
		conflicts = b.Seats
	}
	return &SeatConflictError{Seats: conflicts}
}

// ListByUserEmail returns all bookings made under the given email,
// newest first. An empty slice, not an error, is returned when the user
// has no bookings.
func (r *BookingRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]model.Booking, error) {
	const q = `SELECT id, booking_id, user_name, user_email, movie_name, show_time, total_amount, booking_date
	           FROM bookings
	           WHERE user_email = ?
	           ORDER BY booking_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.BookingID, &b.UserName, &b.UserEmail,
			&b.MovieName, &b.ShowTime, &b.TotalAmount, &b.BookingDate); err != nil {
			return nil, err
		}
		b.Seats = []string{}
		index[b.ID] = len(bookings)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	// Populate seats for all bookings in a single query.
	ids := make([]interface{}, 0, len(bookings))
	placeholders := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		placeholders = append(placeholders, "?")
	}
	seatQuery := `SELECT booking_id, seat_label FROM booking_seats
	              WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY booking_id, seat_label`
	srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var label string
		if err := srows.Scan(&bid, &label); err != nil {
			return nil, err
		}
		idx, ok := index[bid]
		if !ok {
			continue
		}
		bookings[idx].Seats = append(bookings[idx].Seats, label)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
