package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/movietix/ticket-booking/internal/model"
)

// Integration tests run against a real MySQL instance loaded with
// db/schema.sql. Set TICKET_BOOKING_TEST_DSN, e.g.
// "movietix@tcp(127.0.0.1:3306)/ticket_booking_test?parseTime=true&collation=utf8mb4_bin".
var testDB *sql.DB

func TestMain(m *testing.M) {
	code, err := run(m)
	if err != nil {
		fmt.Println(err)
	}
	os.Exit(code)
}

func run(m *testing.M) (int, error) {
	dsn := os.Getenv("TICKET_BOOKING_TEST_DSN")
	if dsn != "" {
		var err error
		testDB, err = sql.Open("mysql", dsn)
		if err != nil {
			return -1, fmt.Errorf("could not connect to database: %w", err)
		}
		defer testDB.Close()
	}
	return m.Run(), nil
}

func requireDB(t *testing.T) *BookingRepo {
	t.Helper()
	if testDB == nil {
		t.Skip("TICKET_BOOKING_TEST_DSN not set; skipping integration test")
	}
	return NewBookingRepo(testDB)
}

// uniqueScreening returns a movie name no other test run has used, so
// the seat unique index never collides across runs.
func uniqueScreening(t *testing.T) (string, string) {
	t.Helper()
	return fmt.Sprintf("Dune-%s-%d", t.Name(), time.Now().UnixNano()), "18:00"
}

func mustCreate(t *testing.T, repo *BookingRepo, movie, show string, seats []string) *model.Booking {
	t.Helper()
	b := &model.Booking{
		BookingID:   fmt.Sprintf("BK%d", time.Now().UnixNano()),
		UserName:    "Alice",
		UserEmail:   "a@x.com",
		MovieName:   movie,
		Seats:       seats,
		ShowTime:    show,
		TotalAmount: 250 * float64(len(seats)),
	}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("Create(%v): %v", seats, err)
	}
	return b
}

func TestBookedSeatsEmptyScreening(t *testing.T) {
	repo := requireDB(t)
	movie, show := uniqueScreening(t)

	booked, err := repo.BookedSeats(context.Background(), movie, show)
	if err != nil {
		t.Fatalf("BookedSeats: %v", err)
	}
	if booked == nil || len(booked) != 0 {
		t.Errorf("BookedSeats = %v, want empty non-nil slice", booked)
	}
}

func TestCreateThenBookedSeatsUnion(t *testing.T) {
	repo := requireDB(t)
	movie, show := uniqueScreening(t)

	mustCreate(t, repo, movie, show, []string{"A1", "A2"})
	mustCreate(t, repo, movie, show, []string{"B3"})

	booked, err := repo.BookedSeats(context.Background(), movie, show)
	if err != nil {
		t.Fatalf("BookedSeats: %v", err)
	}
	if !reflect.DeepEqual(booked, []string{"A1", "A2", "B3"}) {
		t.Errorf("BookedSeats = %v, want [A1 A2 B3]", booked)
	}

	// Same seats under a different showtime stay available.
	other, err := repo.BookedSeats(context.Background(), movie, "21:00")
	if err != nil {
		t.Fatalf("BookedSeats: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("BookedSeats for other showtime = %v, want empty", other)
	}
}

func TestCreateSeatConflict(t *testing.T) {
	repo := requireDB(t)
	movie, show := uniqueScreening(t)

	mustCreate(t, repo, movie, show, []string{"A1", "A2"})

	conflict := &model.Booking{
		BookingID:   fmt.Sprintf("BK%d", time.Now().UnixNano()),
		UserName:    "Bob",
		UserEmail:   "b@x.com",
		MovieName:   movie,
		Seats:       []string{"A2", "A3"},
		ShowTime:    show,
		TotalAmount: 500,
	}
	err := repo.Create(context.Background(), conflict)
	var sc *SeatConflictError
	if !errors.As(err, &sc) {
		t.Fatalf("Create with overlapping seat returned %v, want *SeatConflictError", err)
	}
	if !reflect.DeepEqual(sc.Seats, []string{"A2"}) {
		t.Errorf("conflicting seats = %v, want [A2]", sc.Seats)
	}

	// The losing booking must leave nothing behind.
	booked, err := repo.BookedSeats(context.Background(), movie, show)
	if err != nil {
		t.Fatalf("BookedSeats: %v", err)
	}
	if !reflect.DeepEqual(booked, []string{"A1", "A2"}) {
		t.Errorf("BookedSeats after failed insert = %v, want [A1 A2]", booked)
	}
}

func TestListByUserEmailOrdering(t *testing.T) {
	repo := requireDB(t)
	movie, show := uniqueScreening(t)
	email := fmt.Sprintf("order-%d@x.com", time.Now().UnixNano())

	var ids []string
	for _, seat := range []string{"C1", "C2", "C3"} {
		b := &model.Booking{
			BookingID:   fmt.Sprintf("BK%d", time.Now().UnixNano()),
			UserName:    "Carol",
			UserEmail:   email,
			MovieName:   movie,
			Seats:       []string{seat},
			ShowTime:    show,
			TotalAmount: 250,
		}
		if err := repo.Create(context.Background(), b); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, b.BookingID)
	}

	got, err := repo.ListByUserEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("ListByUserEmail: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListByUserEmail returned %d bookings, want 3", len(got))
	}
	// Newest first: creation order reversed.
	for i, b := range got {
		if want := ids[len(ids)-1-i]; b.BookingID != want {
			t.Errorf("bookings[%d].BookingID = %s, want %s", i, b.BookingID, want)
		}
	}

	none, err := repo.ListByUserEmail(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("ListByUserEmail: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ListByUserEmail for unknown user = %v, want empty non-nil slice", none)
	}
}
