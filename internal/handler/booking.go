package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movietix/ticket-booking/internal/model"
	"github.com/movietix/ticket-booking/internal/queue"
	"github.com/movietix/ticket-booking/internal/repository"
	queue_publisher "github.com/movietix/ticket-booking/internal/service"
	"github.com/movietix/ticket-booking/internal/utils"
)

// BookingHandler serves seat availability, booking creation and the
// per-user booking list. Creation and listing assume JWTAuth ran first
// and placed the caller's email under "user_email".
type BookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewBookingHandler(b *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
	UserName    string   `json:"userName"`
	UserEmail   string   `json:"userEmail"`
	MovieName   string   `json:"movieName"`
	Seats       []string `json:"seats"`
	ShowTime    string   `json:"showTime"`
	TotalAmount float64  `json:"totalAmount"`
}

// AvailableSeats handles GET /api/available-seats/:movieName/:showTime.
// It returns the union of seat labels across all bookings for the exact
// (movie, showtime) pair, an empty list when there are none. The result
// is recomputed on every call and never cached.
func (h *BookingHandler) AvailableSeats(c echo.Context) error {
	movieName := pathParam(c, "movieName")
	showTime := pathParam(c, "showTime")
	if movieName == "" || showTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Movie name and show time are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booked, err := h.Bookings.BookedSeats(ctx, movieName, showTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching available seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookedSeats": booked})
}

// CreateBooking handles POST /api/bookings. Validation runs before any
// write: required fields, seat labels on the grid, the per-booking seat
// cap, a positive amount, and no overlap with already-claimed seats.
// The availability check is advisory; the unique index behind
// BookingRepo.Create is what actually prevents a double sell when two
// requests race.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if msg := validateBookingRequest(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
	}

	// The token, not the body, decides who is booking.
	tokenEmail, _ := c.Get("user_email").(string)
	if !strings.EqualFold(req.UserEmail, tokenEmail) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "You can only book tickets for your own account"})
	}

	seats := dedupeSeats(req.Seats)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booked, err := h.Bookings.BookedSeats(ctx, req.MovieName, req.ShowTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating booking"})
	}
	if conflicts := conflictingSeats(seats, booked); len(conflicts) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": fmt.Sprintf("Seats %s are already booked", strings.Join(conflicts, ", ")),
		})
	}

	bookingID, err := utils.NewBookingID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating booking"})
	}
	booking := &model.Booking{
		BookingID:   bookingID,
		UserName:    req.UserName,
		UserEmail:   strings.ToLower(strings.TrimSpace(req.UserEmail)),
		MovieName:   req.MovieName,
		Seats:       seats,
		ShowTime:    req.ShowTime,
		TotalAmount: req.TotalAmount,
	}
	if err := h.Bookings.Create(ctx, booking); err != nil {
		var sc *repository.SeatConflictError
		if errors.As(err, &sc) {
			// A concurrent booking won the race between our check and
			// the insert; the store caught it.
			return c.JSON(http.StatusBadRequest, echo.Map{"message": sc.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating booking"})
	}

	// Best-effort notification; a broker outage never fails the booking.
	go func(ev queue.BookingConfirmedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishBookingConfirmed(pubCtx, ev)
	}(queue.BookingConfirmedEvent{
		BookingID:   booking.BookingID,
		UserName:    booking.UserName,
		UserEmail:   booking.UserEmail,
		MovieName:   booking.MovieName,
		Seats:       booking.Seats,
		ShowTime:    booking.ShowTime,
		TotalAmount: booking.TotalAmount,
		ConfirmedAt: booking.BookingDate.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Booking confirmed successfully",
		"booking":   booking,
		"bookingId": booking.BookingID,
	})
}

// ListBookings handles GET /api/bookings/:userEmail, newest first. The
// path email must match the token subject; users cannot read each
// other's booking history.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userEmail := pathParam(c, "userEmail")
	if userEmail == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "User email is required"})
	}
	tokenEmail, _ := c.Get("user_email").(string)
	if !strings.EqualFold(userEmail, tokenEmail) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "You can only view your own bookings"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByUserEmail(ctx, strings.ToLower(userEmail))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching bookings"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// validateBookingRequest returns an empty string when the request is
// well formed, otherwise the message to send back with a 400.
func validateBookingRequest(req *createBookingReq) string {
	req.UserName = strings.TrimSpace(req.UserName)
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.MovieName = strings.TrimSpace(req.MovieName)
	req.ShowTime = strings.TrimSpace(req.ShowTime)

	if req.UserName == "" || req.UserEmail == "" || req.MovieName == "" ||
		req.ShowTime == "" || len(req.Seats) == 0 || req.TotalAmount == 0 {
		return "All fields are required"
	}
	if req.TotalAmount < 0 {
		return "Total amount must be a positive number"
	}
	if len(req.Seats) > model.MaxSeatsPerBooking {
		return fmt.Sprintf("You can book at most %d seats", model.MaxSeatsPerBooking)
	}
	for _, s := range req.Seats {
		if !model.ValidSeatLabel(s) {
			return fmt.Sprintf("Invalid seat %q", s)
		}
	}
	return ""
}

// dedupeSeats removes duplicate labels while preserving request order.
func dedupeSeats(seats []string) []string {
	out := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// conflictingSeats returns the requested seats that appear in booked,
// in request order.
func conflictingSeats(requested, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		taken[s] = struct{}{}
	}
	conflicts := make([]string, 0)
	for _, s := range requested {
		if _, ok := taken[s]; ok {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}

// pathParam returns the named route parameter, percent-decoded. Movie
// names and showtimes arrive URL-encoded in the path ("Dune%2018:00").
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
