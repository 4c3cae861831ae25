// Package router maps HTTP routes onto handlers and middleware.
package router

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/movietix/ticket-booking/internal/config"
	"github.com/movietix/ticket-booking/internal/handler"
	"github.com/movietix/ticket-booking/internal/middleware"
)

// RegisterRoutes wires every endpoint of the service onto e.
//
// Public: health check, the client entry page and assets, signup/login,
// the movie catalog and seat availability. Protected (JWT): creating a
// booking and listing a user's bookings. The token, not request fields,
// establishes who the caller is.
func RegisterRoutes(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, b *handler.BookingHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Client application: root serves the entry page, /static the assets.
	e.File("/", filepath.Join(cfg.StaticDir, "index.html"))
	e.Static("/static", cfg.StaticDir)

	api := e.Group("/api")
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := api.Group("/auth")
	auth.POST("/signup", a.Signup)
	auth.POST("/login", a.Login)
	auth.POST("/refresh", a.Refresh)
	auth.POST("/logout", a.Logout)

	// The catalog is static, so it is the one route behind the response
	// cache. Availability is deliberately uncached: a fresh booking must
	// show up on the very next read.
	api.GET("/movies", handler.ListMovies, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	api.GET("/available-seats/:movieName/:showTime", b.AvailableSeats)

	bookings := api.Group("/bookings")
	bookings.Use(middleware.JWTAuth(cfg.JWTSecret))
	bookings.POST("", b.CreateBooking)
	bookings.GET("/:userEmail", b.ListBookings)
}
