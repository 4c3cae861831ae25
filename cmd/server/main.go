package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/movietix/ticket-booking/internal/config"
	"github.com/movietix/ticket-booking/internal/database"
	"github.com/movietix/ticket-booking/internal/handler"
	"github.com/movietix/ticket-booking/internal/queue"
	"github.com/movietix/ticket-booking/internal/repository"
	"github.com/movietix/ticket-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the catalog cache; nil disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	bookingHandler := handler.NewBookingHandler(bookings)

	// Background consumer writes booking confirmations to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, cfg, authHandler, bookingHandler, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
