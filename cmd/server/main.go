package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cinehall/movie-booking/internal/cache"
	"github.com/cinehall/movie-booking/internal/config"
	"github.com/cinehall/movie-booking/internal/database"
	"github.com/cinehall/movie-booking/internal/handler"
	"github.com/cinehall/movie-booking/internal/middleware"
	"github.com/cinehall/movie-booking/internal/queue"
	"github.com/cinehall/movie-booking/internal/repository"
	"github.com/cinehall/movie-booking/internal/router"
	queuepub "github.com/cinehall/movie-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.InitializeSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	redisClient := config.NewRedisClient()
	if redisClient == nil {
		log.Println("redis unavailable; rate limiting and seat map caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	hallRepo := repository.NewHallRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	screeningRepo := repository.NewScreeningRepo(db)
	concessionRepo := repository.NewConcessionRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	walletRepo := repository.NewWalletRepo(db)

	seatCache := cache.NewSeatMapCache(redisClient, cfg.SeatCacheTTL)
	publisher := queuepub.New(cfg.RabbitURL)

	go func() {
		if err := queue.StartConsumer(cfg.RabbitURL, userRepo); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	h := router.Handlers{
		Auth: handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Public: &handler.PublicHandler{
			Movies:      movieRepo,
			Screenings:  screeningRepo,
			Halls:       hallRepo,
			Seats:       seatRepo,
			Concessions: concessionRepo,
			SeatCache:   seatCache,
		},
		Booking: &handler.BookingHandler{
			Bookings:    bookingRepo,
			Screenings:  screeningRepo,
			Seats:       seatRepo,
			Movies:      movieRepo,
			Halls:       hallRepo,
			Concessions: concessionRepo,
			Users:       userRepo,
			Wallets:     walletRepo,
			SeatCache:   seatCache,
			Publisher:   publisher,
		},
		Wallet: handler.NewWalletHandler(userRepo, walletRepo),
		Admin: &handler.AdminHandler{
			Movies:      movieRepo,
			Halls:       hallRepo,
			Seats:       seatRepo,
			Screenings:  screeningRepo,
			Concessions: concessionRepo,
			Bookings:    bookingRepo,
			SeatCache:   seatCache,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	if cfg.RateLimitEnabled {
		e.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))
	}

	router.Register(e, h, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
