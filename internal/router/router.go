// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinehall/movie-booking/internal/handler"
	"github.com/cinehall/movie-booking/internal/middleware"
)

// Handlers groups everything the router needs to register the full
// API surface.
type Handlers struct {
	Auth    *handler.AuthHandler
	Public  *handler.PublicHandler
	Booking *handler.BookingHandler
	Wallet  *handler.WalletHandler
	Admin   *handler.AdminHandler
}

// Register wires all routes. Public browse endpoints carry no auth;
// booking and wallet endpoints require the CUSTOMER role; catalog
// management and booking overrides require ADMIN.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// auth
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// public browse
	e.GET("/v1/movies", h.Public.ListMovies)
	e.GET("/v1/movies/:id/screenings", h.Public.ListScreenings)
	e.GET("/v1/screenings/:id", h.Public.GetScreening)
	e.GET("/v1/screenings/:id/seats", h.Public.SeatMap)
	e.GET("/v1/concessions", h.Public.ListConcessions)

	// authenticated, any role
	me := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("CUSTOMER", "ADMIN"))
	me.GET("/me", h.Auth.Me)

	// customer booking lifecycle and wallet
	customer := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("CUSTOMER"))
	customer.POST("/bookings", h.Booking.Create)
	customer.GET("/bookings", h.Booking.List)
	customer.GET("/bookings/:id", h.Booking.Get)
	customer.POST("/bookings/:id/pay", h.Booking.Pay)
	customer.DELETE("/bookings/:id", h.Booking.Cancel)

	customer.GET("/wallet", h.Wallet.Balance)
	customer.GET("/wallet/transactions", h.Wallet.Transactions)
	customer.POST("/wallet/deposit", h.Wallet.Deposit)
	customer.POST("/wallet/withdraw", h.Wallet.Withdraw)

	// admin catalog management and overrides
	admin := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
	admin.POST("/movies", h.Admin.CreateMovie)
	admin.PATCH("/movies/:id", h.Admin.UpdateMovie)
	admin.POST("/halls", h.Admin.CreateHall)
	admin.GET("/halls", h.Admin.ListHalls)
	admin.POST("/screenings", h.Admin.CreateScreening)
	admin.PATCH("/screenings/:id", h.Admin.UpdateScreening)
	admin.POST("/concessions", h.Admin.CreateConcession)
	admin.PATCH("/concessions/:id", h.Admin.UpdateConcession)
	admin.PATCH("/bookings/:id/status", h.Admin.UpdateBookingStatus)
	admin.PATCH("/bookings/:id/payment", h.Admin.UpdateBookingPayment)
}
