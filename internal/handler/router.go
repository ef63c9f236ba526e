package handler

import (
	"log/slog"
	"net/http"

	"rental-booking/internal/handler/api"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine  *gin.Engine
	booking *api.BookingHandler
	auth    *middleware.AuthMiddleware
}

func NewRouter(
	cfg config.Config,
	logger *slog.Logger,
	booking *api.BookingHandler,
	auth *middleware.AuthMiddleware,
) *Router {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.NewCORSMiddleware(cfg.CORS),
	)

	r := &Router{
		engine:  engine,
		booking: booking,
		auth:    auth,
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.engine.Group("/api")

	bookings := apiGroup.Group("/bookings", r.auth.RequireAuth())
	{
		bookings.POST("", r.booking.CreateBooking)
		bookings.GET("", r.booking.ListMyBookings)
		bookings.GET("/:id", r.booking.GetBooking)
		bookings.POST("/:id/cancel", r.booking.CancelBooking)
		bookings.POST("/:id/confirm", r.auth.RequireService(), r.booking.ConfirmBooking)
	}

	// Separate group so the static path does not collide with /bookings/:id.
	properties := apiGroup.Group("/properties", r.auth.RequireAuth(), r.auth.RequireService())
	{
		properties.GET("/booking-counts", r.booking.PropertyBookingCounts)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
