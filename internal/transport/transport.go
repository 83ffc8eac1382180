package transport

import (
	"errors"
	"net/http"

	"github.com/brickandmorty/ticketbooker/internal/entity"
	"github.com/brickandmorty/ticketbooker/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(ticketHandler *TicketHandler, bookingHandler *BookingHandler, availabilityHandler *AvailabilityHandler) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api/v1")
	{
		// Ticket routes
		tickets := api.Group("/tickets")
		{
			tickets.GET("", ticketHandler.ListTickets)
			tickets.POST("", ticketHandler.CreateTicket)
			tickets.DELETE("/:id", ticketHandler.DeactivateTicket)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.DELETE("/:id", bookingHandler.DeleteBooking)
			bookings.POST("/:id/copy", bookingHandler.CopyBooking)
		}

		// Availability routes
		availability := api.Group("/availability")
		{
			availability.GET("", availabilityHandler.GetSnapshot)
			availability.GET("/next-free", availabilityHandler.GetNextFreeDate)
		}

		// Export routes
		export := api.Group("/export")
		{
			export.GET("/bookings", bookingHandler.ExportBookings)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return router
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError maps domain errors onto HTTP statuses: validation 400, not
// found 404, conflict and exhausted availability 409, the rest 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrBookingNotFound), errors.Is(err, entity.ErrTicketNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrBookingConflict),
		errors.Is(err, entity.ErrTicketAlreadyExists),
		errors.Is(err, entity.ErrNoAvailability):
		status = http.StatusConflict
	}

	c.JSON(status, ErrorResponse{Success: false, Error: err.Error()})
}
