package transport

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/brickandmorty/ticketbooker/internal/entity"
	"github.com/brickandmorty/ticketbooker/internal/service"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CopyBookingRequest carries the earliest acceptable date for the copy
// suggestion. Clients wanting "the day after the original" pass that date
// explicitly; the search itself is inclusive of it.
type CopyBookingRequest struct {
	EarliestDate entity.Date `json:"earliest_date" binding:"required"`
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// DeleteBooking answers 204 whether or not the id existed.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) CopyBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	var req CopyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	draft, err := h.bookingService.CopyBooking(c.Request.Context(), id, req.EarliestDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// ExportBookings serves the renderer feed: bookings in [from, to] ordered
// by date and then by ticket code, as JSON or CSV. Document formatting
// beyond that is the consumer's business.
func (h *BookingHandler) ExportBookings(c *gin.Context) {
	from, err := entity.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid from date"})
		return
	}
	to, err := entity.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid to date"})
		return
	}
	if to.Before(from.Time) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "to date precedes from date"})
		return
	}

	rows, err := h.bookingService.GetExportRows(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.DefaultQuery("format", "json") == "csv" {
		writeCSV(c, from, to, rows)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":  from,
		"to":    to,
		"count": len(rows),
		"rows":  rows,
	})
}

func writeCSV(c *gin.Context, from, to entity.Date, rows []*entity.BookingExportRow) {
	filename := fmt.Sprintf("bookings_%s_to_%s.csv", from, to)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"date", "ticket_code", "booker_name", "price", "completed", "booking_id", "note"})
	for _, row := range rows {
		note := ""
		if row.Note != nil {
			note = *row.Note
		}
		completed := "open"
		if row.Completed {
			completed = "completed"
		}
		_ = w.Write([]string{
			row.Date.String(),
			row.TicketCode,
			row.BookerName,
			strconv.FormatFloat(row.Price, 'f', 2, 64),
			completed,
			strconv.FormatInt(row.BookingID, 10),
			note,
		})
	}
	w.Flush()
}
