package transport

import (
	"net/http"
	"strconv"

	"github.com/brickandmorty/ticketbooker/internal/entity"
	"github.com/brickandmorty/ticketbooker/internal/service"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityService service.AvailabilityService
	defaultWindowDays   int
	searchBudgetDays    int
}

func NewAvailabilityHandler(availabilityService service.AvailabilityService, defaultWindowDays, searchBudgetDays int) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		defaultWindowDays:   defaultWindowDays,
		searchBudgetDays:    searchBudgetDays,
	}
}

// GetSnapshot returns the availability view for one day: per-ticket
// statuses with next free dates, and the fully booked days of the window.
func (h *AvailabilityHandler) GetSnapshot(c *gin.Context) {
	asOf := entity.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := entity.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid date"})
			return
		}
		asOf = parsed
	}

	windowDays := h.defaultWindowDays
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid window"})
			return
		}
		windowDays = parsed
	}

	snapshot, err := h.availabilityService.Recompute(c.Request.Context(), asOf, windowDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *AvailabilityHandler) GetNextFreeDate(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Query("ticket_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid ticket_id"})
		return
	}

	start := entity.Today()
	if raw := c.Query("start"); raw != "" {
		parsed, err := entity.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid start date"})
			return
		}
		start = parsed
	}

	maxDays := h.searchBudgetDays
	if raw := c.Query("max_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid max_days"})
			return
		}
		maxDays = parsed
	}

	date, err := h.availabilityService.FindNextAvailableDate(c.Request.Context(), ticketID, start, maxDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket_id":      ticketID,
		"start":          start,
		"next_free_date": date,
	})
}
