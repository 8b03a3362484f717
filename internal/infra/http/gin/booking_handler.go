package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	bookingapp "eventspace/internal/app/handlers/booking"
	"eventspace/internal/domain/shared/calendar"
)

const IdempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	VenueID            string   `json:"venueId"`
	Date               string   `json:"date"`
	GuestCount         int      `json:"guestCount"`
	SelectedServiceIDs []string `json:"selectedServiceIds"`
	PaymentMethod      string   `json:"paymentMethod"`
	QuotedTotal        *float64 `json:"quotedTotal"`
}

type transitionRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	day, err := calendar.Parse(req.Date)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	idemKey := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	cmd := bookingapp.RequestBookingCommand{
		Actor:              currentActor(c),
		VenueID:            strings.TrimSpace(req.VenueID),
		Date:               day,
		GuestCount:         req.GuestCount,
		SelectedServiceIDs: req.SelectedServiceIDs,
		PaymentMethod:      strings.ToUpper(strings.TrimSpace(req.PaymentMethod)),
		QuotedTotal:        req.QuotedTotal,
		IdempotencyKeyV:    idemKey,
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	if idemKey != "" {
		c.Header(IdempotencyHeader, idemKey)
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, bookingapp.TransitionConfirm)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, bookingapp.TransitionCancel)
}

func (h BookingHandler) Complete(c *gin.Context) {
	h.transition(c, bookingapp.TransitionComplete)
}

func (h BookingHandler) transition(c *gin.Context, action bookingapp.Transition) {
	var req transitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "", err.Error())
			return
		}
	}
	cmd := bookingapp.TransitionCommand{
		Actor:     currentActor(c),
		BookingID: strings.TrimSpace(c.Param("id")),
		Action:    action,
		Reason:    strings.TrimSpace(req.Reason),
	}
	result, err := commands.Dispatch[bookingapp.TransitionCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
