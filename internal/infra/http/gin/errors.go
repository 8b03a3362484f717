package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/handlers/reviews"
	"eventspace/internal/app/middleware"
	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	"eventspace/internal/domain/shared/calendar"
	domainvenues "eventspace/internal/domain/venues"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondErr(c *gin.Context, logger *slog.Logger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "path", c.FullPath(), "err", err, "request_id", c.GetString("request_id"))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, ErrorResponse) {
	var verr *domainvenues.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Field: verr.Field}
	}
	switch {
	case errors.Is(err, domainvenues.ErrVenueNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainreviews.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, domainbooking.ErrGuestCount):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "guestCount"}
	case errors.Is(err, domainbooking.ErrPaymentMethod):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "paymentMethod"}
	case errors.Is(err, domainbooking.ErrDateInPast), errors.Is(err, calendar.ErrInvalidDay):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "date"}
	case errors.Is(err, domainbooking.ErrUnknownService):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "selectedServiceIds"}
	case errors.Is(err, domainreviews.ErrInvalidRating):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "rating"}
	case errors.Is(err, domainbooking.ErrDateUnavailable),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainbooking.ErrQuoteMismatch),
		errors.Is(err, domainvenues.ErrInvalidTransition),
		errors.Is(err, domainvenues.ErrNotBookable),
		errors.Is(err, reviews.ErrDuplicateReview),
		errors.Is(err, reviews.ErrEventNotFinished):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, middleware.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "authentication required"}
	case errors.Is(err, middleware.ErrForbidden), errors.Is(err, domainbooking.ErrNotParticipant):
		return http.StatusForbidden, ErrorResponse{Error: "forbidden"}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
}

func badRequest(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Field: field})
}
