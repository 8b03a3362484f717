package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	reviewsapp "eventspace/internal/app/handlers/reviews"
	"eventspace/internal/app/queries"
)

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type submitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h ReviewHandler) ListByVenue(c *gin.Context) {
	limit, ok := optionalInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := optionalInt(c, "offset")
	if !ok {
		return
	}
	query := reviewsapp.ListVenueReviewsQuery{VenueID: c.Param("id"), Limit: limit, Offset: offset}
	result, err := queries.Ask[reviewsapp.ListVenueReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) Submit(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	cmd := reviewsapp.SubmitReviewCommand{
		Actor:     currentActor(c),
		BookingID: strings.TrimSpace(c.Param("id")),
		Rating:    req.Rating,
		Text:      req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.SubmitReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) Update(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	cmd := reviewsapp.UpdateReviewCommand{
		Actor:     currentActor(c),
		BookingID: strings.TrimSpace(c.Param("id")),
		Rating:    req.Rating,
		Text:      req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.UpdateReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
