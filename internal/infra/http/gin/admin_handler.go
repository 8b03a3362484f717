package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	venuesapp "eventspace/internal/app/handlers/venues"
	domainvenues "eventspace/internal/domain/venues"
)

// AdminHandler exposes moderation actions.
type AdminHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type statusRequest struct {
	Action string `json:"action"`
}

func (h AdminHandler) ChangeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	cmd := venuesapp.ChangeStatusCommand{
		Actor:   currentActor(c),
		VenueID: c.Param("id"),
		Action:  domainvenues.Action(strings.ToLower(strings.TrimSpace(req.Action))),
	}
	result, err := commands.Dispatch[venuesapp.ChangeStatusCommand, dto.Venue](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
