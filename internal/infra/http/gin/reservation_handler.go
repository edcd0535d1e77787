package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/app/commands"
	"freeshare/internal/app/dto"
	resapp "freeshare/internal/app/handlers/reservation"
	"freeshare/internal/app/queries"
)

type ReservationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h ReservationHandler) Reserve(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := resapp.CreateReservationCommand{AdID: c.Param("id"), RequesterID: user.ID}
	result, err := commands.Dispatch[resapp.CreateReservationCommand, dto.ReservationWithAd](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReservationHandler) JoinWaitingList(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := resapp.JoinWaitingListCommand{AdID: c.Param("id"), UserID: user.ID}
	result, err := commands.Dispatch[resapp.JoinWaitingListCommand, dto.Ad](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) ClaimStreetFind(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := resapp.ClaimStreetFindCommand{AdID: c.Param("id"), PickerID: user.ID}
	result, err := commands.Dispatch[resapp.ClaimStreetFindCommand, dto.Ad](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateStatusRequest struct {
	AckNotificationID string `json:"ackNotificationId"`
}

// UpdateStatus serves the accept, decline and cancel routes; the action
// is the last path segment.
func (h ReservationHandler) UpdateStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	path := c.FullPath()
	action := resapp.Action(path[strings.LastIndex(path, "/")+1:])
	cmd := resapp.UpdateStatusCommand{
		ReservationID:     c.Param("id"),
		ActorID:           user.ID,
		Action:            action,
		AckNotificationID: req.AckNotificationID,
	}
	result, err := commands.Dispatch[resapp.UpdateStatusCommand, dto.ReservationWithAd](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) ListForAd(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := resapp.ListByAdQuery{AdID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[resapp.ListByAdQuery, []dto.Reservation](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) MyReservations(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := resapp.ListByRequesterQuery{RequesterID: user.ID}
	result, err := queries.Ask[resapp.ListByRequesterQuery, []dto.Reservation](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReservationHTTP = ReservationHandler{}
