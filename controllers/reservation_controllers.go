package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type ReservationController struct {
	Floor *services.FloorService
}

func NewReservationController(floor *services.FloorService) *ReservationController {
	return &ReservationController{Floor: floor}
}

// GetReservations -> ?date=YYYY-MM-DD, ?status=, ?table_id=
func (rc *ReservationController) GetReservations(c *gin.Context) {
	tableID, ok := queryUint(c, "table_id")
	if !ok {
		return
	}
	reservations, err := rc.Floor.ListReservations(c.Request.Context(), services.ReservationFilter{
		Date:    c.Query("date"),
		Status:  c.Query("status"),
		TableID: tableID,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reservation, err := rc.Floor.GetReservation(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.CreateReservationInput
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedByID = currentUserID(c)

	reservation, err := rc.Floor.CreateReservation(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %d created for table %d at %s",
		reservation.ID, reservation.TableID, reservation.ReservationTime.Format("2006-01-02 15:04"))
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	reservation, err := rc.Floor.ChangeReservationStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// SeatReservation -> party arrived: opens the ronda and occupies the table
func (rc *ReservationController) SeatReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reservation, ronda, err := rc.Floor.SeatReservation(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation seated", gin.H{
		"reservation": reservation,
		"ronda":       ronda,
	})
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.Floor.DeleteReservation(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"id": id})
}
