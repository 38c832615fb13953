package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/models"
)

var dinner = time.Date(2030, time.May, 10, 19, 0, 0, 0, time.UTC)

func reservationBody(tableID uint, at time.Time, party int) map[string]interface{} {
	return map[string]interface{}{
		"table_id":         tableID,
		"customer_name":    "Familia Pérez",
		"party_size":       party,
		"reservation_time": at.Format(time.RFC3339),
	}
}

func TestReservationSeatAndCloseFlow(t *testing.T) {
	env := newAPIEnv(t)
	table := env.table(5, 4)

	w := env.do(http.MethodPost, "/api/reservations", models.RoleMozo, reservationBody(table.ID, dinner, 4))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res models.Reservation
	decode(t, w, &res)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.Equal(t, env.users[models.RoleMozo].ID, res.CreatedByID)
	require.NotNil(t, res.Table)
	assert.Equal(t, models.TableReservada, res.Table.Status)

	w = env.do(http.MethodPost, "/api/reservations", models.RoleMozo, reservationBody(table.ID, dinner.Add(time.Hour), 2))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/reservations/%d/seat", res.ID), models.RoleMozo, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var seated struct {
		Reservation models.Reservation `json:"reservation"`
		Ronda       models.Ronda       `json:"ronda"`
	}
	decode(t, w, &seated)
	assert.Equal(t, models.ReservationSeated, seated.Reservation.Status)
	assert.True(t, seated.Ronda.IsActive)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/tables/%d/close", table.ID), models.RoleMozo, map[string]string{"method": "EFECTIVO"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var closed struct {
		Payment models.Payment `json:"payment"`
		Ronda   models.Ronda   `json:"ronda"`
		Tables  []models.Table `json:"tables"`
	}
	decode(t, w, &closed)
	assert.True(t, closed.Payment.Amount.IsZero())
	require.NotNil(t, closed.Payment.ClosedByID)
	assert.Equal(t, env.users[models.RoleMozo].ID, *closed.Payment.ClosedByID)
	assert.False(t, closed.Ronda.IsActive)
	require.Len(t, closed.Tables, 1)
	assert.Equal(t, models.TableLibre, closed.Tables[0].Status)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/tables/%d/close", table.ID), models.RoleMozo, map[string]string{"method": "EFECTIVO"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationValidationOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	table := env.table(1, 2)

	w := env.do(http.MethodPost, "/api/reservations", models.RoleMozo, reservationBody(table.ID, dinner, 6))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decode(t, w, nil).Error)

	w = env.do(http.MethodGet, "/api/reservations?date=tomorrow", models.RoleMozo, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/reservations", models.RoleBarman, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReservationStatusAndDelete(t *testing.T) {
	env := newAPIEnv(t)
	table := env.table(1, 4)

	w := env.do(http.MethodPost, "/api/reservations", models.RoleMozo, reservationBody(table.ID, dinner, 2))
	require.Equal(t, http.StatusCreated, w.Code)
	var res models.Reservation
	decode(t, w, &res)

	w = env.do(http.MethodPatch, fmt.Sprintf("/api/reservations/%d/status", res.ID), models.RoleMozo, map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/reservations?date=2030-05-10&status=CONFIRMED", models.RoleMozo, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Reservation
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/reservations/%d", res.ID), models.RoleMozo, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/reservations/%d", res.ID), models.RoleMozo, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/tables/%d", table.ID), models.RoleMozo, nil)
	var got models.Table
	decode(t, w, &got)
	assert.Equal(t, models.TableLibre, got.Status)
}
