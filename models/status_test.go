package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableStatusInService(t *testing.T) {
	for _, s := range []TableStatus{TablePidiendo, TableEsperando, TableOcupada, TablePagando} {
		assert.True(t, s.InService(), s)
	}
	for _, s := range []TableStatus{TableLibre, TableReservada, "SUCIA"} {
		assert.False(t, s.InService(), s)
	}
}

func TestReservationEndTime(t *testing.T) {
	at := time.Date(2030, time.May, 10, 19, 0, 0, 0, time.UTC)
	r := Reservation{ReservationTime: at, Duration: 90}
	assert.Equal(t, at.Add(90*time.Minute), r.EndTime())
}
