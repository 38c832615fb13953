package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
)

var evening = time.Date(2030, time.May, 10, 19, 0, 0, 0, time.UTC)

func (f *fixture) reserve(tableID uint, at time.Time, party int) (*models.Reservation, error) {
	return f.svc.CreateReservation(context.Background(), CreateReservationInput{
		TableID:         tableID,
		CustomerName:    "Familia Pérez",
		PartySize:       party,
		ReservationTime: at,
		CreatedByID:     f.mozo.ID,
	})
}

func TestReservationPartyExceedsCapacity(t *testing.T) {
	f := newFixture(t)
	table := f.table(t, 1, 4)

	_, err := f.reserve(table.ID, evening, 6)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.EqualValues(t, 0, f.count(t, &models.Reservation{}))
	assert.Equal(t, models.TableLibre, f.reload(t, table).Status)
}

func TestReservationValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.table(t, 1, 4)

	_, err := f.svc.CreateReservation(ctx, CreateReservationInput{TableID: table.ID, CustomerName: "  ", PartySize: 2, ReservationTime: evening, CreatedByID: f.mozo.ID})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = f.svc.CreateReservation(ctx, CreateReservationInput{TableID: table.ID, CustomerName: "Ana", PartySize: 2, CreatedByID: f.mozo.ID})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = f.reserve(999, evening, 2)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestReservationConflictWindow(t *testing.T) {
	f := newFixture(t)
	table := f.table(t, 1, 4)

	first, err := f.reserve(table.ID, evening, 2)
	require.NoError(t, err)
	assert.Equal(t, DefaultReservationDuration, first.Duration)
	assert.Equal(t, models.ReservationPending, first.Status)
	assert.Equal(t, models.TableReservada, f.reload(t, table).Status)

	_, err = f.reserve(table.ID, evening.Add(time.Hour), 2)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	// a slot starting before the existing one but overlapping it
	_, err = f.reserve(table.ID, evening.Add(-90*time.Minute), 2)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	_, err = f.reserve(table.ID, evening.Add(121*time.Minute), 2)
	assert.NoError(t, err)

	early, err := f.svc.CreateReservation(context.Background(), CreateReservationInput{
		TableID: table.ID, CustomerName: "Almuerzo", PartySize: 2,
		ReservationTime: evening.Add(-5 * time.Hour), Duration: 60, CreatedByID: f.mozo.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, early.Duration)

	// cancelled reservations free their slot
	_, err = f.svc.ChangeReservationStatus(context.Background(), first.ID, "CANCELLED")
	require.NoError(t, err)
	_, err = f.reserve(table.ID, evening, 2)
	assert.NoError(t, err)
}

func TestReservationSeatAndCloseScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.table(t, 5, 4)

	res, err := f.reserve(table.ID, evening, 4)
	require.NoError(t, err)
	assert.Equal(t, models.TableReservada, f.reload(t, table).Status)

	seated, ronda, err := f.svc.SeatReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationSeated, seated.Status)
	assert.True(t, ronda.IsActive)
	assert.Equal(t, models.TableOcupada, f.reload(t, table).Status)

	_, _, err = f.svc.SeatReservation(ctx, res.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	closed, err := f.svc.CloseTable(ctx, table.ID, CloseInput{Method: models.PaymentEfectivo})
	require.NoError(t, err)
	assert.True(t, closed.Total.IsZero())
	assert.False(t, closed.Ronda.IsActive)
	assert.Equal(t, models.TableLibre, f.reload(t, table).Status)
	assert.EqualValues(t, 0, f.activeRondas(t, table.ID))
}

func TestSeatReservationBlockedByActiveRonda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.table(t, 1, 4)
	p := f.product(t, "Café", "15")

	res, err := f.reserve(table.ID, evening, 2)
	require.NoError(t, err)
	_, err = f.svc.ProcessOrder(ctx, orderOf(table.ID, f.mozo.ID, item(p.ID, 1)))
	require.NoError(t, err)

	_, _, err = f.svc.SeatReservation(ctx, res.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	stored, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, stored.Status)
}

func TestChangeReservationStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.table(t, 1, 4)

	a, err := f.reserve(table.ID, evening, 2)
	require.NoError(t, err)
	b, err := f.reserve(table.ID, evening.Add(4*time.Hour), 2)
	require.NoError(t, err)

	confirmed, err := f.svc.ChangeReservationStatus(ctx, a.ID, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, confirmed.Status)

	_, err = f.svc.ChangeReservationStatus(ctx, a.ID, "PENDING")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	_, err = f.svc.ChangeReservationStatus(ctx, a.ID, "SEATED")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	_, err = f.svc.ChangeReservationStatus(ctx, a.ID, "LATE")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	_, err = f.svc.ChangeReservationStatus(ctx, 999, "CONFIRMED")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	// b still holds the table
	_, err = f.svc.ChangeReservationStatus(ctx, a.ID, "NO_SHOW")
	require.NoError(t, err)
	assert.Equal(t, models.TableReservada, f.reload(t, table).Status)

	cancelled, err := f.svc.ChangeReservationStatus(ctx, b.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, models.TableLibre, cancelled.Table.Status)
	assert.Equal(t, models.TableLibre, f.reload(t, table).Status)

	_, err = f.svc.ChangeReservationStatus(ctx, b.ID, "CONFIRMED")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict), "terminal states stay terminal")
	_, _, err = f.svc.SeatReservation(ctx, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestDeleteReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.table(t, 1, 4)
	t2 := f.table(t, 2, 4)

	pending, err := f.reserve(t1.ID, evening, 2)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteReservation(ctx, pending.ID))
	assert.Equal(t, models.TableLibre, f.reload(t, t1).Status)
	assert.True(t, apperrors.Is(f.svc.DeleteReservation(ctx, pending.ID), apperrors.KindNotFound))

	seatedRes, err := f.reserve(t2.ID, evening, 2)
	require.NoError(t, err)
	_, _, err = f.svc.SeatReservation(ctx, seatedRes.ID)
	require.NoError(t, err)

	err = f.svc.DeleteReservation(ctx, seatedRes.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.EqualValues(t, 1, f.count(t, &models.Reservation{}))
}

func TestListReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.table(t, 1, 4)
	t2 := f.table(t, 2, 4)

	late, err := f.reserve(t1.ID, evening.Add(2*time.Hour+30*time.Minute), 2)
	require.NoError(t, err)
	_, err = f.reserve(t2.ID, evening, 2)
	require.NoError(t, err)
	_, err = f.reserve(t1.ID, evening.AddDate(0, 0, 1), 2)
	require.NoError(t, err)
	_, err = f.svc.ChangeReservationStatus(ctx, late.ID, "CANCELLED")
	require.NoError(t, err)

	day, err := f.svc.ListReservations(ctx, ReservationFilter{Date: "2030-05-10"})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, t2.ID, day[0].TableID, "ordered by time")

	cancelled, err := f.svc.ListReservations(ctx, ReservationFilter{Status: "cancelled"})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, late.ID, cancelled[0].ID)

	forTable, err := f.svc.ListReservations(ctx, ReservationFilter{Status: "ALL", TableID: t1.ID})
	require.NoError(t, err)
	assert.Len(t, forTable, 2)

	_, err = f.svc.ListReservations(ctx, ReservationFilter{Date: "10/05/2030"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}
