package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

const (
	DefaultReservationDuration = 120
	// reservationLookback is how far before a new slot an existing reservation
	// still counts as occupying the table.
	reservationLookback = 120 * time.Minute
)

type CreateReservationInput struct {
	TableID         uint      `json:"table_id" validate:"required"`
	CustomerName    string    `json:"customer_name" validate:"required,max=255"`
	CustomerPhone   *string   `json:"customer_phone" validate:"omitempty,max=50"`
	PartySize       int       `json:"party_size" validate:"required,min=1"`
	ReservationTime time.Time `json:"reservation_time" validate:"required"`
	Duration        int       `json:"duration" validate:"omitempty,min=15,max=720"`
	Notes           *string   `json:"notes" validate:"omitempty,max=1000"`
	CreatedByID     uint      `json:"-" validate:"required"`
}

// allowedReservationMoves lists the transitions ChangeReservationStatus accepts.
// SEATED is reached only through SeatReservation.
var allowedReservationMoves = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationPending:   {models.ReservationConfirmed, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationConfirmed: {models.ReservationCancelled, models.ReservationNoShow},
}

func canMoveReservation(from, to models.ReservationStatus) bool {
	for _, allowed := range allowedReservationMoves[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreateReservation books a table for a time slot. A free table becomes RESERVADA.
func (s *FloorService) CreateReservation(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.ReservationTime.IsZero() {
		return nil, apperrors.Validation("reservation_time is required")
	}
	if in.Duration == 0 {
		in.Duration = DefaultReservationDuration
	}
	slot := models.Reservation{
		ReservationTime: in.ReservationTime.UTC().Truncate(time.Minute),
		Duration:        in.Duration,
	}
	start, end := slot.ReservationTime, slot.EndTime()

	unlock, err := s.Locker.Lock(ctx, tableKey(in.TableID))
	if err != nil {
		return nil, apperrors.Internal("failed to lock table", err)
	}
	defer unlock()

	var (
		reservation models.Reservation
		table       models.Table
	)
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&table, in.TableID).Error; err != nil {
			return notFoundOr(err, "table %d not found", in.TableID)
		}
		if in.PartySize > table.Capacity {
			return apperrors.Validation("party size %d exceeds capacity %d of table %d", in.PartySize, table.Capacity, table.Number)
		}

		var clash models.Reservation
		err := tx.Where("table_id = ? AND status IN ?", table.ID, models.ActiveReservationStatuses).
			Where("reservation_time >= ? AND reservation_time < ?", start.Add(-reservationLookback), end).
			Order("reservation_time").
			Limit(1).Find(&clash).Error
		if err != nil {
			return err
		}
		if clash.ID != 0 {
			return apperrors.Conflict("table %d is already reserved at %s", table.Number, clash.ReservationTime.UTC().Format("2006-01-02 15:04"))
		}

		var createdBy int64
		if err := tx.Model(&models.User{}).Where("id = ?", in.CreatedByID).Count(&createdBy).Error; err != nil {
			return err
		}
		if createdBy == 0 {
			return apperrors.InvalidReference("user %d does not exist", in.CreatedByID)
		}

		reservation = models.Reservation{
			TableID:         table.ID,
			CustomerName:    in.CustomerName,
			CustomerPhone:   in.CustomerPhone,
			PartySize:       in.PartySize,
			ReservationTime: start,
			Duration:        in.Duration,
			Notes:           in.Notes,
			Status:          models.ReservationPending,
			CreatedByID:     in.CreatedByID,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		if table.Status == models.TableLibre {
			if err := tx.Model(&table).Update("status", models.TableReservada).Error; err != nil {
				return err
			}
			table.Status = models.TableReservada
		}
		reservation.Table = &table
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventReservationCreated, reservation)
	s.publish(ctx, kds.EventTableUpdated, table)
	return &reservation, nil
}

// ChangeReservationStatus confirms, cancels or marks a reservation as no-show.
// Cancelling the last pending reservation of a RESERVADA table frees it.
func (s *FloorService) ChangeReservationStatus(ctx context.Context, id uint, status string) (*models.Reservation, error) {
	next := models.ReservationStatus(status)
	if !next.Valid() {
		return nil, apperrors.Validation("invalid reservation status %q", status)
	}

	current, err := s.loadReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, tableKey(current.TableID))
	if err != nil {
		return nil, apperrors.Internal("failed to lock table", err)
	}
	defer unlock()

	var (
		reservation models.Reservation
		table       *models.Table
	)
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			return notFoundOr(err, "reservation %d not found", id)
		}
		if next == models.ReservationSeated {
			return apperrors.Conflict("reservation %d must be seated through the seat operation", id)
		}
		if !canMoveReservation(reservation.Status, next) {
			return apperrors.Conflict("reservation %d cannot move from %s to %s", id, reservation.Status, next)
		}

		if err := tx.Model(&reservation).Update("status", next).Error; err != nil {
			return err
		}
		reservation.Status = next

		var err error
		table, err = reconcileTable(tx, reservation.TableID)
		if err != nil {
			return err
		}
		reservation.Table = table
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventReservationUpdated, reservation)
	s.publish(ctx, kds.EventTableUpdated, table)
	return &reservation, nil
}

// SeatReservation opens a ronda for the party, marks the reservation SEATED and
// the table OCUPADA.
func (s *FloorService) SeatReservation(ctx context.Context, id uint) (*models.Reservation, *models.Ronda, error) {
	current, err := s.loadReservation(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	table, unlock, err := s.lockTableScope(ctx, current.TableID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var (
		reservation models.Reservation
		ronda       *models.Ronda
	)
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			return notFoundOr(err, "reservation %d not found", id)
		}
		if reservation.Status.Terminal() {
			return apperrors.Conflict("reservation %d is already %s", id, reservation.Status)
		}

		var active int64
		if err := activeRondaQuery(tx, &table).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Conflict("table %d already has an active ronda", table.Number)
		}

		var err error
		ronda, _, err = s.findOrCreateActiveRonda(tx, &table)
		if err != nil {
			return err
		}

		if err := tx.Model(&reservation).Update("status", models.ReservationSeated).Error; err != nil {
			return err
		}
		reservation.Status = models.ReservationSeated

		if err := tx.Model(&table).Update("status", models.TableOcupada).Error; err != nil {
			return err
		}
		table.Status = models.TableOcupada
		reservation.Table = &table
		return nil
	})
	unlock()
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, kds.EventReservationUpdated, reservation)
	s.publish(ctx, kds.EventRondaOpened, ronda)
	s.publish(ctx, kds.EventTableUpdated, table)
	return &reservation, ronda, nil
}

// DeleteReservation removes a reservation that has not been seated.
func (s *FloorService) DeleteReservation(ctx context.Context, id uint) error {
	current, err := s.loadReservation(ctx, id)
	if err != nil {
		return err
	}

	unlock, err := s.Locker.Lock(ctx, tableKey(current.TableID))
	if err != nil {
		return apperrors.Internal("failed to lock table", err)
	}
	defer unlock()

	var table *models.Table
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.First(&reservation, id).Error; err != nil {
			return notFoundOr(err, "reservation %d not found", id)
		}
		if reservation.Status == models.ReservationSeated {
			return apperrors.Conflict("reservation %d is seated and cannot be deleted", id)
		}
		if err := tx.Delete(&reservation).Error; err != nil {
			return err
		}
		var err error
		table, err = reconcileTable(tx, reservation.TableID)
		return err
	})
	unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, kds.EventReservationDeleted, map[string]interface{}{"id": id, "table_id": current.TableID})
	s.publish(ctx, kds.EventTableUpdated, table)
	return nil
}

func (s *FloorService) loadReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db(ctx).First(&reservation, id).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "reservation %d not found", id))
	}
	return &reservation, nil
}

func (s *FloorService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db(ctx).Preload("Table").Preload("CreatedBy").First(&reservation, id).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "reservation %d not found", id))
	}
	return &reservation, nil
}

type ReservationFilter struct {
	Date    string // YYYY-MM-DD, UTC day
	Status  string // empty or ALL for every status
	TableID uint
}

// ListReservations returns reservations matching f ordered by time.
func (s *FloorService) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.db(ctx).Preload("Table").Preload("CreatedBy")

	if f.Date != "" {
		day, err := time.Parse("2006-01-02", f.Date)
		if err != nil {
			return nil, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", f.Date)
		}
		q = q.Where("reservation_time >= ? AND reservation_time < ?", day, day.AddDate(0, 0, 1))
	}
	if f.Status != "" && !strings.EqualFold(f.Status, "ALL") {
		status := models.ReservationStatus(strings.ToUpper(f.Status))
		if !status.Valid() {
			return nil, apperrors.Validation("invalid reservation status %q", f.Status)
		}
		q = q.Where("status = ?", status)
	}
	if f.TableID != 0 {
		q = q.Where("table_id = ?", f.TableID)
	}

	var reservations []models.Reservation
	if err := q.Order("reservation_time ASC, id ASC").Find(&reservations).Error; err != nil {
		return nil, apperrors.From(err)
	}
	return reservations, nil
}
