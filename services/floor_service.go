package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/messaging"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
	"gorm.io/gorm"
)

// FloorService owns the table / ronda / order / reservation lifecycle. Every
// mutating operation takes the affected table locks and runs in one transaction.
type FloorService struct {
	DB     *gorm.DB
	Locker TableLocker
	Events messaging.Publisher

	// OrderPlacedStatus is the status a table moves to when an order is taken.
	OrderPlacedStatus models.TableStatus

	validate *validator.Validate
	now      func() time.Time
}

type Option func(*FloorService)

func WithLocker(l TableLocker) Option {
	return func(s *FloorService) { s.Locker = l }
}

func WithPublisher(p messaging.Publisher) Option {
	return func(s *FloorService) { s.Events = p }
}

func WithOrderPlacedStatus(status models.TableStatus) Option {
	return func(s *FloorService) {
		if status == models.TableEsperando || status == models.TablePidiendo {
			s.OrderPlacedStatus = status
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *FloorService) { s.now = now }
}

func NewFloorService(db *gorm.DB, opts ...Option) *FloorService {
	s := &FloorService{
		DB:                db,
		Locker:            NewLocalLocker(),
		Events:            messaging.NopPublisher{},
		OrderPlacedStatus: models.TableEsperando,
		validate:          validator.New(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// runTx executes fn inside one transaction. Any error rolls back and comes
// back classified as an *apperrors.Error.
func (s *FloorService) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := s.DB.WithContext(ctx).Transaction(fn); err != nil {
		return apperrors.From(err)
	}
	return nil
}

func (s *FloorService) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

func (s *FloorService) clock() time.Time {
	return s.now().UTC()
}

// publish delivers an event after commit. Delivery failures are logged only.
func (s *FloorService) publish(ctx context.Context, name string, data interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, messaging.NewEvent(name, data)); err != nil {
		utils.ErrorLogger.Printf("failed to publish %s: %v", name, err)
	}
}

// check runs struct validation and turns failures into a Validation error
// naming the offending fields.
func (s *FloorService) check(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("invalid input: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
		}
	}
	return apperrors.Validation("%s", strings.Join(msgs, "; "))
}

// lockTableScope locks a table and, when it belongs to a group, the group.
// Group membership only changes under the table lock, so the table read after
// locking is stable until unlock.
func (s *FloorService) lockTableScope(ctx context.Context, tableID uint) (models.Table, func(), error) {
	var table models.Table

	unlockTable, err := s.Locker.Lock(ctx, tableKey(tableID))
	if err != nil {
		return table, nil, apperrors.Internal("failed to lock table", err)
	}

	if err := s.db(ctx).First(&table, tableID).Error; err != nil {
		unlockTable()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return table, nil, apperrors.NotFound("table %d not found", tableID)
		}
		return table, nil, apperrors.From(err)
	}

	if table.TableGroupID == nil {
		return table, unlockTable, nil
	}

	unlockGroup, err := s.Locker.Lock(ctx, groupKey(*table.TableGroupID))
	if err != nil {
		unlockTable()
		return table, nil, apperrors.Internal("failed to lock table group", err)
	}
	return table, sync.OnceFunc(func() {
		unlockGroup()
		unlockTable()
	}), nil
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(format, args...)
	}
	return err
}
