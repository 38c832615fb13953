package services

import (
	"context"
	"time"

	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/messaging"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
	"gorm.io/gorm"
)

// FloorMonitor polls the table floor and publishes a table_updated event for
// every table whose status or group changed since the previous poll. It picks
// up changes made by other instances or directly in the database.
type FloorMonitor struct {
	DB        *gorm.DB
	Publisher messaging.Publisher
	StopChan  chan struct{}
	Interval  time.Duration

	last map[uint]tableState
}

type tableState struct {
	Status  models.TableStatus
	GroupID uint
}

func NewFloorMonitor(db *gorm.DB, publisher messaging.Publisher) *FloorMonitor {
	return &FloorMonitor{
		DB:        db,
		Publisher: publisher,
		StopChan:  make(chan struct{}),
		Interval:  time.Second,
	}
}

func (fm *FloorMonitor) Start() {
	go func() {
		ticker := time.NewTicker(fm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := fm.Poll(context.Background()); err != nil {
					utils.ErrorLogger.Printf("floor monitor: %v", err)
				}
			case <-fm.StopChan:
				return
			}
		}
	}()
}

func (fm *FloorMonitor) Stop() {
	close(fm.StopChan)
}

// Poll takes one snapshot and publishes the differences. The first poll only
// records the baseline and publishes a floor_snapshot. It returns the changed tables.
func (fm *FloorMonitor) Poll(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := fm.DB.WithContext(ctx).Order("number").Find(&tables).Error; err != nil {
		return nil, err
	}

	current := make(map[uint]tableState, len(tables))
	for _, t := range tables {
		st := tableState{Status: t.Status}
		if t.TableGroupID != nil {
			st.GroupID = *t.TableGroupID
		}
		current[t.ID] = st
	}

	if fm.last == nil {
		fm.last = current
		fm.publish(ctx, kds.EventFloorSnapshot, tables)
		return nil, nil
	}

	var changed []models.Table
	for _, t := range tables {
		if prev, ok := fm.last[t.ID]; !ok || prev != current[t.ID] {
			changed = append(changed, t)
		}
	}
	for id := range fm.last {
		if _, ok := current[id]; !ok {
			fm.publish(ctx, kds.EventTableDeleted, map[string]interface{}{"id": id})
		}
	}
	fm.last = current

	for _, t := range changed {
		fm.publish(ctx, kds.EventTableUpdated, t)
	}
	if len(changed) > 0 {
		utils.InfoLogger.Debugf("floor monitor: %d tables changed", len(changed))
	}
	return changed, nil
}

func (fm *FloorMonitor) publish(ctx context.Context, name string, data interface{}) {
	if fm.Publisher == nil {
		return
	}
	if err := fm.Publisher.Publish(ctx, messaging.NewEvent(name, data)); err != nil {
		utils.ErrorLogger.Printf("floor monitor: failed to publish %s: %v", name, err)
	}
}
