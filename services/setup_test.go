package services

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/config"
	"github.com/yeremiapane/ronda-app/database"
	"github.com/yeremiapane/ronda-app/messaging"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *FloorService
	events *messaging.Recorder
	mozo   models.User
	admin  models.User
}

// newFixture opens a private in-memory sqlite database named after the test.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	utils.InitLogger("error")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.InitDB(&config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	events := messaging.NewRecorder()
	opts = append([]Option{WithPublisher(events)}, opts...)
	f := &fixture{db: db, svc: NewFloorService(db, opts...), events: events}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	f.admin = models.User{Name: "Admin", Email: "admin@ronda.test", Password: string(hashed), Role: models.RoleAdmin}
	f.mozo = models.User{Name: "Mozo", Email: "mozo@ronda.test", Password: string(hashed), Role: models.RoleMozo}
	require.NoError(t, db.Create(&f.admin).Error)
	require.NoError(t, db.Create(&f.mozo).Error)
	return f
}

func (f *fixture) table(t *testing.T, number, capacity int) models.Table {
	t.Helper()
	table := models.Table{Number: number, Capacity: capacity, Status: models.TableLibre}
	require.NoError(t, f.db.Create(&table).Error)
	return table
}

func (f *fixture) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Category:    "Platos",
		Price:       decimal.RequireFromString(price),
		Type:        models.ProductCocina,
		IsAvailable: true,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) reload(t *testing.T, table models.Table) models.Table {
	t.Helper()
	var fresh models.Table
	require.NoError(t, f.db.First(&fresh, table.ID).Error)
	return fresh
}

func (f *fixture) activeRondas(t *testing.T, tableID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Ronda{}).Where("table_id = ? AND is_active = ?", tableID, true).Count(&n).Error)
	return n
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

// failTableUpdates registers a callback that fails every UPDATE on tables
// while the returned switch is on.
func (f *fixture) failTableUpdates(t *testing.T) *atomic.Bool {
	t.Helper()
	armed := &atomic.Bool{}
	err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_table_updates", func(tx *gorm.DB) {
		if armed.Load() && tx.Statement.Table == "tables" {
			tx.AddError(errors.New("tables update failed"))
		}
	})
	require.NoError(t, err)
	return armed
}

func orderOf(tableID, mozoID uint, items ...OrderItemInput) ProcessOrderInput {
	return ProcessOrderInput{TableID: tableID, MozoID: mozoID, Items: items}
}

func item(productID uint, qty int) OrderItemInput {
	return OrderItemInput{ProductID: productID, Quantity: qty}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
