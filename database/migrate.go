package database

import (
	"fmt"

	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Zone{},
		&models.TableGroup{},
		&models.Table{},
		&models.Product{},
		&models.Ronda{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.Payment{},
	}
}

// requiredIndexes are the unique indexes the floor engine relies on to reject
// a second active ronda per table and a second payment per ronda.
var requiredIndexes = []struct {
	model interface{}
	name  string
}{
	{&models.Ronda{}, "idx_rondas_active_table"},
	{&models.Payment{}, "idx_payments_ronda_id"},
	{&models.Table{}, "idx_tables_number"},
	{&models.User{}, "idx_users_email"},
}

// Migrate creates or updates the schema and checks that the unique indexes exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, idx := range requiredIndexes {
		if !db.Migrator().HasIndex(idx.model, idx.name) {
			if err := db.Migrator().CreateIndex(idx.model, idx.name); err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
			utils.InfoLogger.Printf("created missing index %s", idx.name)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
