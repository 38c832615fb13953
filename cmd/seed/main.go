// Command seed loads a demo floor: staff, zones, twenty tables and a short menu.
// Running it twice is safe; rows that already exist are skipped.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/config"
	"github.com/yeremiapane/ronda-app/database"
	"github.com/yeremiapane/ronda-app/messaging"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

const demoPassword = "ronda123"

var staff = []services.UserInput{
	{Name: "Admin Ronda", Email: "admin@ronda.com", Role: "ADMIN"},
	{Name: "Mozo Juan", Email: "juan@ronda.com", Role: "MOZO"},
	{Name: "Mozo Ana", Email: "ana@ronda.com", Role: "MOZO"},
	{Name: "Mozo Carlos", Email: "carlos@ronda.com", Role: "MOZO"},
	{Name: "Barman Pedro", Email: "pedro@ronda.com", Role: "BARMAN"},
	{Name: "Cocinero Luis", Email: "luis@ronda.com", Role: "COCINERO"},
}

var zones = []services.ZoneInput{
	{Name: "PRINCIPAL", Color: "#3b82f6", Capacity: 40, Width: 800, Height: 500},
	{Name: "TERRAZA", Color: "#10b981", Capacity: 30, Width: 700, Height: 450},
	{Name: "VIP", Color: "#a855f7", Capacity: 20, Width: 600, Height: 400},
	{Name: "BARRA", Color: "#f59e0b", Capacity: 15, Width: 500, Height: 350},
}

var menu = []struct {
	name, category, kind string
	price                int64
}{
	{"IPA - Pinta", "Cervezas", "BARRA", 4500},
	{"Honey - Pinta", "Cervezas", "BARRA", 4200},
	{"Stout - Pinta", "Cervezas", "BARRA", 4800},
	{"Lager - Pinta", "Cervezas", "BARRA", 4000},
	{"Fernet con Pepsi", "Tragos", "BARRA", 3800},
	{"Gin Tonic Classic", "Tragos", "BARRA", 4000},
	{"Papas con Cheddar", "Comida", "COCINA", 5500},
	{"Hamburguesa Completa", "Comida", "COCINA", 7800},
	{"Pizza Muzzarella", "Comida", "COCINA", 8200},
	{"Nachos", "Comida", "COCINA", 4900},
}

type counter struct{ created, skipped int }

func (c *counter) record(err error) error {
	switch {
	case err == nil:
		c.created++
	case apperrors.Is(err, apperrors.KindConflict):
		c.skipped++
	default:
		return err
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLvl)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	ctx := context.Background()
	floor := services.NewFloorService(db, services.WithPublisher(messaging.NewRecorder()))

	var users counter
	for _, in := range staff {
		in.Password = demoPassword
		_, err := floor.CreateUser(ctx, in)
		if err := users.record(err); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed user %s: %v", in.Email, err)
		}
	}

	var zoneCount counter
	for _, in := range zones {
		_, err := floor.CreateZone(ctx, in)
		if err := zoneCount.record(err); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed zone %s: %v", in.Name, err)
		}
	}
	existing, err := floor.ListZones(ctx)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to list zones: %v", err)
	}
	zoneIDs := make(map[string]uint, len(existing))
	for _, z := range existing {
		zoneIDs[z.Name] = z.ID
	}

	var tables counter
	capacities := []int{2, 4, 6, 4, 2}
	for i := 1; i <= 20; i++ {
		in := services.TableInput{
			Number:   i,
			Capacity: capacities[i%5],
			X:        float64((i-1)%5*120 + 50),
			Y:        float64((i-1)/5*150 + 50),
		}
		if id, ok := zoneIDs[zones[(i-1)/5%len(zones)].Name]; ok {
			in.ZoneID = &id
		}
		_, err := floor.CreateTable(ctx, in)
		if err := tables.record(err); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed table %d: %v", i, err)
		}
	}

	catalog, err := floor.ListProducts(ctx, services.ProductFilter{})
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to list products: %v", err)
	}
	known := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		known[p.Name] = true
	}

	var products counter
	for _, p := range menu {
		if known[p.name] {
			products.skipped++
			continue
		}
		_, err := floor.CreateProduct(ctx, services.ProductInput{
			Name:     p.name,
			Category: p.category,
			Type:     p.kind,
			Price:    decimal.NewFromInt(p.price),
		})
		if err := products.record(err); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed product %s: %v", p.name, err)
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"users":    users.created,
		"zones":    zoneCount.created,
		"tables":   tables.created,
		"products": products.created,
		"skipped":  users.skipped + zoneCount.skipped + tables.skipped + products.skipped,
	}).Info("Seed complete")
}
