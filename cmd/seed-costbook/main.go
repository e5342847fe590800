// seed-costbook loads a starter cost book of common rehab line items with
// national-average low/mid/high pricing. Rows are upserted on
// (category, name, unit, region), so rerunning is safe and refreshes prices.
//
// Usage (from the repo root):
//
//	RT_DB_DSN=postgres://... go run ./cmd/seed-costbook
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"rehabtrack/internal/config"
	"rehabtrack/internal/db"
	"rehabtrack/internal/models"
	gormrepository "rehabtrack/internal/repository/gorm"
)

type seedRow struct {
	category string
	name     string
	unit     string
	low      int64
	mid      int64
	high     int64
}

var starterBook = []seedRow{
	{models.CategoryDemo, "Interior demo and haul-off", "sqft", 1, 2, 4},
	{models.CategoryDemo, "Dumpster rental 30yd", "each", 400, 550, 750},
	{models.CategoryFoundation, "Crack injection repair", "each", 400, 650, 1200},
	{models.CategoryFoundation, "Pier installation", "each", 1200, 1800, 3000},
	{models.CategoryRoof, "Asphalt shingle tear-off and replace", "sq", 350, 450, 650},
	{models.CategoryRoof, "Decking replacement", "sheet", 70, 95, 140},
	{models.CategoryExterior, "Vinyl siding", "sqft", 3, 5, 8},
	{models.CategoryExterior, "Exterior paint", "sqft", 2, 3, 5},
	{models.CategoryWindowsDoors, "Vinyl window replacement", "each", 350, 500, 800},
	{models.CategoryWindowsDoors, "Exterior door prehung", "each", 450, 700, 1200},
	{models.CategoryWindowsDoors, "Interior door prehung", "each", 180, 250, 400},
	{models.CategoryPlumbing, "Full repipe PEX 3bd", "each", 4000, 6000, 9000},
	{models.CategoryPlumbing, "Water heater 40gal", "each", 900, 1300, 1900},
	{models.CategoryElectrical, "Panel upgrade 200A", "each", 1800, 2500, 3800},
	{models.CategoryElectrical, "Rewire per opening", "each", 90, 130, 200},
	{models.CategoryHVAC, "Complete HVAC system 3ton", "each", 5500, 7500, 11000},
	{models.CategoryHVAC, "Ductwork replacement", "run", 350, 500, 800},
	{models.CategoryInsulationDrywall, "Drywall hung and finished", "sqft", 1, 2, 3},
	{models.CategoryInsulationDrywall, "Attic blown-in insulation", "sqft", 1, 2, 2},
	{models.CategoryPaint, "Interior paint walls and trim", "sqft", 2, 3, 4},
	{models.CategoryFlooring, "LVP flooring installed", "sqft", 3, 5, 8},
	{models.CategoryFlooring, "Carpet installed", "sqft", 2, 3, 5},
	{models.CategoryKitchen, "Kitchen full remodel budget grade", "each", 8000, 12000, 20000},
	{models.CategoryKitchen, "Granite countertops", "sqft", 40, 60, 100},
	{models.CategoryBath, "Full bath remodel", "each", 4000, 7000, 12000},
	{models.CategoryBath, "Tub and surround replacement", "each", 1200, 1800, 3000},
	{models.CategoryLandscaping, "Yard cleanup and sod", "sqft", 1, 2, 3},
	{models.CategoryLandscaping, "Tree removal", "each", 400, 800, 2000},
	{models.CategoryPermits, "Building permit package", "each", 500, 1200, 3000},
	{models.CategoryOther, "Final clean", "each", 300, 450, 700},
}

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("RT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if envOnlyRaw := os.Getenv("RT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		fmt.Fprintf(os.Stderr, "auto-migrate: %v\n", err)
		os.Exit(1)
	}

	region := strings.TrimSpace(os.Getenv("RT_SEED_REGION"))

	rows := make([]models.CostReference, 0, len(starterBook))
	for _, r := range starterBook {
		rows = append(rows, models.CostReference{
			Category: r.category,
			Name:     r.name,
			Unit:     r.unit,
			LowCost:  decimal.NewFromInt(r.low),
			MidCost:  decimal.NewFromInt(r.mid),
			HighCost: decimal.NewFromInt(r.high),
			Region:   region,
		})
	}

	store := gormrepository.New(dbConn.Gorm)
	if err := store.UpsertCostReferences(context.Background(), rows); err != nil {
		fmt.Fprintf(os.Stderr, "upsert cost references: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d cost book entries (region=%q)\n", len(rows), region)
}
