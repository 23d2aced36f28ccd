package migrations

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"printcalc/internal/models"
	"printcalc/internal/repository"
	"printcalc/internal/services"
)

// RunMigrations creates or updates every table. Parents are migrated before
// the tables that reference them.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	err := db.AutoMigrate(
		&models.AcademicYear{},
		&models.Subject{},
		&models.Book{},
		&models.PrintingPrice{},
		&models.AddOn{},
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}

type SeedOptions struct {
	Admin services.CreateEmployeeInput
}

func defaultTiers() []services.TierInput {
	return []services.TierInput{
		{
			Name:         "Single-sided",
			PricePerUnit: decimal.RequireFromString("0.50"),
			PagesPerUnit: 2,
			Description:  "Black and white, one side per sheet",
		},
		{
			Name:         "Double-sided",
			PricePerUnit: decimal.RequireFromString("0.80"),
			PagesPerUnit: 4,
			Description:  "Black and white, both sides of each sheet",
		},
	}
}

func defaultAddOns() []services.AddOnInput {
	return []services.AddOnInput{
		{Name: "Cover", Price: decimal.RequireFromString("7.00"), Description: "Printed card cover"},
		{Name: "Binding", Price: decimal.RequireFromString("5.00"), Description: "Spiral binding"},
	}
}

// EnsureSeedData inserts the default tiers, add-ons and administrator when
// they are missing. Running it again changes nothing.
func EnsureSeedData(ctx context.Context, db *gorm.DB, opts SeedOptions, log *zap.Logger) error {
	pricingRepo := repository.NewPricingRepository(db)
	settings := services.NewSettingsService(pricingRepo)
	employees := services.NewEmployeeService(repository.NewEmployeeRepository(db))
	return ensureSeed(ctx, pricingRepo, settings, employees, opts, log)
}

func ensureSeed(
	ctx context.Context,
	pricingRepo repository.PricingRepository,
	settings services.SettingsService,
	employees services.EmployeeService,
	opts SeedOptions,
	log *zap.Logger,
) error {
	tiers, err := pricingRepo.CountTiers(ctx)
	if err != nil {
		return err
	}
	if tiers == 0 {
		for _, in := range defaultTiers() {
			if _, err := settings.CreateTier(ctx, in); err != nil {
				return fmt.Errorf("failed to seed printing price %q: %w", in.Name, err)
			}
		}
		log.Info("seeded printing prices", zap.Int("count", len(defaultTiers())))
	}

	addOns, err := pricingRepo.CountAddOns(ctx)
	if err != nil {
		return err
	}
	if addOns == 0 {
		for _, in := range defaultAddOns() {
			if _, err := settings.CreateAddOn(ctx, in); err != nil {
				return fmt.Errorf("failed to seed add-on %q: %w", in.Name, err)
			}
		}
		log.Info("seeded add-ons", zap.Int("count", len(defaultAddOns())))
	}

	created, err := employees.EnsureAdmin(ctx, opts.Admin)
	if err != nil {
		return fmt.Errorf("failed to seed administrator: %w", err)
	}
	if created {
		log.Warn("created administrator account, change its password", zap.String("username", opts.Admin.Username))
	}
	return nil
}
