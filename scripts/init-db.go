package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"printcalc/internal/config"
	"printcalc/internal/database"
	"printcalc/internal/logger"
	"printcalc/internal/migrations"
	"printcalc/internal/services"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zl.Sync()

	db, err := database.Initialize(cfg.DatabaseURL, database.Options{SlowQueryThreshold: cfg.SlowQueryThreshold}, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := migrations.RunMigrations(db, zl); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}

	err = migrations.EnsureSeedData(context.Background(), db, migrations.SeedOptions{
		Admin: services.CreateEmployeeInput{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			FullName: cfg.AdminFullName,
			Phone:    cfg.AdminPhone,
		},
	}, zl)
	if err != nil {
		zl.Fatal("failed to seed database", zap.Error(err))
	}

	fmt.Println("Database initialization completed successfully!")
}
