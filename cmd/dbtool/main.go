package main

import (
	"context"
	"log"
	"logistics-sim/internal/adapters/repositories"
	"logistics-sim/internal/config"
	"logistics-sim/internal/platform/db"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool prepares a shared database for several simulation servers.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}
	driver := config.Get("DB_DRIVER", db.DriverPostgres)

	conn, err := db.Open(driver, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Applying migrations...")
	if err := repositories.Migrate(context.Background(), conn, driver); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Schema ready.")
}
