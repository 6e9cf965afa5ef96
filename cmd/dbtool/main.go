package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"market-route-service/internal/adapters/repositories"
	"market-route-service/internal/config"
	"market-route-service/internal/platform/db"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding markets from %s...", seedPath)
	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
