package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"coffee-backend/internal/config"
	"coffee-backend/internal/database"
	"coffee-backend/internal/db"
)

func main() {
	seed := flag.Bool("seed", false, "Insert a sample producer and driver after the reset")
	flag.Parse()

	cfg := config.Load()

	fmt.Println("========================================")
	fmt.Println("   Reset Coffee Intake Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Printf("Database: %s@%s:%d/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all coffee lots")
	fmt.Println("  - Delete all producers")
	fmt.Println("  - Delete all drivers")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	// Tables must exist before they can be truncated
	if err := database.NewSchemaManager(pool).EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v\n", err)
	}

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"coffee_lots", "producers", "drivers"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	if *seed {
		if _, err := tx.Exec(ctx, `INSERT INTO producers (name, property_name) VALUES ($1, $2)`, "Produtor Exemplo", "Fazenda Exemplo"); err != nil {
			log.Fatalf("Failed to seed producer: %v\n", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO drivers (name) VALUES ($1)`, "Caminhoneiro Exemplo"); err != nil {
			log.Fatalf("Failed to seed driver: %v\n", err)
		}
		fmt.Println("  ✓ Seeded sample producer and driver")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("✅ Database reset successful!")
}
