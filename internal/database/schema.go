package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"coffee-backend/internal/db"
	"coffee-backend/internal/models"
)

// Step is one idempotent schema statement.
type Step struct {
	Name string
	SQL  string
}

// SchemaManager ensures the coffee_lots, producers and drivers tables exist.
type SchemaManager struct {
	db db.Querier
}

// NewSchemaManager creates a schema manager over the given connection pool.
func NewSchemaManager(q db.Querier) *SchemaManager {
	return &SchemaManager{db: q}
}

// EnsureSchema runs every step in order. Each statement is guarded with
// IF NOT EXISTS / IF EXISTS, so this is safe to call on every startup.
func (m *SchemaManager) EnsureSchema(ctx context.Context) error {
	log.Println("[Schema] Ensuring database schema...")

	for _, step := range Steps() {
		log.Printf("[Schema]   → %s", step.Name)
		if _, err := m.db.Exec(ctx, step.SQL); err != nil {
			return fmt.Errorf("schema step %q: %w", step.Name, err)
		}
	}

	log.Println("[Schema] ✓ Schema is up to date")
	return nil
}

// Steps returns the ordered schema statements.
func Steps() []Step {
	return []Step{
		{Name: "create coffee_lots", SQL: createCoffeeLotsSQL()},
		{Name: "enable uuid-ossp", SQL: `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`},
		{Name: "create producers", SQL: `
			CREATE TABLE IF NOT EXISTS producers (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name VARCHAR(255) NOT NULL,
				property_name VARCHAR(255)
			)`},
		{Name: "add producers.property_name", SQL: `ALTER TABLE producers ADD COLUMN IF NOT EXISTS property_name VARCHAR(255)`},
		{Name: "drop legacy producers_name_key", SQL: `ALTER TABLE producers DROP CONSTRAINT IF EXISTS producers_name_key`},
		{Name: "drop legacy unique_producer_name_property", SQL: `ALTER TABLE producers DROP CONSTRAINT IF EXISTS unique_producer_name_property`},
		{Name: "drop legacy producer index", SQL: `DROP INDEX IF EXISTS ` + LegacyProducerIndex},
		{Name: "index normalized producers", SQL: `
			CREATE UNIQUE INDEX IF NOT EXISTS ` + ProducerIndex + `
			ON producers (` + ProducerKeyExpr + `)`},
		{Name: "create drivers", SQL: `
			CREATE TABLE IF NOT EXISTS drivers (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name VARCHAR(255) NOT NULL
			)`},
		{Name: "drop legacy driver index", SQL: `DROP INDEX IF EXISTS ` + LegacyDriverIndex},
		{Name: "index normalized drivers", SQL: `
			CREATE UNIQUE INDEX IF NOT EXISTS ` + DriverIndex + `
			ON drivers (` + DriverKeyExpr + `)`},
		{Name: "index active entry bays", SQL: `
			CREATE UNIQUE INDEX IF NOT EXISTS ` + ActiveBayIndex + `
			ON coffee_lots (boca_entrada) WHERE status = 'active'`},
	}
}

// Index names and the normalized-key expressions behind them. ON CONFLICT
// inference only matches when the INSERT repeats the exact expression.
const (
	ProducerIndex   = "idx_unique_producer_key"
	DriverIndex     = "idx_unique_driver_key"
	ActiveBayIndex  = "idx_unique_active_boca_entrada"
	ProducerKeyExpr = "LOWER(TRIM(name)), LOWER(TRIM(COALESCE(property_name, '')))"
	DriverKeyExpr   = "LOWER(TRIM(name))"
)

// Older databases carry indexes under these names with TRIM(LOWER(...))
// expressions that ON CONFLICT cannot infer from DriverKeyExpr or
// ProducerKeyExpr.
const (
	LegacyProducerIndex = "idx_unique_normalized_producer"
	LegacyDriverIndex   = "idx_unique_normalized_driver"
)

func createCoffeeLotsSQL() string {
	defs := make([]string, len(models.CoffeeLotColumns))
	for i, c := range models.CoffeeLotColumns {
		defs[i] = c.Name + " " + c.SQLType
	}
	return "CREATE TABLE IF NOT EXISTS coffee_lots (\n\t" + strings.Join(defs, ",\n\t") + "\n)"
}
