// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"gudang/internal/core/id"
	"gudang/internal/infrastructure/storage/postgres"
	"gudang/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@gudang.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, full_name, roles,
			is_active, is_admin, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System Admin', '{manager,staff}', true, true, $4, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	type uomSeed struct {
		code   string
		name   string
		symbol string
	}

	uoms := []uomSeed{
		{"UOM-00001", "Piece", "pcs"},
		{"UOM-00002", "Kilogram", "kg"},
		{"UOM-00003", "Box", "box"},
	}

	uomIDs := make(map[string]id.ID)
	for _, u := range uoms {
		uid := id.New()
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_uom (id, code, name, symbol)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING
		`, uid, u.code, u.name, u.symbol)
		if err != nil {
			return fmt.Errorf("seed uom %s: %w", u.symbol, err)
		}
		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_uom WHERE code = $1`, u.code,
			).Scan(&uid); err != nil {
				return fmt.Errorf("fetch uom %s: %w", u.symbol, err)
			}
		}
		uomIDs[u.symbol] = uid
	}

	// One box holds a dozen pieces.
	_, err := pool.Pool.Exec(ctx, `
		INSERT INTO cat_uom_conversion (id, from_uom_id, to_uom_id, rate)
		VALUES ($1, $2, $3, 12)
		ON CONFLICT (from_uom_id, to_uom_id) DO NOTHING
	`, id.New(), uomIDs["box"], uomIDs["pcs"])
	if err != nil {
		return fmt.Errorf("seed uom conversion: %w", err)
	}

	locations := []struct {
		code, name, locType string
	}{
		{"LOC-00001", "Main Warehouse", "warehouse"},
		{"LOC-00002", "Downtown Store", "store"},
	}
	for _, l := range locations {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_location (id, code, name, type)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), l.code, l.name, l.locType)
		if err != nil {
			return fmt.Errorf("seed location %s: %w", l.code, err)
		}
	}

	products := []struct {
		code, name, sku, barcode string
		price                    int64 // minor units
		minStock                 int64 // fixed-point, scale 1e4
	}{
		{"PRD-00001", "Mineral Water 600ml", "WTR-600", "8991002100014", 3500, 240000},
		{"PRD-00002", "Instant Noodles", "NDL-001", "8991002100021", 3000, 500000},
		{"PRD-00003", "Rice 5kg", "RCE-5KG", "8991002100038", 68000, 100000},
	}
	for _, p := range products {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_product (id, code, name, sku, barcode, base_uom_id, price, min_stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), p.code, p.name, p.sku, p.barcode, uomIDs["pcs"], p.price, p.minStock)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.code, err)
		}
	}

	log.Infow("demo data seeded",
		"uoms", len(uoms),
		"locations", len(locations),
		"products", len(products),
	)
	return nil
}
