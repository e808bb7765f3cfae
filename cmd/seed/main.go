package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mercadovecino/backend/internal/config"
	"github.com/mercadovecino/backend/internal/db"
)

type seedCategory struct {
	Slug string
	Name string
}

type seedProduct struct {
	Title        string
	Description  string
	Price        int64
	CategorySlug string
	SellerUID    string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	canSeed, err := shouldSeed(ctx, sqlDB)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("products already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `TRUNCATE TABLE products, categories RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	for _, cat := range buildSeedCategories() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO categories (slug, name, created_at, updated_at) VALUES ($1, $2, NOW(), NOW())`,
			cat.Slug, cat.Name); err != nil {
			return fmt.Errorf("insert category %s: %w", cat.Slug, err)
		}
	}

	products := buildSeedProducts()
	for idx, p := range products {
		imageURL := picsumURL(p.CategorySlug, idx+1)
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO products (title, description, price, image_url, category_slug, seller_uid, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())`,
			p.Title, p.Description, p.Price, imageURL, p.CategorySlug, p.SellerUID); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("seeded %d categories, %d products", len(buildSeedCategories()), len(products))
	return nil
}

func shouldSeed(ctx context.Context, sqlDB *sql.DB) (bool, error) {
	if strings.EqualFold(os.Getenv("FORCE_SEED"), "true") {
		return true, nil
	}
	var count int64
	if err := sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	return count == 0, nil
}

func buildSeedCategories() []seedCategory {
	return []seedCategory{
		{Slug: "hogar", Name: "Hogar y muebles"},
		{Slug: "electronica", Name: "Electrónica"},
		{Slug: "ropa", Name: "Ropa y accesorios"},
		{Slug: "deportes", Name: "Deportes"},
		{Slug: "alimentos", Name: "Alimentos caseros"},
	}
}

func buildSeedProducts() []seedProduct {
	seller := "seed-vendor-1"
	return []seedProduct{
		{Title: "Mesa de comedor de pino", Description: "Mesa artesanal de pino, 4 puestos, barnizada. Entrega en el barrio.", Price: 250000, CategorySlug: "hogar", SellerUID: seller},
		{Title: "Audífonos bluetooth", Description: "Audífonos inalámbricos con estuche de carga, poco uso.", Price: 85000, CategorySlug: "electronica", SellerUID: seller},
		{Title: "Chaqueta impermeable M", Description: "Chaqueta para lluvia talla M, color azul, como nueva.", Price: 60000, CategorySlug: "ropa", SellerUID: seller},
		{Title: "Balón de fútbol", Description: "Balón número 5 profesional, ideal para cancha sintética.", Price: 45000, CategorySlug: "deportes", SellerUID: seller},
		{Title: "Arepas rellenas x12", Description: "Docena de arepas rellenas caseras, pedido con un día de anticipación.", Price: 30000, CategorySlug: "alimentos", SellerUID: seller},
	}
}

func picsumURL(slug string, n int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%d/640/480", slug, n)
}
