// Command setup creates the schema and loads the initial data set: an
// admin account, a client account and a handful of catalog products.
package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/matheusmosca/go-commerce/internal/config"
	"github.com/matheusmosca/go-commerce/internal/entity"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'client' CHECK (role IN ('admin', 'client')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		quantity_available INTEGER NOT NULL DEFAULT 0 CHECK (quantity_available >= 0),
		entry_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE,
		total_amount NUMERIC(10,2) NOT NULL,
		purchase_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_items (
		id UUID PRIMARY KEY,
		purchase_id UUID NOT NULL REFERENCES purchases(id) ON UPDATE CASCADE ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id) ON UPDATE CASCADE ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		unit_price NUMERIC(10,2) NOT NULL,
		subtotal NUMERIC(10,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_user_id ON purchases(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_purchase_date ON purchases(purchase_date)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_items_purchase_id ON purchase_items(purchase_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_items_product_id ON purchase_items(product_id)`,
}

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

type seedProduct struct {
	sku      string
	name     string
	price    string
	quantity int
}

var seedUsers = []seedUser{
	{"Administrator", "admin@test.com", "admin123", entity.RoleAdmin},
	{"Pepe Limones", "pepe@test.com", "cliente123", entity.RoleClient},
}

var seedProducts = []seedProduct{
	{"LOTE-2024-001", "Laptop HP Pavilion 15", "850.00", 15},
	{"LOTE-2024-002", "Mouse Inalambrico Logitech", "25.50", 50},
	{"LOTE-2024-003", "Teclado Mecanico RGB", "75.00", 30},
	{"LOTE-2024-004", "Monitor 24 Samsung FHD", "300.00", 20},
	{"LOTE-2024-005", "Impresora Laser HP", "200.00", 10},
	{"LOTE-2024-006", "Disco Duro SSD 500GB", "60.00", 25},
}

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	log.Println("schema created")

	now := time.Now()
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		_, err = db.Exec(`
			INSERT INTO users (id, name, email, password, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (email) DO NOTHING
		`, uuid.New().String(), u.name, u.email, string(hash), u.role, now)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
	}

	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			log.Fatalf("bad seed price %q: %v", p.price, err)
		}
		_, err = db.Exec(`
			INSERT INTO products (id, sku, name, price, quantity_available, entry_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
			ON CONFLICT (sku) DO NOTHING
		`, uuid.New().String(), p.sku, p.name, price, p.quantity, now)
		if err != nil {
			log.Fatalf("failed to seed product %s: %v", p.sku, err)
		}
	}

	log.Println("seed data inserted")
	log.Println("admin user: admin@test.com / admin123")
	log.Println("client user: pepe@test.com / cliente123")
}
