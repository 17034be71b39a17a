package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	csvPath := os.Getenv("PRODUCTS_CSV")
	if csvPath == "" {
		csvPath = "products.csv"
	}
	seedProducts(db, csvPath)
	seedCoupons(db)

	log.Println("Seeding completed successfully!")
}

// seedProducts imports the product catalog from a CSV with columns
// productId, baseName, variantName, description, category, basePrice.
// The category cell may hold several comma-separated names.
func seedProducts(db *sql.DB, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")] = i
	}

	fmt.Println("Seeding Products...")
	inserted, skipped, row := 0, 0, 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			log.Printf("[SKIPPING] Row %d is malformed: %v", row, err)
			skipped++
			continue
		}

		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		basePrice, err := strconv.ParseFloat(cell("basePrice"), 64)
		if err != nil || basePrice < 0 {
			log.Printf("[SKIPPING] Row %d has an invalid basePrice", row)
			skipped++
			continue
		}
		code, baseName := cell("productId"), cell("baseName")
		if code == "" || baseName == "" {
			log.Printf("[SKIPPING] Row %d is missing a required field", row)
			skipped++
			continue
		}

		categories := []string{"Uncategorized"}
		if raw := cell("category"); raw != "" {
			categories = categories[:0]
			for _, c := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(c); trimmed != "" {
					categories = append(categories, trimmed)
				}
			}
		}

		_, err = db.Exec(`
			INSERT INTO products (product_code, base_name, variant_name, description, categories, base_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_code) DO UPDATE SET
				base_name = EXCLUDED.base_name,
				variant_name = EXCLUDED.variant_name,
				description = EXCLUDED.description,
				categories = EXCLUDED.categories,
				base_price = EXCLUDED.base_price;
		`, code, baseName, cell("variantName"), cell("description"), pq.Array(categories), basePrice)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", code, err)
			continue
		}
		inserted++
	}
	fmt.Printf("Seeded %d products (%d rows skipped).\n", inserted, skipped)
}

func seedCoupons(db *sql.DB) {
	coupons := []struct {
		Code     string
		Discount int
	}{
		{"WELCOME10", 10},
		{"FESTIVE15", 15},
		{"SAVE20", 20},
		{"PARTNER25", 25},
	}

	fmt.Println("Seeding Coupons...")
	for _, c := range coupons {
		_, err := db.Exec(`
			INSERT INTO coupons (code, discount_percentage)
			VALUES ($1, $2)
			ON CONFLICT (code) DO NOTHING;
		`, c.Code, c.Discount)
		if err != nil {
			log.Printf("Failed to seed coupon %s: %v", c.Code, err)
		}
	}
}
