package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Querier captures the database methods required by the catalog service.
type Querier interface {
	SearchProducts(ctx context.Context, term string, categories []string, limit int32) ([]Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// Repo implements Querier against Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

const productColumns = `id, product_code, base_name, variant_name, description, categories, base_price::text`

// SearchProducts matches the term case-insensitively against base and variant
// names and optionally filters by category overlap.
func (r Repo) SearchProducts(ctx context.Context, term string, categories []string, limit int32) ([]Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if categories == nil {
		categories = []string{}
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE ($1 = '' OR base_name ILIKE '%' || $1 || '%' OR variant_name ILIKE '%' || $1 || '%')
		  AND (cardinality($2::text[]) = 0 OR categories && $2::text[])
		ORDER BY base_name, variant_name
		LIMIT $3`, term, categories, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetProductsByIDs resolves product references in bulk for quote
// normalization. Malformed ids are dropped rather than failing the batch.
func (r Repo) GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		parsed = append(parsed, u)
	}
	if len(parsed) == 0 {
		return nil, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ANY($1)`, parsed)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListCategories returns every distinct category name in sorted order.
func (r Repo) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT unnest(categories) AS category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.ProductCode, &p.BaseName, &p.VariantName, &p.Description, &p.Categories, &price); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse base price %q: %w", price, err)
		}
		p.BasePrice = parsed
		products = append(products, p)
	}
	return products, rows.Err()
}
