package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Querier against Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

// FindCoupon looks up a coupon by its normalized code.
func (r Repo) FindCoupon(ctx context.Context, code string) (Coupon, error) {
	var c Coupon
	err := r.Pool.QueryRow(ctx, `
		SELECT code, discount_percentage, is_used, created_at
		FROM coupons
		WHERE code = $1`, code).Scan(&c.Code, &c.DiscountPercentage, &c.IsUsed, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Coupon{}, ErrNotFound
		}
		return Coupon{}, fmt.Errorf("find coupon: %w", err)
	}
	return c, nil
}

// Execer is the slice of pgx satisfied by both pgxpool.Pool and pgx.Tx, so
// consumption can join whatever transaction the caller already holds.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Consume flips is_used to true only while it is still false. Of two racing
// writers exactly one sees an affected row; the loser gets ErrAlreadyUsed.
// This is the only place the consumption write lives.
func Consume(ctx context.Context, db Execer, code string) error {
	normalized := Normalize(code)
	if normalized == "" {
		return ErrCodeRequired
	}
	tag, err := db.Exec(ctx, `
		UPDATE coupons
		SET is_used = TRUE
		WHERE code = $1 AND is_used = FALSE`, normalized)
	if err != nil {
		return fmt.Errorf("consume coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyUsed
	}
	return nil
}
