package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/coupon"
)

// ErrNotFound is returned when a quote does not exist or belongs to another
// user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("quote not found")

// Querier is the storage surface the quote service needs.
type Querier interface {
	InsertQuote(ctx context.Context, q *Quote) error
	ListQuotesByUser(ctx context.Context, userID string, p common.Pagination) ([]Quote, error)
	GetQuoteByID(ctx context.Context, id, userID string) (Quote, error)
	DeleteQuote(ctx context.Context, id, userID string) error
}

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const quoteColumns = `id, user_id, quote_number, client_name, line_items,
	coupon_code, coupon_discount_percentage::text, gst_percentage::text,
	subtotal::text, coupon_discount_amount::text, gst_amount::text,
	grand_total::text, created_at`

// InsertQuote stores the quote and, when a coupon rode along, consumes it in
// the same transaction. A coupon that was already used rolls the whole save
// back with coupon.ErrAlreadyUsed.
func (r *Repo) InsertQuote(ctx context.Context, q *Quote) error {
	lines, err := json.Marshal(q.Lines)
	if err != nil {
		return fmt.Errorf("encode line items: %w", err)
	}

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (
			user_id, quote_number, client_name, line_items,
			coupon_code, coupon_discount_percentage, gst_percentage,
			subtotal, coupon_discount_amount, gst_amount, grand_total
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		q.UserID, q.QuoteNumber, q.ClientName, lines,
		q.CouponCode, q.CouponDiscountPercentage, q.GSTPercentage,
		q.Subtotal, q.CouponDiscountAmount, q.GSTAmount, q.GrandTotal,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	if q.CouponCode != "" {
		if err := coupon.Consume(ctx, tx, q.CouponCode); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) ListQuotesByUser(ctx context.Context, userID string, p common.Pagination) ([]Quote, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (r *Repo) GetQuoteByID(ctx context.Context, id, userID string) (Quote, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = $1 AND user_id = $2`,
		id, userID)
	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	return q, err
}

func (r *Repo) DeleteQuote(ctx context.Context, id, userID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM quotes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuote(row pgx.Row) (Quote, error) {
	var (
		q         Quote
		lines     []byte
		code      *string
		couponPct string
		gstPct    string
		subtotal  string
		discount  string
		gst       string
		grand     string
	)
	err := row.Scan(&q.ID, &q.UserID, &q.QuoteNumber, &q.ClientName, &lines,
		&code, &couponPct, &gstPct, &subtotal, &discount, &gst, &grand,
		&q.CreatedAt)
	if err != nil {
		return Quote{}, err
	}
	if code != nil {
		q.CouponCode = *code
	}
	if err := json.Unmarshal(lines, &q.Lines); err != nil {
		return Quote{}, fmt.Errorf("decode line items: %w", err)
	}
	for _, pair := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&q.CouponDiscountPercentage, couponPct},
		{&q.GSTPercentage, gstPct},
		{&q.Subtotal, subtotal},
		{&q.CouponDiscountAmount, discount},
		{&q.GSTAmount, gst},
		{&q.GrandTotal, grand},
	} {
		d, err := decimal.NewFromString(pair.src)
		if err != nil {
			return Quote{}, fmt.Errorf("decode amount %q: %w", pair.src, err)
		}
		*pair.dst = d
	}
	return q, nil
}
