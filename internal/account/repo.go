package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("account: user not found")

// Querier captures the database methods required by the account service.
type Querier interface {
	GetUserByID(ctx context.Context, id string) (User, error)
	UpsertUserByGoogleID(ctx context.Context, u User) (User, error)
	UpdateAccountDetails(ctx context.Context, id string, billing, shipping DetailBlock) (User, error)
}

// Repo implements Querier against Postgres. Detail blocks are stored as
// JSONB, mirroring their document shape.
type Repo struct {
	Pool *pgxpool.Pool
}

const userColumns = `id, google_id, display_name, email, image, role, billing_details, shipping_details, created_at, updated_at`

// GetUserByID fetches a user by primary key.
func (r Repo) GetUserByID(ctx context.Context, id string) (User, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpsertUserByGoogleID inserts the user on first login and refreshes the
// Google profile fields on every subsequent one.
func (r Repo) UpsertUserByGoogleID(ctx context.Context, u User) (User, error) {
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO users (google_id, display_name, email, image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    email = EXCLUDED.email,
		    image = EXCLUDED.image,
		    updated_at = now()
		RETURNING `+userColumns, u.GoogleID, u.DisplayName, u.Email, u.Image)
	return scanUser(row)
}

// UpdateAccountDetails replaces both detail blocks.
func (r Repo) UpdateAccountDetails(ctx context.Context, id string, billing, shipping DetailBlock) (User, error) {
	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return User{}, fmt.Errorf("marshal billing details: %w", err)
	}
	shippingJSON, err := json.Marshal(shipping)
	if err != nil {
		return User{}, fmt.Errorf("marshal shipping details: %w", err)
	}
	row := r.Pool.QueryRow(ctx, `
		UPDATE users
		SET billing_details = $2, shipping_details = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, billingJSON, shippingJSON)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var (
		u           User
		billingRaw  []byte
		shippingRaw []byte
	)
	err := row.Scan(&u.ID, &u.GoogleID, &u.DisplayName, &u.Email, &u.Image, &u.Role, &billingRaw, &shippingRaw, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	if len(billingRaw) > 0 {
		if err := json.Unmarshal(billingRaw, &u.BillingDetails); err != nil {
			return User{}, fmt.Errorf("decode billing details: %w", err)
		}
	}
	if len(shippingRaw) > 0 {
		if err := json.Unmarshal(shippingRaw, &u.ShippingDetails); err != nil {
			return User{}, fmt.Errorf("decode shipping details: %w", err)
		}
	}
	return u, nil
}
