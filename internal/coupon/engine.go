// Package coupon implements one-shot, whole-quote percentage discount codes.
// Applying a code is a pure check; consumption happens exactly once, as a side
// effect of a successful quote save.
package coupon

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned for unknown codes. Used coupons surface the same
	// way so callers cannot probe which codes ever existed.
	ErrNotFound = errors.New("coupon: invalid or used coupon")
	// ErrAlreadyUsed indicates a consume attempt lost the race against another
	// save referencing the same code.
	ErrAlreadyUsed = errors.New("coupon: already consumed")
	// ErrCodeRequired is returned when no code was supplied.
	ErrCodeRequired = errors.New("coupon: code is required")
)

// Coupon is a one-time-use discount code.
type Coupon struct {
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discountPercentage"`
	IsUsed             bool      `json:"isUsed"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Normalize upper-cases and trims a code for case-insensitive matching.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Usable reports whether the coupon can still discount a quote.
func (c Coupon) Usable() bool {
	return !c.IsUsed && c.DiscountPercentage >= 1 && c.DiscountPercentage <= 100
}
