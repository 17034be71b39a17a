package coupon

import (
	"context"
	"errors"
	"fmt"
)

// Querier captures the database methods required by the coupon service.
// Consumption is not part of this surface: it happens inside the saving
// transaction via Consume.
type Querier interface {
	FindCoupon(ctx context.Context, code string) (Coupon, error)
}

// ApplyResult describes the outcome of a successful apply check.
type ApplyResult struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discountPercentage"`
	Message            string `json:"message"`
}

// Service evaluates coupon codes for the apply dry-run.
type Service struct {
	Q Querier
}

// Apply validates a code without mutating state, so repeated checks before a
// save never burn the coupon.
func (s *Service) Apply(ctx context.Context, code string) (ApplyResult, error) {
	if s == nil || s.Q == nil {
		return ApplyResult{}, errors.New("coupon service not configured")
	}
	normalized := Normalize(code)
	if normalized == "" {
		return ApplyResult{}, ErrCodeRequired
	}
	c, err := s.Q.FindCoupon(ctx, normalized)
	if err != nil {
		return ApplyResult{}, err
	}
	if !c.Usable() {
		return ApplyResult{}, ErrNotFound
	}
	return ApplyResult{
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage,
		Message:            fmt.Sprintf("Success! %d%% discount is valid.", c.DiscountPercentage),
	}, nil
}
