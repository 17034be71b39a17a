package account

import (
	"context"
	"errors"
	"strings"

	"github.com/noah-isme/backend-quote/internal/common"
)

// Service orchestrates profile reads and sender-identity updates.
type Service struct {
	Q Querier
}

// Get returns the profile for the given user id.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Q == nil {
		return User{}, errors.New("account service not configured")
	}
	u, err := s.Q.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, common.NewNotFoundError("user not found")
		}
		return User{}, err
	}
	return u, nil
}

// UpdateDetails replaces the billing and shipping blocks of the profile.
func (s *Service) UpdateDetails(ctx context.Context, userID string, billing, shipping DetailBlock) (User, error) {
	if s == nil || s.Q == nil {
		return User{}, errors.New("account service not configured")
	}
	u, err := s.Q.UpdateAccountDetails(ctx, userID, trimBlock(billing), trimBlock(shipping))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, common.NewNotFoundError("user not found")
		}
		return User{}, err
	}
	return u, nil
}

// RequireCompleteBilling gates quote save, download, and email on a complete
// sender identity.
func RequireCompleteBilling(u User) error {
	if missing := u.BillingDetails.MissingFields(); len(missing) > 0 {
		return common.NewValidationError("billing details incomplete", map[string]any{"missing": missing})
	}
	return nil
}

func trimBlock(b DetailBlock) DetailBlock {
	b.Name = strings.TrimSpace(b.Name)
	b.Organisation = strings.TrimSpace(b.Organisation)
	b.ContactNumber = strings.TrimSpace(b.ContactNumber)
	b.Email = strings.TrimSpace(b.Email)
	b.Address = strings.TrimSpace(b.Address)
	b.PinCode = strings.TrimSpace(b.PinCode)
	b.State = strings.TrimSpace(b.State)
	b.GSTNumber = strings.TrimSpace(b.GSTNumber)
	return b
}
