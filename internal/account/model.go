package account

import (
	"strings"
	"time"
)

// DetailBlock is one address block of the sender identity. The same shape
// serves billing and shipping.
type DetailBlock struct {
	Name          string `json:"name"`
	Organisation  string `json:"organisation"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	PinCode       string `json:"pinCode"`
	State         string `json:"state"`
	GSTNumber     string `json:"gstNumber"`
}

// MissingFields lists the required fields that are still blank. A block is
// required-complete before a quote may be saved, downloaded, or emailed.
func (b DetailBlock) MissingFields() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", b.Name},
		{"address", b.Address},
		{"contactNumber", b.ContactNumber},
		{"pinCode", b.PinCode},
		{"state", b.State},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Complete reports whether all required fields are present.
func (b DetailBlock) Complete() bool {
	return len(b.MissingFields()) == 0
}

// User is the authenticated profile, including the sender identity used on
// every generated document.
type User struct {
	ID              string      `json:"id"`
	GoogleID        string      `json:"-"`
	DisplayName     string      `json:"displayName"`
	Email           string      `json:"email"`
	Image           string      `json:"image"`
	Role            string      `json:"role"`
	BillingDetails  DetailBlock `json:"billingDetails"`
	ShippingDetails DetailBlock `json:"shippingDetails"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
