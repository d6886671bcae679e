package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductAvailability string

const (
	ProductAvailable   ProductAvailability = "available"
	ProductUnavailable ProductAvailability = "unavailable"
	ProductRentedOut   ProductAvailability = "rented_out"
)

type ProductApproval string

const (
	ProductApprovalPending  ProductApproval = "pending"
	ProductApprovalApproved ProductApproval = "approved"
	ProductApprovalRejected ProductApproval = "rejected"
)

type Product struct {
	ID                    int32               `json:"id"`
	OwnerID               int32               `json:"owner_id"`
	Title                 string              `json:"title"`
	RentalPricePerDay     decimal.Decimal     `json:"rental_price_per_day"`
	SecurityDeposit       decimal.Decimal     `json:"security_deposit"`
	Quantity              int32               `json:"quantity"`
	QuantityAvailable     int32               `json:"quantity_available"`
	AvailabilityStatus    ProductAvailability `json:"availability_status"`
	AdminApprovalStatus   ProductApproval     `json:"admin_approval_status"`
	MinRentalDurationDays int32               `json:"min_rental_duration_days"`
	MaxRentalDurationDays *int32              `json:"max_rental_duration_days,omitempty"`
	RequiresApproval      bool                `json:"requires_approval"`
	CreatedAt             time.Time           `json:"created_at"`
}

// TracksStock reports whether the product's quantity counter is managed per rental.
func (p *Product) TracksStock() bool {
	return p.Quantity > 0
}

// OutOfStock reports whether a stock-tracked product has no unit left to rent.
func (p *Product) OutOfStock() bool {
	return p.TracksStock() && p.QuantityAvailable < 1
}

// MinDurationDays returns the minimum rental length, defaulting to one day.
func (p *Product) MinDurationDays() int32 {
	if p.MinRentalDurationDays < 1 {
		return 1
	}
	return p.MinRentalDurationDays
}
