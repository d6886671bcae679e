package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"rentalhub-backend/internal/domain"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var hundred = decimal.NewFromInt(100)

// FeeInput carries everything the fee calculation reads. It is assembled by the caller
// so that CalculateFees never touches storage.
type FeeInput struct {
	PricePerDay     decimal.Decimal
	DurationDays    int32
	SecurityDeposit decimal.Decimal
	PickupMethod    domain.PickupMethod
	Settings        domain.FeeSettings
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %q", dateStr)
	}
	return t, nil
}

// RentalDurationDays returns the number of days a booking spans, counting both the
// start and the end day. A partial day counts as a whole one.
func RentalDurationDays(start, end time.Time) (int32, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	// Unix seconds cover any calendar range; time.Duration stops at about 292 years.
	secs := end.Unix() - start.Unix()
	nanos := end.Nanosecond() - start.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 || nanos != 0 {
		days++
	}
	days++
	if days > math.MaxInt32 {
		return 0, fmt.Errorf("booking spans more than %d days", math.MaxInt32)
	}
	return int32(days), nil
}

// CalculateFees computes the fee breakdown for a booking.
//
//	subtotal = price_per_day * duration_days
//	delivery = settings.DeliveryFee when the item is delivered, else 0
//	renter fee / owner fee = subtotal * pct / 100
//	total = subtotal + deposit + delivery + renter fee
//
// The owner fee is reported but never charged to the renter.
func CalculateFees(in FeeInput) domain.FeeBreakdown {
	subtotal := in.PricePerDay.Mul(decimal.NewFromInt32(in.DurationDays))

	deliveryFee := decimal.Zero
	if in.PickupMethod == domain.PickupMethodDelivery {
		deliveryFee = nonNegative(in.Settings.DeliveryFee)
	}

	renterFee := percentOf(subtotal, in.Settings.RenterFeePercent)
	ownerFee := percentOf(subtotal, in.Settings.OwnerFeePercent)
	deposit := nonNegative(in.SecurityDeposit)

	return domain.FeeBreakdown{
		DurationDays:      in.DurationDays,
		PricePerDay:       in.PricePerDay,
		SecurityDeposit:   deposit,
		Subtotal:          subtotal.Round(2),
		DeliveryFee:       deliveryFee.Round(2),
		PlatformFeeRenter: renterFee,
		PlatformFeeOwner:  ownerFee,
		TotalDue:          subtotal.Add(deposit).Add(deliveryFee).Add(renterFee).Round(2),
	}
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(pct).Div(hundred).Round(2)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
