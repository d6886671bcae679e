package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPendingOwnerApproval RentalStatus = "pending_owner_approval"
	RentalStatusPendingPayment       RentalStatus = "pending_payment"
	RentalStatusConfirmed            RentalStatus = "confirmed"
	RentalStatusActive               RentalStatus = "active"
	RentalStatusReturnPending        RentalStatus = "return_pending"
	RentalStatusLateReturn           RentalStatus = "late_return"
	RentalStatusCompleted            RentalStatus = "completed"
	RentalStatusRejectedByOwner      RentalStatus = "rejected_by_owner"
	RentalStatusCancelledByRenter    RentalStatus = "cancelled_by_renter"
	RentalStatusCancelledByOwner     RentalStatus = "cancelled_by_owner"
	RentalStatusDispute              RentalStatus = "dispute"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid              PaymentStatus = "unpaid"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusPaid                PaymentStatus = "paid"
)

type PickupMethod string

const (
	PickupMethodPickup   PickupMethod = "pickup"
	PickupMethodDelivery PickupMethod = "delivery"
)

type ReturnMethod string

const (
	ReturnMethodSelfReturn  ReturnMethod = "self_return"
	ReturnMethodOwnerPickup ReturnMethod = "owner_pickup"
)

type ReturnCondition string

const (
	ReturnConditionNotYetReturned ReturnCondition = "not_yet_returned"
	ReturnConditionGood           ReturnCondition = "good"
	ReturnConditionMinorWear      ReturnCondition = "minor_wear"
	ReturnConditionDamaged        ReturnCondition = "damaged"
	ReturnConditionLost           ReturnCondition = "lost"
)

// Valid reports whether c is a condition an owner may record at return time.
func (c ReturnCondition) Valid() bool {
	switch c {
	case ReturnConditionGood, ReturnConditionMinorWear, ReturnConditionDamaged, ReturnConditionLost:
		return true
	}
	return false
}

// Claimable reports whether a claim may be raised for an item returned in condition c.
func (c ReturnCondition) Claimable() bool {
	return c == ReturnConditionDamaged || c == ReturnConditionLost
}

// Role identifies which side of a rental an actor must be on.
type Role string

const (
	RoleRenter      Role = "renter"
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
)

type Rental struct {
	ID        int32  `json:"id"`
	RentalUID string `json:"rental_uid"`

	RenterID  int32     `json:"renter_id"`
	OwnerID   int32     `json:"owner_id"`
	ProductID int32     `json:"product_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Financial snapshot, written once at creation.
	DurationDays      int32            `json:"duration_days"`
	RentalPricePerDay decimal.Decimal  `json:"rental_price_per_day_at_booking"`
	SecurityDeposit   decimal.Decimal  `json:"security_deposit_at_booking"`
	SubtotalRentalFee decimal.Decimal  `json:"calculated_subtotal_rental_fee"`
	DeliveryFee       decimal.Decimal  `json:"delivery_fee"`
	PlatformFeeRenter decimal.Decimal  `json:"platform_fee_renter"`
	PlatformFeeOwner  decimal.Decimal  `json:"platform_fee_owner"`
	TotalAmountDue    decimal.Decimal  `json:"total_amount_due"`
	FinalAmountPaid   *decimal.Decimal `json:"final_amount_paid,omitempty"`

	PickupMethod      PickupMethod `json:"pickup_method"`
	ReturnMethod      ReturnMethod `json:"return_method"`
	DeliveryAddressID *int32       `json:"delivery_address_id,omitempty"`
	NotesFromRenter   string       `json:"notes_from_renter"`

	Status            RentalStatus  `json:"rental_status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	PaymentProofURL   string        `json:"payment_proof_url,omitempty"`
	InventoryReserved bool          `json:"inventory_reserved"`

	ActualReturnTime         *time.Time      `json:"actual_return_time,omitempty"`
	ReturnConditionStatus    ReturnCondition `json:"return_condition_status"`
	ReturnConditionImageURLs []string        `json:"return_condition_image_urls,omitempty"`
	NotesFromOwnerOnReturn   string          `json:"notes_from_owner_on_return,omitempty"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledByUserID  *int32     `json:"cancelled_by_user_id,omitempty"`

	PaymentVerifiedAt       *time.Time `json:"payment_verified_at,omitempty"`
	PaymentVerifiedByUserID *int32     `json:"payment_verified_by_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RentalUpdate is one conditional write against a rental row. The write applies only
// while the row still carries ExpectedStatus (and ExpectedPaymentStatus, when set).
// Nil pointer fields are left untouched. Snapshot fields have no counterpart here.
type RentalUpdate struct {
	ExpectedStatus        RentalStatus
	ExpectedPaymentStatus PaymentStatus

	Status                   RentalStatus
	PaymentStatus            *PaymentStatus
	PaymentProofURL          *string
	FinalAmountPaid          *decimal.Decimal
	InventoryReserved        *bool
	ActualReturnTime         *time.Time
	ReturnConditionStatus    *ReturnCondition
	ReturnConditionImageURLs []string
	NotesFromOwnerOnReturn   *string
	CancellationReason       *string
	CancelledAt              *time.Time
	CancelledByUserID        *int32
	PaymentVerifiedAt        *time.Time
	PaymentVerifiedByUserID  *int32
}

// Apply copies the non-nil fields of u onto r. Repositories without a query language
// (the in-memory store) use it to mirror the SQL update.
func (u RentalUpdate) Apply(r *Rental) {
	r.Status = u.Status
	if u.PaymentStatus != nil {
		r.PaymentStatus = *u.PaymentStatus
	}
	if u.PaymentProofURL != nil {
		r.PaymentProofURL = *u.PaymentProofURL
	}
	if u.FinalAmountPaid != nil {
		v := *u.FinalAmountPaid
		r.FinalAmountPaid = &v
	}
	if u.InventoryReserved != nil {
		r.InventoryReserved = *u.InventoryReserved
	}
	if u.ActualReturnTime != nil {
		t := *u.ActualReturnTime
		r.ActualReturnTime = &t
	}
	if u.ReturnConditionStatus != nil {
		r.ReturnConditionStatus = *u.ReturnConditionStatus
	}
	if u.ReturnConditionImageURLs != nil {
		r.ReturnConditionImageURLs = append([]string(nil), u.ReturnConditionImageURLs...)
	}
	if u.NotesFromOwnerOnReturn != nil {
		r.NotesFromOwnerOnReturn = *u.NotesFromOwnerOnReturn
	}
	if u.CancellationReason != nil {
		r.CancellationReason = *u.CancellationReason
	}
	if u.CancelledAt != nil {
		t := *u.CancelledAt
		r.CancelledAt = &t
	}
	if u.CancelledByUserID != nil {
		id := *u.CancelledByUserID
		r.CancelledByUserID = &id
	}
	if u.PaymentVerifiedAt != nil {
		t := *u.PaymentVerifiedAt
		r.PaymentVerifiedAt = &t
	}
	if u.PaymentVerifiedByUserID != nil {
		id := *u.PaymentVerifiedByUserID
		r.PaymentVerifiedByUserID = &id
	}
}

// RentalFilter narrows a rental listing. An empty Statuses slice matches every status.
type RentalFilter struct {
	Statuses []RentalStatus
	Page     int32
	Limit    int32
}

// PaymentStatusView is the read-only answer to a payment status check.
type PaymentStatusView struct {
	PaymentStatus PaymentStatus `json:"payment_status"`
	RentalStatus  RentalStatus  `json:"rental_status"`
}

// StatusHistoryEntry is one immutable row of the rental audit trail.
// ActorUserID is zero for transitions made by the system (scheduled jobs).
type StatusHistoryEntry struct {
	ID          int64        `json:"id"`
	RentalID    int32        `json:"rental_id"`
	NewStatus   RentalStatus `json:"new_status"`
	OldStatus   RentalStatus `json:"old_status,omitempty"`
	ActorUserID int32        `json:"actor_user_id,omitempty"`
	Note        string       `json:"note"`
	CreatedAt   time.Time    `json:"created_at"`
}

// UploadedFile is a file received from a client, held in memory until stored.
type UploadedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
