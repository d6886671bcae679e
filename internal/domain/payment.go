package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeRentalPayment TransactionType = "rental_payment"
	TransactionTypeRefund        TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusSuccessful TransactionStatus = "successful"
	TransactionStatusFailed     TransactionStatus = "failed"
)

const PaymentMethodManualBankTransfer = "manual_bank_transfer"

type PaymentTransaction struct {
	ID                   int32             `json:"id"`
	RentalID             int32             `json:"rental_id"`
	UserID               int32             `json:"user_id"`
	TransactionType      TransactionType   `json:"transaction_type"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	Status               TransactionStatus `json:"status"`
	PaymentMethodName    string            `json:"payment_method_name"`
	PaymentMethodDetails map[string]string `json:"payment_method_details"`
	TransactionTime      time.Time         `json:"transaction_time"`
	CreatedAt            time.Time         `json:"created_at"`
}

// FeeBreakdown is the financial snapshot computed for a rental request.
type FeeBreakdown struct {
	DurationDays      int32
	PricePerDay       decimal.Decimal
	SecurityDeposit   decimal.Decimal
	Subtotal          decimal.Decimal
	DeliveryFee       decimal.Decimal
	PlatformFeeRenter decimal.Decimal
	PlatformFeeOwner  decimal.Decimal
	TotalDue          decimal.Decimal
}

// FeeSettings are the platform-wide pricing values read at request time.
// Percentages are expressed in percent (5 means 5%).
type FeeSettings struct {
	DeliveryFee      decimal.Decimal
	RenterFeePercent decimal.Decimal
	OwnerFeePercent  decimal.Decimal
}
