package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"rentalhub-backend/internal/domain"
)

// RentalService drives the rental lifecycle. Every mutating operation re-reads the rental,
// checks the actor and the current status, then commits the transition with a conditional
// write so that concurrent callers cannot both succeed.
type RentalService interface {
	CreateRentalRequest(ctx context.Context, renterID int32, in CreateRentalInput) (*domain.Rental, error)
	ApproveRentalRequest(ctx context.Context, idOrUID string, ownerID int32) (*domain.Rental, error)
	RejectRentalRequest(ctx context.Context, idOrUID string, ownerID int32, reason string) (*domain.Rental, error)
	SubmitPaymentProof(ctx context.Context, idOrUID string, renterID int32, proof *domain.UploadedFile, in PaymentProofInput) (*domain.Rental, error)
	VerifyPaymentByOwner(ctx context.Context, idOrUID string, ownerID int32, in VerifyPaymentInput) (*domain.Rental, error)
	CancelRentalByRenter(ctx context.Context, idOrUID string, renterID int32, reason string) (*domain.Rental, error)
	ProcessReturn(ctx context.Context, idOrUID string, ownerID int32, in ProcessReturnInput, images []domain.UploadedFile) (*domain.Rental, error)
	MarkLateReturn(ctx context.Context, idOrUID string, now time.Time) (*domain.Rental, error)

	CheckPaymentStatus(ctx context.Context, idOrUID string, userID int32) (*domain.PaymentStatusView, error)
	GetRentalDetails(ctx context.Context, idOrUID string, userID int32) (*domain.Rental, error)
	GetStatusHistory(ctx context.Context, idOrUID string, userID int32) ([]domain.StatusHistoryEntry, error)
}

type DashboardService interface {
	GetRenterDashboard(ctx context.Context, renterID int32) (*RenterDashboard, error)
	ListRentalsForUser(ctx context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// NotificationDispatcher delivers notifications without blocking the caller. Delivery
// failures are logged and never reported back.
type NotificationDispatcher interface {
	Notify(ctx context.Context, note domain.Notification)
	Close()
}

type InventoryAdjuster interface {
	AdjustAvailableQuantity(ctx context.Context, productID int32, delta int32) error
}

type FeeSettingsProvider interface {
	FeeSettings(ctx context.Context) (domain.FeeSettings, error)
}

type EmailService interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, body string) error
}

// FileStore is the subset of the storage backend the engine needs.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type CreateRentalInput struct {
	ProductID         int32               `json:"product_id"`
	StartDate         string              `json:"start_date"`
	EndDate           string              `json:"end_date"`
	PickupMethod      domain.PickupMethod `json:"pickup_method"`
	DeliveryAddressID *int32              `json:"delivery_address_id,omitempty"`
	NotesFromRenter   string              `json:"notes_from_renter,omitempty"`
}

type PaymentProofInput struct {
	AmountPaid      *decimal.Decimal
	TransactionTime *time.Time
}

type VerifyPaymentInput struct {
	AmountPaid *decimal.Decimal `json:"amount_paid,omitempty"`
}

type ProcessReturnInput struct {
	ActualReturnTime       *time.Time
	ReturnConditionStatus  domain.ReturnCondition
	NotesFromOwnerOnReturn string
	InitiateClaim          bool
}

type RentalBucket struct {
	Data  []domain.Rental `json:"data"`
	Total int32           `json:"total"`
}

type RenterDashboard struct {
	CurrentActiveRentals   RentalBucket `json:"current_active_rentals"`
	ConfirmedRentals       RentalBucket `json:"confirmed_rentals"`
	PendingActionRentals   RentalBucket `json:"pending_action_rentals"`
	PendingApprovalRentals RentalBucket `json:"pending_approval_rentals"`
	CompletedRentals       RentalBucket `json:"completed_rentals"`
	CancelledRentals       RentalBucket `json:"cancelled_rentals"`
	LateReturnRentals      RentalBucket `json:"late_return_rentals"`
}
