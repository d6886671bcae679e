package repository

import (
	"context"
	"errors"
	"time"

	"rentalhub-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrStaleRental is returned by a conditional rental update whose expected status no
	// longer matches the stored row.
	ErrStaleRental = errors.New("rental status changed since it was read")
	// ErrInsufficientQuantity is returned when a quantity adjustment would leave the
	// counter below zero or above the product's total quantity.
	ErrInsufficientQuantity = errors.New("quantity adjustment out of range")
)

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	// GetByIdentifier resolves either the numeric id or the public rental uid.
	GetByIdentifier(ctx context.Context, idOrUID string) (*domain.Rental, error)
	UpdateStatus(ctx context.Context, id int32, update domain.RentalUpdate) (*domain.Rental, error)
	ListForUser(ctx context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error)
	ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]domain.Rental, error)
}

type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) error
	ListByRental(ctx context.Context, rentalID int32) ([]domain.StatusHistoryEntry, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	AdjustAvailableQuantity(ctx context.Context, id int32, delta int32) error
}

type AddressRepository interface {
	GetByIDAndUser(ctx context.Context, id, userID int32) (*domain.UserAddress, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type PaymentTransactionRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	ListByRental(ctx context.Context, rentalID int32) ([]domain.PaymentTransaction, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type SettingRepository interface {
	// Get returns the raw value of a system setting and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
}
