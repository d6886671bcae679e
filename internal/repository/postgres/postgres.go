package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"rentalhub-backend/internal/repository"
)

// Store bundles every repository backed by one Postgres handle.
type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.StatusHistoryRepository
	repository.ProductRepository
	repository.AddressRepository
	repository.UserRepository
	repository.PaymentTransactionRepository
	repository.NotificationRepository
	repository.SettingRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                           db,
		RentalRepository:             NewRentalRepository(db),
		StatusHistoryRepository:      NewStatusHistoryRepository(db),
		ProductRepository:            NewProductRepository(db),
		AddressRepository:            NewAddressRepository(db),
		UserRepository:               NewUserRepository(db),
		PaymentTransactionRepository: NewPaymentTransactionRepository(db),
		NotificationRepository:       NewNotificationRepository(db),
		SettingRepository:            NewSettingRepository(db),
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}
