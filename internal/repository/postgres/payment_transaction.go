package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

type paymentTransactionRepository struct {
	db *sql.DB
}

func NewPaymentTransactionRepository(db *sql.DB) repository.PaymentTransactionRepository {
	return &paymentTransactionRepository{db: db}
}

func (r *paymentTransactionRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	logger.EnterMethod("paymentTransactionRepository.Create", "rentalID", tx.RentalID, "amount", tx.Amount.String())

	details, err := json.Marshal(tx.PaymentMethodDetails)
	if err != nil {
		logger.ExitMethodWithError("paymentTransactionRepository.Create", err, "reason", "failed to marshal details")
		return err
	}

	query := `INSERT INTO payment_transactions (rental_id, user_id, transaction_type, amount, currency, status,
	          payment_method_name, payment_method_details, transaction_time)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "payment_transactions", "rentalID", tx.RentalID)

	err = r.db.QueryRowContext(ctx, query,
		tx.RentalID, tx.UserID, tx.TransactionType, tx.Amount, tx.Currency, tx.Status,
		tx.PaymentMethodName, details, tx.TransactionTime,
	).Scan(&tx.ID, &tx.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "transactionID", tx.ID)

	if err != nil {
		logger.ExitMethodWithError("paymentTransactionRepository.Create", err)
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	logger.ExitMethod("paymentTransactionRepository.Create", "transactionID", tx.ID)
	return nil
}

func (r *paymentTransactionRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.PaymentTransaction, error) {
	query := `SELECT id, rental_id, user_id, transaction_type, amount, currency, status, payment_method_name,
	          payment_method_details, transaction_time, created_at
	          FROM payment_transactions WHERE rental_id = $1 ORDER BY transaction_time`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.PaymentTransaction
	for rows.Next() {
		var (
			tx      domain.PaymentTransaction
			details []byte
		)
		if err := rows.Scan(&tx.ID, &tx.RentalID, &tx.UserID, &tx.TransactionType, &tx.Amount, &tx.Currency,
			&tx.Status, &tx.PaymentMethodName, &details, &tx.TransactionTime, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &tx.PaymentMethodDetails); err != nil {
				return nil, err
			}
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
