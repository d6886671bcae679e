package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	query := `SELECT id, owner_id, title, rental_price_per_day, security_deposit, quantity, quantity_available,
	          availability_status, admin_approval_status, min_rental_duration_days, max_rental_duration_days,
	          requires_approval, created_at
	          FROM products WHERE id = $1 AND deleted_at IS NULL`

	var (
		p           domain.Product
		maxDuration sql.NullInt32
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.RentalPricePerDay, &p.SecurityDeposit, &p.Quantity, &p.QuantityAvailable,
		&p.AvailabilityStatus, &p.AdminApprovalStatus, &p.MinRentalDurationDays, &maxDuration,
		&p.RequiresApproval, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	if maxDuration.Valid {
		v := maxDuration.Int32
		p.MaxRentalDurationDays = &v
	}
	return &p, nil
}

// AdjustAvailableQuantity shifts quantity_available by delta, refusing any change that
// would push the counter outside [0, quantity].
func (r *productRepository) AdjustAvailableQuantity(ctx context.Context, id int32, delta int32) error {
	logger.EnterMethod("productRepository.AdjustAvailableQuantity", "productID", id, "delta", delta)

	query := `UPDATE products SET quantity_available = quantity_available + $2, updated_at = NOW()
	          WHERE id = $1 AND quantity_available + $2 >= 0 AND quantity_available + $2 <= quantity`
	logger.DatabaseCall("UPDATE", "products", "productID", id)

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "productID", id)
		logger.ExitMethodWithError("productRepository.AdjustAvailableQuantity", err)
		return fmt.Errorf("adjust product %d quantity: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", n, nil, "productID", id)
	if n == 0 {
		logger.ExitMethod("productRepository.AdjustAvailableQuantity", "productID", id, "adjusted", false)
		return repository.ErrInsufficientQuantity
	}
	logger.ExitMethod("productRepository.AdjustAvailableQuantity", "productID", id, "adjusted", true)
	return nil
}
