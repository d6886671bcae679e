package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, email, name, created_at FROM users WHERE id = $1`
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

type addressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// GetByIDAndUser returns the address only when it belongs to userID.
func (r *addressRepository) GetByIDAndUser(ctx context.Context, id, userID int32) (*domain.UserAddress, error) {
	query := `SELECT id, user_id, label, address_line1, address_line2, city, postal_code
	          FROM user_addresses WHERE id = $1 AND user_id = $2`
	var (
		a     domain.UserAddress
		line2 sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&a.ID, &a.UserID, &a.Label, &a.AddressLine1, &line2, &a.City, &a.PostalCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get address %d: %w", id, err)
	}
	a.AddressLine2 = line2.String
	return &a, nil
}
