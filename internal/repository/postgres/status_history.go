package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

type statusHistoryRepository struct {
	db *sql.DB
}

func NewStatusHistoryRepository(db *sql.DB) repository.StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) Append(ctx context.Context, e *domain.StatusHistoryEntry) error {
	logger.EnterMethod("statusHistoryRepository.Append", "rentalID", e.RentalID, "newStatus", e.NewStatus)

	var oldStatus sql.NullString
	if e.OldStatus != "" {
		oldStatus = sql.NullString{String: string(e.OldStatus), Valid: true}
	}
	var actor sql.NullInt32
	if e.ActorUserID != 0 {
		actor = sql.NullInt32{Int32: e.ActorUserID, Valid: true}
	}

	query := `INSERT INTO rental_status_history (rental_id, new_status, old_status, changed_by_user_id, notes)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "rental_status_history", "rentalID", e.RentalID)

	err := r.db.QueryRowContext(ctx, query, e.RentalID, e.NewStatus, oldStatus, actor, e.Note).
		Scan(&e.ID, &e.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "historyID", e.ID)

	if err != nil {
		logger.ExitMethodWithError("statusHistoryRepository.Append", err, "rentalID", e.RentalID)
		return fmt.Errorf("append status history: %w", err)
	}
	logger.ExitMethod("statusHistoryRepository.Append", "historyID", e.ID)
	return nil
}

func (r *statusHistoryRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.StatusHistoryEntry, error) {
	query := `SELECT id, rental_id, new_status, old_status, changed_by_user_id, notes, created_at
	          FROM rental_status_history WHERE rental_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var (
			e         domain.StatusHistoryEntry
			oldStatus sql.NullString
			actor     sql.NullInt32
			note      sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RentalID, &e.NewStatus, &oldStatus, &actor, &note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.OldStatus = domain.RentalStatus(oldStatus.String)
		e.ActorUserID = actor.Int32
		e.Note = note.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
