package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

const (
	dialectPostgres = "postgres"
	tableRentals    = "rentals"
	colRentalStatus = "rental_status"
	colPaymentStat  = "payment_status"
)

var rentalColumns = []string{
	"id", "rental_uid", "renter_id", "owner_id", "product_id", "start_date", "end_date",
	"duration_days", "rental_price_per_day_at_booking", "security_deposit_at_booking",
	"calculated_subtotal_rental_fee", "delivery_fee", "platform_fee_renter", "platform_fee_owner",
	"total_amount_due", "final_amount_paid", "pickup_method", "return_method", "delivery_address_id",
	"notes_from_renter", "rental_status", "payment_status", "payment_proof_url", "inventory_reserved",
	"actual_return_time", "return_condition_status", "return_condition_image_urls",
	"notes_from_owner_on_return", "cancellation_reason", "cancelled_at", "cancelled_by_user_id",
	"payment_verified_at", "payment_verified_by_user_id", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Create", "renterID", rt.RenterID, "productID", rt.ProductID)

	if rt.RentalUID == "" {
		rt.RentalUID = uuid.NewString()
	}
	query := `INSERT INTO rentals (rental_uid, renter_id, owner_id, product_id, start_date, end_date, duration_days,
	          rental_price_per_day_at_booking, security_deposit_at_booking, calculated_subtotal_rental_fee, delivery_fee,
	          platform_fee_renter, platform_fee_owner, total_amount_due, pickup_method, return_method, delivery_address_id,
	          notes_from_renter, rental_status, payment_status, return_condition_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $22)
	          RETURNING id, created_at, updated_at`
	logger.DatabaseCall("INSERT", tableRentals, "rentalUID", rt.RentalUID)

	var addressID sql.NullInt32
	if rt.DeliveryAddressID != nil {
		addressID = sql.NullInt32{Int32: *rt.DeliveryAddressID, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		rt.RentalUID, rt.RenterID, rt.OwnerID, rt.ProductID, rt.StartDate, rt.EndDate, rt.DurationDays,
		rt.RentalPricePerDay, rt.SecurityDeposit, rt.SubtotalRentalFee, rt.DeliveryFee,
		rt.PlatformFeeRenter, rt.PlatformFeeOwner, rt.TotalAmountDue, rt.PickupMethod, rt.ReturnMethod, addressID,
		rt.NotesFromRenter, rt.Status, rt.PaymentStatus, rt.ReturnConditionStatus, time.Now().UTC(),
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)

	if err != nil {
		logger.ExitMethodWithError("rentalRepository.Create", err)
		return fmt.Errorf("insert rental: %w", err)
	}
	logger.ExitMethod("rentalRepository.Create", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) GetByIdentifier(ctx context.Context, idOrUID string) (*domain.Rental, error) {
	column, arg := identifierClause(idOrUID)
	query := fmt.Sprintf(`SELECT %s FROM rentals WHERE %s = $1`, selectList(), column)

	rt, err := scanRental(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rental %q: %w", idOrUID, err)
	}
	return rt, nil
}

// UpdateStatus performs a single conditional UPDATE. When no row still matches the
// expected status the update is a no-op and ErrStaleRental is returned.
func (r *rentalRepository) UpdateStatus(ctx context.Context, id int32, u domain.RentalUpdate) (*domain.Rental, error) {
	logger.EnterMethod("rentalRepository.UpdateStatus", "rentalID", id, "expected", u.ExpectedStatus, "next", u.Status)

	where := goqu.Ex{"id": id, colRentalStatus: string(u.ExpectedStatus)}
	if u.ExpectedPaymentStatus != "" {
		where[colPaymentStat] = string(u.ExpectedPaymentStatus)
	}

	stmt := goqu.Dialect(dialectPostgres).
		Update(tableRentals).
		Set(updateRecord(u)).
		Where(where).
		Returning(returningColumns()...)

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		logger.ExitMethodWithError("rentalRepository.UpdateStatus", err)
		return nil, fmt.Errorf("build rental update: %w", err)
	}
	logger.DatabaseCall("UPDATE", tableRentals, "rentalID", id)

	rt, err := scanRental(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("UPDATE", 0, nil, "rentalID", id, "reason", "status precondition failed")
		logger.ExitMethod("rentalRepository.UpdateStatus", "rentalID", id, "stale", true)
		return nil, repository.ErrStaleRental
	}
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "rentalID", id)
		logger.ExitMethodWithError("rentalRepository.UpdateStatus", err)
		return nil, fmt.Errorf("update rental %d: %w", id, err)
	}
	logger.DatabaseResult("UPDATE", 1, nil, "rentalID", id)
	logger.ExitMethod("rentalRepository.UpdateStatus", "rentalID", id, "status", rt.Status)
	return rt, nil
}

func (r *rentalRepository) ListForUser(ctx context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	where := goqu.Ex{}
	switch role {
	case domain.RoleOwner:
		where["owner_id"] = userID
	case domain.RoleRenter:
		where["renter_id"] = userID
	default:
		return nil, 0, fmt.Errorf("unsupported role %q", role)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		where[colRentalStatus] = statuses
	}

	base := goqu.Dialect(dialectPostgres).From(tableRentals).Where(where)

	countQuery, countArgs, err := base.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build rental count: %w", err)
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count rentals: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	listQuery, listArgs, err := base.
		Select(returningColumns()...).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build rental list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]domain.Rental, error) {
	query := fmt.Sprintf(`SELECT %s FROM rentals WHERE rental_status = $1 AND end_date < $2 ORDER BY end_date LIMIT $3`, selectList())
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

// identifierClause picks the lookup column for a rental identifier: all-digit values
// are internal ids, anything else is a rental uid.
func identifierClause(idOrUID string) (string, any) {
	if id, err := strconv.ParseInt(idOrUID, 10, 32); err == nil && id > 0 {
		return "id", int32(id)
	}
	return "rental_uid", idOrUID
}

func updateRecord(u domain.RentalUpdate) goqu.Record {
	rec := goqu.Record{
		colRentalStatus: string(u.Status),
		"updated_at":    time.Now().UTC(),
	}
	if u.PaymentStatus != nil {
		rec[colPaymentStat] = string(*u.PaymentStatus)
	}
	if u.PaymentProofURL != nil {
		rec["payment_proof_url"] = *u.PaymentProofURL
	}
	if u.FinalAmountPaid != nil {
		rec["final_amount_paid"] = u.FinalAmountPaid.String()
	}
	if u.InventoryReserved != nil {
		rec["inventory_reserved"] = *u.InventoryReserved
	}
	if u.ActualReturnTime != nil {
		rec["actual_return_time"] = *u.ActualReturnTime
	}
	if u.ReturnConditionStatus != nil {
		rec["return_condition_status"] = string(*u.ReturnConditionStatus)
	}
	if u.ReturnConditionImageURLs != nil {
		rec["return_condition_image_urls"] = pq.StringArray(u.ReturnConditionImageURLs)
	}
	if u.NotesFromOwnerOnReturn != nil {
		rec["notes_from_owner_on_return"] = *u.NotesFromOwnerOnReturn
	}
	if u.CancellationReason != nil {
		rec["cancellation_reason"] = *u.CancellationReason
	}
	if u.CancelledAt != nil {
		rec["cancelled_at"] = *u.CancelledAt
	}
	if u.CancelledByUserID != nil {
		rec["cancelled_by_user_id"] = *u.CancelledByUserID
	}
	if u.PaymentVerifiedAt != nil {
		rec["payment_verified_at"] = *u.PaymentVerifiedAt
	}
	if u.PaymentVerifiedByUserID != nil {
		rec["payment_verified_by_user_id"] = *u.PaymentVerifiedByUserID
	}
	return rec
}

func selectList() string {
	list := ""
	for i, c := range rentalColumns {
		if i > 0 {
			list += ", "
		}
		list += c
	}
	return list
}

func returningColumns() []any {
	cols := make([]any, 0, len(rentalColumns))
	for _, c := range rentalColumns {
		cols = append(cols, goqu.C(c))
	}
	return cols
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	var (
		rt                 domain.Rental
		finalAmount        decimal.NullDecimal
		addressID          sql.NullInt32
		notesFromRenter    sql.NullString
		proofURL           sql.NullString
		actualReturn       sql.NullTime
		imageURLs          pq.StringArray
		ownerNotes         sql.NullString
		cancellationReason sql.NullString
		cancelledAt        sql.NullTime
		cancelledBy        sql.NullInt32
		verifiedAt         sql.NullTime
		verifiedBy         sql.NullInt32
	)
	err := row.Scan(
		&rt.ID, &rt.RentalUID, &rt.RenterID, &rt.OwnerID, &rt.ProductID, &rt.StartDate, &rt.EndDate,
		&rt.DurationDays, &rt.RentalPricePerDay, &rt.SecurityDeposit,
		&rt.SubtotalRentalFee, &rt.DeliveryFee, &rt.PlatformFeeRenter, &rt.PlatformFeeOwner,
		&rt.TotalAmountDue, &finalAmount, &rt.PickupMethod, &rt.ReturnMethod, &addressID,
		&notesFromRenter, &rt.Status, &rt.PaymentStatus, &proofURL, &rt.InventoryReserved,
		&actualReturn, &rt.ReturnConditionStatus, &imageURLs,
		&ownerNotes, &cancellationReason, &cancelledAt, &cancelledBy,
		&verifiedAt, &verifiedBy, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if finalAmount.Valid {
		v := finalAmount.Decimal
		rt.FinalAmountPaid = &v
	}
	if addressID.Valid {
		v := addressID.Int32
		rt.DeliveryAddressID = &v
	}
	rt.NotesFromRenter = notesFromRenter.String
	rt.PaymentProofURL = proofURL.String
	if actualReturn.Valid {
		v := actualReturn.Time
		rt.ActualReturnTime = &v
	}
	if len(imageURLs) > 0 {
		rt.ReturnConditionImageURLs = []string(imageURLs)
	}
	rt.NotesFromOwnerOnReturn = ownerNotes.String
	rt.CancellationReason = cancellationReason.String
	if cancelledAt.Valid {
		v := cancelledAt.Time
		rt.CancelledAt = &v
	}
	if cancelledBy.Valid {
		v := cancelledBy.Int32
		rt.CancelledByUserID = &v
	}
	if verifiedAt.Valid {
		v := verifiedAt.Time
		rt.PaymentVerifiedAt = &v
	}
	if verifiedBy.Valid {
		v := verifiedBy.Int32
		rt.PaymentVerifiedByUserID = &v
	}
	return &rt, nil
}
