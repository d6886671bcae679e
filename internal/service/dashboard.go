package service

import (
	"context"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type dashboardService struct {
	rentalRepo repository.RentalRepository
}

func NewDashboardService(rentalRepo repository.RentalRepository) DashboardService {
	return &dashboardService{rentalRepo: rentalRepo}
}

// GetRenterDashboard returns the renter's rentals grouped by lifecycle stage, a few per
// bucket, with each bucket's full count.
func (s *dashboardService) GetRenterDashboard(ctx context.Context, renterID int32) (*RenterDashboard, error) {
	dash := &RenterDashboard{}
	buckets := []struct {
		dst      *RentalBucket
		statuses []domain.RentalStatus
		limit    int32
	}{
		{&dash.CurrentActiveRentals, []domain.RentalStatus{domain.RentalStatusActive}, 5},
		{&dash.ConfirmedRentals, []domain.RentalStatus{domain.RentalStatusConfirmed}, 3},
		{&dash.PendingActionRentals, []domain.RentalStatus{domain.RentalStatusPendingPayment}, 3},
		{&dash.PendingApprovalRentals, []domain.RentalStatus{domain.RentalStatusPendingOwnerApproval}, 3},
		{&dash.CompletedRentals, []domain.RentalStatus{domain.RentalStatusCompleted}, 3},
		{&dash.CancelledRentals, []domain.RentalStatus{
			domain.RentalStatusCancelledByRenter, domain.RentalStatusCancelledByOwner, domain.RentalStatusRejectedByOwner,
		}, 3},
		{&dash.LateReturnRentals, []domain.RentalStatus{domain.RentalStatusLateReturn}, 3},
	}

	for _, b := range buckets {
		rentals, total, err := s.rentalRepo.ListForUser(ctx, renterID, domain.RoleRenter, domain.RentalFilter{
			Statuses: b.statuses,
			Page:     1,
			Limit:    b.limit,
		})
		if err != nil {
			return nil, domain.DependencyFailure(err, "failed to load renter dashboard")
		}
		if rentals == nil {
			rentals = []domain.Rental{}
		}
		*b.dst = RentalBucket{Data: rentals, Total: total}
	}
	return dash, nil
}

func (s *dashboardService) ListRentalsForUser(ctx context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	if role != domain.RoleRenter && role != domain.RoleOwner {
		return nil, 0, domain.Validation("role must be renter or owner")
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, 0, domain.Validation("unknown rental status %q", st)
		}
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	rentals, total, err := s.rentalRepo.ListForUser(ctx, userID, role, filter)
	if err != nil {
		return nil, 0, domain.DependencyFailure(err, "failed to list rentals")
	}
	return rentals, total, nil
}

func normalizePage(page, size int32) (int32, int32) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
