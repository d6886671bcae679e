package service

import (
	"context"
	"errors"
	"testing"

	"rentalhub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetRenterDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Buckets by status", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		active := []domain.Rental{*testRental(domain.RentalStatusActive, domain.PaymentStatusPaid)}
		rentals.On("ListForUser", mock.Anything, testRenterID, domain.RoleRenter, mock.MatchedBy(func(f domain.RentalFilter) bool {
			return len(f.Statuses) == 1 && f.Statuses[0] == domain.RentalStatusActive && f.Limit == 5
		})).Return(active, int32(7), nil)
		rentals.On("ListForUser", mock.Anything, testRenterID, domain.RoleRenter, mock.MatchedBy(func(f domain.RentalFilter) bool {
			return len(f.Statuses) == 3 && f.Limit == 3
		})).Return([]domain.Rental{}, int32(2), nil)
		rentals.On("ListForUser", mock.Anything, testRenterID, domain.RoleRenter, mock.Anything).Return([]domain.Rental(nil), int32(0), nil)

		dash, err := NewDashboardService(rentals).GetRenterDashboard(ctx, testRenterID)
		require.NoError(t, err)
		assert.Len(t, dash.CurrentActiveRentals.Data, 1)
		assert.Equal(t, int32(7), dash.CurrentActiveRentals.Total)
		assert.Equal(t, int32(2), dash.CancelledRentals.Total)
		assert.NotNil(t, dash.CompletedRentals.Data)
		assert.Empty(t, dash.CompletedRentals.Data)
		rentals.AssertNumberOfCalls(t, "ListForUser", 7)
	})

	t.Run("Store failure", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("ListForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.Rental(nil), int32(0), errors.New("down"))

		_, err := NewDashboardService(rentals).GetRenterDashboard(ctx, testRenterID)
		assert.ErrorIs(t, err, domain.ErrDependencyFailure)
	})
}

func TestDashboardService_ListRentalsForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Normalizes paging", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("ListForUser", mock.Anything, testOwnerID, domain.RoleOwner, domain.RentalFilter{
			Statuses: []domain.RentalStatus{domain.RentalStatusDispute},
			Page:     1,
			Limit:    100,
		}).Return([]domain.Rental{}, int32(0), nil)

		_, _, err := NewDashboardService(rentals).ListRentalsForUser(ctx, testOwnerID, domain.RoleOwner, domain.RentalFilter{
			Statuses: []domain.RentalStatus{domain.RentalStatusDispute},
			Page:     -2,
			Limit:    1000,
		})
		require.NoError(t, err)
		rentals.AssertExpectations(t)
	})

	t.Run("Rejects unknown role and status", func(t *testing.T) {
		svc := NewDashboardService(new(MockRentalRepo))

		_, _, err := svc.ListRentalsForUser(ctx, testOwnerID, domain.RoleParticipant, domain.RentalFilter{})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, _, err = svc.ListRentalsForUser(ctx, testOwnerID, domain.RoleOwner, domain.RentalFilter{
			Statuses: []domain.RentalStatus{"lost_in_space"},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
