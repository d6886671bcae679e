package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/service"
)

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) rental(args mock.Arguments) (*domain.Rental, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) CreateRentalRequest(ctx context.Context, renterID int32, in service.CreateRentalInput) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, renterID, in))
}
func (m *MockRentalService) ApproveRentalRequest(ctx context.Context, idOrUID string, ownerID int32) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, ownerID))
}
func (m *MockRentalService) RejectRentalRequest(ctx context.Context, idOrUID string, ownerID int32, reason string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, ownerID, reason))
}
func (m *MockRentalService) SubmitPaymentProof(ctx context.Context, idOrUID string, renterID int32, proof *domain.UploadedFile, in service.PaymentProofInput) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, renterID, proof, in))
}
func (m *MockRentalService) VerifyPaymentByOwner(ctx context.Context, idOrUID string, ownerID int32, in service.VerifyPaymentInput) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, ownerID, in))
}
func (m *MockRentalService) CancelRentalByRenter(ctx context.Context, idOrUID string, renterID int32, reason string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, renterID, reason))
}
func (m *MockRentalService) ProcessReturn(ctx context.Context, idOrUID string, ownerID int32, in service.ProcessReturnInput, images []domain.UploadedFile) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, ownerID, in, images))
}
func (m *MockRentalService) MarkLateReturn(ctx context.Context, idOrUID string, now time.Time) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, now))
}
func (m *MockRentalService) CheckPaymentStatus(ctx context.Context, idOrUID string, userID int32) (*domain.PaymentStatusView, error) {
	args := m.Called(ctx, idOrUID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentStatusView), args.Error(1)
}
func (m *MockRentalService) GetRentalDetails(ctx context.Context, idOrUID string, userID int32) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, idOrUID, userID))
}
func (m *MockRentalService) GetStatusHistory(ctx context.Context, idOrUID string, userID int32) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, idOrUID, userID)
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetRenterDashboard(ctx context.Context, renterID int32) (*service.RenterDashboard, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenterDashboard), args.Error(1)
}
func (m *MockDashboardService) ListRentalsForUser(ctx context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, role, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
