package service

import (
	"context"
	"io"
	"time"

	"rentalhub-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByIdentifier(ctx context.Context, idOrUID string) (*domain.Rental, error) {
	args := m.Called(ctx, idOrUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id int32, update domain.RentalUpdate) (*domain.Rental, error) {
	args := m.Called(ctx, id, update)
	if fn, ok := args.Get(0).(func(context.Context, int32, domain.RentalUpdate) *domain.Rental); ok {
		return fn(ctx, id, update), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListForUser(ctx context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, role, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]domain.Rental, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockStatusHistoryRepo struct {
	mock.Mock
}

func (m *MockStatusHistoryRepo) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockStatusHistoryRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) AdjustAvailableQuantity(ctx context.Context, id int32, delta int32) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockAddressRepo struct {
	mock.Mock
}

func (m *MockAddressRepo) GetByIDAndUser(ctx context.Context, id, userID int32) (*domain.UserAddress, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAddress), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPaymentTransactionRepo struct {
	mock.Mock
}

func (m *MockPaymentTransactionRepo) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockPaymentTransactionRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.PaymentTransaction, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.PaymentTransaction), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

type MockInventoryAdjuster struct {
	mock.Mock
}

func (m *MockInventoryAdjuster) AdjustAvailableQuantity(ctx context.Context, productID int32, delta int32) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

type MockFeeSettingsProvider struct {
	mock.Mock
}

func (m *MockFeeSettingsProvider) FeeSettings(ctx context.Context) (domain.FeeSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.FeeSettings), args.Error(1)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Notify(ctx context.Context, note domain.Notification) {
	m.Called(ctx, note)
}
func (m *MockNotificationDispatcher) Close() {
	m.Called()
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}
