package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFileStore struct {
	mu   sync.Mutex
	keys []string
}

func (s *fakeFileStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "https://files.example.com/" + key, nil
}

func (s *fakeFileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such key %q", key)
}

func (s *fakeFileStore) stored() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

type lifecycleEnv struct {
	rentals  *memory.RentalRepository
	history  *memory.StatusHistoryRepository
	products *memory.ProductRepository
	notes    *memory.NotificationRepository
	payments *memory.PaymentTransactionRepository
	files    *fakeFileStore
	notifier NotificationDispatcher
	svc      RentalService
}

func newLifecycleEnv(t *testing.T, product domain.Product) *lifecycleEnv {
	t.Helper()
	env := &lifecycleEnv{
		rentals:  memory.NewRentalRepository(),
		history:  memory.NewStatusHistoryRepository(),
		products: memory.NewProductRepository(product),
		notes:    memory.NewNotificationRepository(),
		payments: memory.NewPaymentTransactionRepository(),
		files:    &fakeFileStore{},
	}
	users := memory.NewUserRepository()
	env.notifier = NewNotificationDispatcher(env.notes, users, nil, time.Second)
	fees := NewFeeSettingsProvider(memory.NewSettingRepository(map[string]string{
		SettingRenterFeePercent: "5",
	}), domain.FeeSettings{})
	env.svc = NewRentalService(env.rentals, env.history, env.products, users, env.payments,
		NewInventoryAdjuster(env.products), fees, env.files, env.notifier, "THB")
	t.Cleanup(env.notifier.Close)
	return env
}

func (e *lifecycleEnv) available(t *testing.T) int32 {
	t.Helper()
	p, err := e.products.GetByID(context.Background(), testProductID)
	require.NoError(t, err)
	return p.QuantityAvailable
}

func (e *lifecycleEnv) create(t *testing.T) *domain.Rental {
	t.Helper()
	rental, err := e.svc.CreateRentalRequest(context.Background(), testRenterID, CreateRentalInput{
		ProductID: testProductID,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
	})
	require.NoError(t, err)
	return rental
}

func TestLifecycle_HappyPathToCompletion(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, *testProduct())
	proof := &domain.UploadedFile{FileName: "slip.png", ContentType: "image/png", Data: []byte("png")}

	rental := env.create(t)
	id := strconv.Itoa(int(rental.ID))
	assert.True(t, rental.TotalAmountDue.Equal(decimal.RequireFromString("365")))

	_, err := env.svc.ApproveRentalRequest(ctx, id, testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), env.available(t))

	confirmed, err := env.svc.SubmitPaymentProof(ctx, rental.RentalUID, testRenterID, proof, PaymentProofInput{})
	require.NoError(t, err)
	assert.True(t, confirmed.InventoryReserved)
	assert.Equal(t, int32(1), env.available(t))

	active, err := env.svc.VerifyPaymentByOwner(ctx, id, testOwnerID, VerifyPaymentInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusActive, active.Status)
	assert.Equal(t, domain.PaymentStatusPaid, active.PaymentStatus)

	done, err := env.svc.ProcessReturn(ctx, id, testOwnerID, ProcessReturnInput{ReturnConditionStatus: domain.ReturnConditionGood}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCompleted, done.Status)
	assert.False(t, done.InventoryReserved)
	assert.Equal(t, int32(2), env.available(t))

	entries, err := env.svc.GetStatusHistory(ctx, id, testRenterID)
	require.NoError(t, err)
	var pairs []string
	for _, e := range entries {
		pairs = append(pairs, fmt.Sprintf("%s>%s", e.OldStatus, e.NewStatus))
	}
	assert.Equal(t, []string{
		">pending_owner_approval",
		"pending_owner_approval>pending_payment",
		"pending_payment>confirmed",
		"confirmed>active",
		"active>completed",
	}, pairs)

	txs, err := env.payments.ListByRental(ctx, rental.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "THB", txs[0].Currency)

	// Terminal: nothing moves it any more.
	_, err = env.svc.CancelRentalByRenter(ctx, id, testRenterID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = env.svc.ProcessReturn(ctx, id, testOwnerID, ProcessReturnInput{ReturnConditionStatus: domain.ReturnConditionGood}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestLifecycle_CancelAfterConfirmRestoresStock(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, *testProduct())
	proof := &domain.UploadedFile{FileName: "slip.png", ContentType: "image/png", Data: []byte("png")}

	rental := env.create(t)
	id := strconv.Itoa(int(rental.ID))
	_, err := env.svc.ApproveRentalRequest(ctx, id, testOwnerID)
	require.NoError(t, err)
	_, err = env.svc.SubmitPaymentProof(ctx, id, testRenterID, proof, PaymentProofInput{})
	require.NoError(t, err)
	require.Equal(t, int32(1), env.available(t))

	cancelled, err := env.svc.CancelRentalByRenter(ctx, id, testRenterID, "Plans changed")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCancelledByRenter, cancelled.Status)
	assert.Equal(t, int32(2), env.available(t))

	_, err = env.svc.CancelRentalByRenter(ctx, id, testRenterID, "again")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int32(2), env.available(t))
}

func TestLifecycle_ConcurrentApprovalsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, *testProduct())
	rental := env.create(t)
	id := strconv.Itoa(int(rental.ID))

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = env.svc.ApproveRentalRequest(ctx, id, testOwnerID)
		}(i)
	}
	close(start)
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, wins)

	entries, err := env.history.ListByRental(ctx, rental.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLifecycle_ConcurrentCancelAndApprove(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, *testProduct())
	rental := env.create(t)
	id := strconv.Itoa(int(rental.ID))

	var wg sync.WaitGroup
	var approveErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, approveErr = env.svc.ApproveRentalRequest(ctx, id, testOwnerID)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = env.svc.CancelRentalByRenter(ctx, id, testRenterID, "")
	}()
	wg.Wait()

	current, err := env.svc.GetRentalDetails(ctx, id, testRenterID)
	require.NoError(t, err)
	switch current.Status {
	case domain.RentalStatusCancelledByRenter:
		assert.NoError(t, cancelErr)
		if approveErr != nil {
			assert.ErrorIs(t, approveErr, domain.ErrInvalidState)
		}
	case domain.RentalStatusPendingPayment:
		assert.NoError(t, approveErr)
		assert.ErrorIs(t, cancelErr, domain.ErrInvalidState)
	default:
		t.Fatalf("unexpected status %s", current.Status)
	}
}

func TestLifecycle_NotificationsAreStored(t *testing.T) {
	env := newLifecycleEnv(t, *testProduct())
	env.create(t)
	env.notifier.Close()

	notes, total, err := env.notes.List(context.Background(), testOwnerID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationRentalRequested, notes[0].Type)
}

func TestLifecycle_LastUnitGoesToFirstPayer(t *testing.T) {
	ctx := context.Background()
	product := *testProduct()
	product.Quantity = 1
	product.QuantityAvailable = 1
	env := newLifecycleEnv(t, product)
	proof := &domain.UploadedFile{FileName: "slip.png", ContentType: "image/png", Data: []byte("png")}

	first, second := env.create(t), env.create(t)
	firstID, secondID := strconv.Itoa(int(first.ID)), strconv.Itoa(int(second.ID))
	_, err := env.svc.ApproveRentalRequest(ctx, firstID, testOwnerID)
	require.NoError(t, err)
	_, err = env.svc.ApproveRentalRequest(ctx, secondID, testOwnerID)
	require.NoError(t, err)

	confirmed, err := env.svc.SubmitPaymentProof(ctx, firstID, testRenterID, proof, PaymentProofInput{})
	require.NoError(t, err)
	assert.True(t, confirmed.InventoryReserved)
	require.Equal(t, int32(0), env.available(t))

	_, err = env.svc.SubmitPaymentProof(ctx, secondID, testRenterID, proof, PaymentProofInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	current, err := env.svc.GetRentalDetails(ctx, secondID, testRenterID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusPendingPayment, current.Status)
	assert.False(t, current.InventoryReserved)
	assert.Len(t, env.files.stored(), 1)

	_, err = env.svc.CancelRentalByRenter(ctx, secondID, testRenterID, "no stock")
	require.NoError(t, err)
	assert.Equal(t, int32(0), env.available(t))

	_, err = env.svc.CancelRentalByRenter(ctx, firstID, testRenterID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, int32(1), env.available(t))
}

func TestLifecycle_ConcurrentProofsReserveOneUnit(t *testing.T) {
	ctx := context.Background()
	product := *testProduct()
	product.Quantity = 1
	product.QuantityAvailable = 1
	env := newLifecycleEnv(t, product)
	rental := env.create(t)
	id := strconv.Itoa(int(rental.ID))
	_, err := env.svc.ApproveRentalRequest(ctx, id, testOwnerID)
	require.NoError(t, err)

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			proof := &domain.UploadedFile{FileName: fmt.Sprintf("slip-%d.png", i), ContentType: "image/png", Data: []byte("png")}
			_, errs[i] = env.svc.SubmitPaymentProof(ctx, id, testRenterID, proof, PaymentProofInput{})
		}(i)
	}
	close(start)
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int32(0), env.available(t))
	assert.Len(t, env.files.stored(), 1)

	current, err := env.svc.GetRentalDetails(ctx, id, testRenterID)
	require.NoError(t, err)
	assert.True(t, current.InventoryReserved)
	assert.Equal(t, current.PaymentProofURL, "https://files.example.com/"+env.files.stored()[0])
}

func TestLifecycle_PaymentVerifiedAfterCancellation(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, *testProduct())
	proof := &domain.UploadedFile{FileName: "slip.png", ContentType: "image/png", Data: []byte("png")}

	rental := env.create(t)
	id := strconv.Itoa(int(rental.ID))
	_, err := env.svc.ApproveRentalRequest(ctx, id, testOwnerID)
	require.NoError(t, err)
	_, err = env.svc.SubmitPaymentProof(ctx, id, testRenterID, proof, PaymentProofInput{})
	require.NoError(t, err)
	_, err = env.svc.CancelRentalByRenter(ctx, id, testRenterID, "Plans changed")
	require.NoError(t, err)

	verified, err := env.svc.VerifyPaymentByOwner(ctx, id, testOwnerID, VerifyPaymentInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCancelledByRenter, verified.Status)
	assert.Equal(t, domain.PaymentStatusPaid, verified.PaymentStatus)
	assert.Equal(t, int32(2), env.available(t))

	entries, err := env.history.ListByRental(ctx, rental.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.RentalStatusCancelledByRenter, last.OldStatus)
	assert.Equal(t, domain.RentalStatusCancelledByRenter, last.NewStatus)
	assert.Equal(t, testOwnerID, last.ActorUserID)

	_, err = env.svc.VerifyPaymentByOwner(ctx, id, testOwnerID, VerifyPaymentInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
