package memory

import (
	"context"
	"sync"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository"
)

type ProductRepository struct {
	mu       sync.Mutex
	products map[int32]*domain.Product
}

func NewProductRepository(products ...domain.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[int32]*domain.Product)}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) GetByID(_ context.Context, id int32) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *ProductRepository) AdjustAvailableQuantity(_ context.Context, id int32, delta int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := p.QuantityAvailable + delta
	if next < 0 || next > p.Quantity {
		return repository.ErrInsufficientQuantity
	}
	p.QuantityAvailable = next
	return nil
}

type UserRepository struct {
	mu        sync.Mutex
	users     map[int32]domain.User
	addresses map[int32]domain.UserAddress
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:     make(map[int32]domain.User),
		addresses: make(map[int32]domain.UserAddress),
	}
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.AddressRepository = (*UserRepository)(nil)
)

func (r *UserRepository) PutUser(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *UserRepository) PutAddress(a domain.UserAddress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[a.ID] = a
}

func (r *UserRepository) GetByID(_ context.Context, id int32) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByIDAndUser(_ context.Context, id, userID int32) (*domain.UserAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

type PaymentTransactionRepository struct {
	mu  sync.Mutex
	txs []domain.PaymentTransaction
}

func NewPaymentTransactionRepository() *PaymentTransactionRepository {
	return &PaymentTransactionRepository{}
}

var _ repository.PaymentTransactionRepository = (*PaymentTransactionRepository)(nil)

func (r *PaymentTransactionRepository) Create(_ context.Context, tx *domain.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = int32(len(r.txs) + 1)
	tx.CreatedAt = time.Now().UTC()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *PaymentTransactionRepository) ListByRental(_ context.Context, rentalID int32) ([]domain.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.PaymentTransaction
	for _, tx := range r.txs {
		if tx.RentalID == rentalID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type NotificationRepository struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = int32(len(r.notes) + 1)
	n.CreatedAt = time.Now().UTC()
	r.notes = append(r.notes, *n)
	return nil
}

func (r *NotificationRepository) List(_ context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mine []domain.Notification
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].UserID == userID {
			mine = append(mine, r.notes[i])
		}
	}
	total := int32(len(mine))
	if int(offset) >= len(mine) {
		return []domain.Notification{}, total, nil
	}
	mine = mine[offset:]
	if limit > 0 && int(limit) < len(mine) {
		mine = mine[:limit]
	}
	return mine, total, nil
}

func (r *NotificationRepository) MarkAsRead(_ context.Context, id, userID int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notes {
		if r.notes[i].ID == id && r.notes[i].UserID == userID {
			r.notes[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type SettingRepository struct {
	mu       sync.RWMutex
	settings map[string]string
}

func NewSettingRepository(settings map[string]string) *SettingRepository {
	c := make(map[string]string, len(settings))
	for k, v := range settings {
		c[k] = v
	}
	return &SettingRepository{settings: c}
}

var _ repository.SettingRepository = (*SettingRepository)(nil)

func (r *SettingRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.settings[key]
	return v, ok, nil
}
