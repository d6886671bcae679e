// Package memory holds mutex-guarded repositories for tests and local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository"
)

type RentalRepository struct {
	mu      sync.Mutex
	nextID  int32
	rentals map[int32]*domain.Rental
}

func NewRentalRepository() *RentalRepository {
	return &RentalRepository{rentals: make(map[int32]*domain.Rental)}
}

var _ repository.RentalRepository = (*RentalRepository)(nil)

func (r *RentalRepository) Create(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rental.ID = r.nextID
	if rental.RentalUID == "" {
		rental.RentalUID = uuid.NewString()
	}
	now := time.Now().UTC()
	rental.CreatedAt, rental.UpdatedAt = now, now
	r.rentals[rental.ID] = cloneRental(rental)
	return nil
}

func (r *RentalRepository) GetByIdentifier(_ context.Context, idOrUID string) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rt := r.find(idOrUID); rt != nil {
		return cloneRental(rt), nil
	}
	return nil, repository.ErrNotFound
}

// UpdateStatus applies the update only while the stored rental still has the expected
// status, mirroring the conditional SQL update.
func (r *RentalRepository) UpdateStatus(_ context.Context, id int32, u domain.RentalUpdate) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.rentals[id]
	if !ok {
		return nil, repository.ErrStaleRental
	}
	if rt.Status != u.ExpectedStatus {
		return nil, repository.ErrStaleRental
	}
	if u.ExpectedPaymentStatus != "" && rt.PaymentStatus != u.ExpectedPaymentStatus {
		return nil, repository.ErrStaleRental
	}
	u.Apply(rt)
	rt.UpdatedAt = time.Now().UTC()
	return cloneRental(rt), nil
}

func (r *RentalRepository) ListForUser(_ context.Context, userID int32, role domain.Role, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[domain.RentalStatus]bool, len(filter.Statuses))
	for _, s := range filter.Statuses {
		wanted[s] = true
	}

	var matched []domain.Rental
	for _, rt := range r.rentals {
		switch role {
		case domain.RoleRenter:
			if rt.RenterID != userID {
				continue
			}
		case domain.RoleOwner:
			if rt.OwnerID != userID {
				continue
			}
		default:
			return nil, 0, repository.ErrNotFound
		}
		if len(wanted) > 0 && !wanted[rt.Status] {
			continue
		}
		matched = append(matched, *cloneRental(rt))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int32(len(matched))
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := int((page - 1) * filter.Limit)
	if start >= len(matched) {
		return []domain.Rental{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && start+int(filter.Limit) < end {
		end = start + int(filter.Limit)
	}
	return matched[start:end], total, nil
}

func (r *RentalRepository) ListOverdueActive(_ context.Context, before time.Time, limit int) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Rental
	for _, rt := range r.rentals {
		if rt.Status == domain.RentalStatusActive && rt.EndDate.Before(before) {
			out = append(out, *cloneRental(rt))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RentalRepository) find(idOrUID string) *domain.Rental {
	if id, err := strconv.ParseInt(idOrUID, 10, 32); err == nil {
		return r.rentals[int32(id)]
	}
	for _, rt := range r.rentals {
		if rt.RentalUID == idOrUID {
			return rt
		}
	}
	return nil
}

func cloneRental(rt *domain.Rental) *domain.Rental {
	c := *rt
	if rt.ReturnConditionImageURLs != nil {
		c.ReturnConditionImageURLs = append([]string(nil), rt.ReturnConditionImageURLs...)
	}
	return &c
}

type StatusHistoryRepository struct {
	mu      sync.Mutex
	entries []domain.StatusHistoryEntry
}

func NewStatusHistoryRepository() *StatusHistoryRepository {
	return &StatusHistoryRepository{}
}

var _ repository.StatusHistoryRepository = (*StatusHistoryRepository)(nil)

func (r *StatusHistoryRepository) Append(_ context.Context, e *domain.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = int64(len(r.entries) + 1)
	e.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *StatusHistoryRepository) ListByRental(_ context.Context, rentalID int32) ([]domain.StatusHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.StatusHistoryEntry
	for _, e := range r.entries {
		if e.RentalID == rentalID {
			out = append(out, e)
		}
	}
	return out, nil
}
