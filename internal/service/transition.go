package service

import (
	"context"
	"errors"
	"strconv"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

// systemActor is recorded as the actor of transitions no user asked for.
const systemActor int32 = 0

// transition is one planned status change. The conditional write and the audit entry
// must both succeed; the advisory steps run afterwards, each on its own, and their
// failures are only logged.
//
// paymentOnly marks an update that keeps the status and only moves the payment side;
// it is allowed from any status. onAbort undoes side effects prepared before the write
// and runs only when the write did not take effect.
type transition struct {
	rental      *domain.Rental
	actor       int32
	update      domain.RentalUpdate
	note        string
	paymentOnly bool
	advisory    []advisoryStep
	onAbort     func(ctx context.Context)
}

type advisoryStep struct {
	name string
	run  func(ctx context.Context, updated *domain.Rental) error
}

func (s *rentalService) commit(ctx context.Context, t *transition) (*domain.Rental, error) {
	from, to := t.rental.Status, t.update.Status
	allowed := domain.CanTransition(from, to)
	if t.paymentOnly {
		allowed = from == to && domain.CanSettlePayment(from)
	}
	if !allowed {
		t.abort(ctx)
		return nil, domain.InvalidState("rental cannot move from %s to %s", from, to)
	}

	updated, err := s.rentalRepo.UpdateStatus(ctx, t.rental.ID, t.update)
	if err != nil {
		t.abort(ctx)
	}
	if errors.Is(err, repository.ErrStaleRental) {
		current, loadErr := s.rentalRepo.GetByIdentifier(ctx, strconv.Itoa(int(t.rental.ID)))
		if loadErr != nil {
			return nil, domain.InvalidState("rental %d changed while it was being updated", t.rental.ID)
		}
		logger.Warn("Lost rental status race", "rentalID", t.rental.ID, "expected", from, "current", current.Status)
		return nil, domain.InvalidState("rental status changed to %s while it was being updated", current.Status)
	}
	if err != nil {
		return nil, domain.DependencyFailure(err, "failed to update rental %d", t.rental.ID)
	}

	if err := s.audit(ctx, updated.ID, from, to, t.actor, t.note); err != nil {
		return nil, err
	}
	logger.Transition(updated.ID, from, to, t.actor)

	for _, step := range t.advisory {
		if err := step.run(ctx, updated); err != nil {
			logger.Warn("Advisory step failed after rental transition", "rentalID", updated.ID, "step", step.name, "error", err)
		}
	}
	return updated, nil
}

func (t *transition) abort(ctx context.Context) {
	if t.onAbort != nil {
		t.onAbort(ctx)
	}
}

// authorize checks that actorID holds role on rental.
func authorize(rental *domain.Rental, actorID int32, role domain.Role) error {
	switch role {
	case domain.RoleRenter:
		if rental.RenterID == actorID {
			return nil
		}
		return domain.Forbidden("only the renter of this rental may perform this action")
	case domain.RoleOwner:
		if rental.OwnerID == actorID {
			return nil
		}
		return domain.Forbidden("only the owner of this rental may perform this action")
	case domain.RoleParticipant:
		if rental.RenterID == actorID || rental.OwnerID == actorID {
			return nil
		}
		return domain.Forbidden("you are not authorized to view this rental")
	}
	return domain.Forbidden("unknown role %q", role)
}
