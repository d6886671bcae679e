package domain

// transitions lists every edge of the rental state machine. Statuses without an entry
// are terminal.
var transitions = map[RentalStatus]map[RentalStatus]struct{}{
	RentalStatusPendingOwnerApproval: {
		RentalStatusPendingPayment:    {},
		RentalStatusRejectedByOwner:   {},
		RentalStatusCancelledByRenter: {},
	},
	RentalStatusPendingPayment: {
		RentalStatusConfirmed:         {},
		RentalStatusCancelledByRenter: {},
	},
	RentalStatusConfirmed: {
		RentalStatusActive:            {},
		RentalStatusCancelledByRenter: {},
	},
	RentalStatusActive: {
		RentalStatusCompleted:  {},
		RentalStatusDispute:    {},
		RentalStatusLateReturn: {},
	},
	RentalStatusReturnPending: {
		RentalStatusCompleted: {},
		RentalStatusDispute:   {},
	},
	RentalStatusLateReturn: {
		RentalStatusCompleted: {},
		RentalStatusDispute:   {},
	},
}

// InitialStatus returns the status a new rental starts in.
func InitialStatus(requiresApproval bool) RentalStatus {
	if requiresApproval {
		return RentalStatusPendingOwnerApproval
	}
	return RentalStatusPendingPayment
}

// CanTransition reports whether the lifecycle allows moving from current to next.
// Staying in place is only allowed for non-terminal statuses.
func CanTransition(current, next RentalStatus) bool {
	if current.IsTerminal() {
		return false
	}
	if current == next {
		return true
	}
	_, ok := transitions[current][next]
	return ok
}

// CanSettlePayment reports whether a payment-only change may be recorded while the
// rental stays in s. Money received after a rental closed must still be booked.
func CanSettlePayment(s RentalStatus) bool {
	return s.Valid()
}

// IsTerminal reports whether no transition leaves s.
func (s RentalStatus) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Valid reports whether s is a known rental status.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPendingOwnerApproval, RentalStatusPendingPayment, RentalStatusConfirmed,
		RentalStatusActive, RentalStatusReturnPending, RentalStatusLateReturn,
		RentalStatusCompleted, RentalStatusRejectedByOwner, RentalStatusCancelledByRenter,
		RentalStatusCancelledByOwner, RentalStatusDispute:
		return true
	}
	return false
}

// HoldsInventory reports whether a rental in status s has a unit of stock reserved.
func (s RentalStatus) HoldsInventory() bool {
	return s == RentalStatusConfirmed || s == RentalStatusActive
}

// RenterCancellable reports whether the renter may still cancel from s.
func (s RentalStatus) RenterCancellable() bool {
	switch s {
	case RentalStatusPendingOwnerApproval, RentalStatusPendingPayment, RentalStatusConfirmed:
		return true
	}
	return false
}

// Returnable reports whether an owner may process the item's return from s.
func (s RentalStatus) Returnable() bool {
	switch s {
	case RentalStatusActive, RentalStatusReturnPending, RentalStatusLateReturn:
		return true
	}
	return false
}
