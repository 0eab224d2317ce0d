package claimable

import (
	"github.com/iov-one/lockbox/errors"
)

var (
	// ErrTooManyClaimants is returned when a balance is funded with more
	// than MaxClaimants claimants.
	ErrTooManyClaimants = errors.Register(1100, "too many claimants")

	// ErrAlreadyInitialized is returned when funding an instance that was
	// funded before, including one that was claimed already.
	ErrAlreadyInitialized = errors.Register(1101, "contract has been already initialized")

	// ErrNoActiveEscrow is returned when withdrawing from an instance that
	// holds no balance.
	ErrNoActiveEscrow = errors.Register(1102, "no active escrow")

	// ErrTimePredicate is returned when the time bound does not hold for
	// the current block time.
	ErrTimePredicate = errors.Register(1103, "time predicate is not fulfilled")

	// ErrIneligibleClaimant is returned when the withdrawing address is not
	// one of the claimants.
	ErrIneligibleClaimant = errors.Register(1104, "claimant is not allowed to claim this balance")
)
