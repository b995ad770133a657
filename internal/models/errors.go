package models

import "errors"

// Engine errors. Every failure is per-request; the ledger is always left in
// its last consistent state. Callers decide whether to retry.
var (
	// ErrNotFound means the record or collection id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrNotListed means a purchase was attempted on a record that is not
	// for sale.
	ErrNotListed = errors.New("not listed for sale")

	// ErrInvalidPrice means a listing was attempted with a non-positive
	// price. Rejected before any mutation.
	ErrInvalidPrice = errors.New("price must be greater than zero")

	// ErrMintingFailed means the impact snapshot was missing required
	// fields. No partial record is committed.
	ErrMintingFailed = errors.New("minting failed")

	// ErrNotOwner means the caller tried to list a record they do not own.
	ErrNotOwner = errors.New("caller is not the current owner")

	// ErrSelfTrade means the buyer already owns the record.
	ErrSelfTrade = errors.New("buyer already owns this record")

	// ErrConcurrentModification means a compare-and-mutate precondition
	// failed. Re-read and retry.
	ErrConcurrentModification = errors.New("record was modified concurrently")
)
