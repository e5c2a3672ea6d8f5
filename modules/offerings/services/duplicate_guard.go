package services

import (
	"context"
	"errors"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
)

// DuplicateGuard is the check half of the ledger's check-and-insert.
// It takes the per-key advisory lock first, so two transactions
// creating the same financial fact serialize and the second sees the
// first's row; the partial unique index on the key backs it up.
type DuplicateGuard struct {
	offerings offering.Repository
}

func NewDuplicateGuard(offerings offering.Repository) *DuplicateGuard {
	return &DuplicateGuard{offerings: offerings}
}

// Check fails Conflict when an active entry already records the probe's
// financial fact. Must run inside the transaction that will insert.
func (g *DuplicateGuard) Check(ctx context.Context, probe offering.Offering) error {
	if err := g.offerings.LockUniquenessKey(ctx, probe.UniquenessKey()); err != nil {
		return err
	}
	_, err := g.offerings.FindActiveDuplicate(ctx, probe)
	switch {
	case err == nil:
		return offering.DuplicateError(probe)
	case errors.Is(err, offering.ErrNotFound):
		return nil
	default:
		return err
	}
}
