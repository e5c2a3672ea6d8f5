package offering

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/repo"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("ledger entry not found")

type Field int

const (
	EntryTypeField Field = iota
	SubTypeField
	CategoryField
	CurrencyField
	StatusField
	ChurchIDField
	ZoneIDField
	FamilyGroupIDField
	PositionIDField
	DateField
)

type FindParams struct {
	Filters []FieldFilter
	Limit   int
	Offset  int
}

type FieldFilter struct {
	Column Field
	Filter repo.Filter
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Offering, error)
	GetByReceiptCode(ctx context.Context, code string) (Offering, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Offering, int64, error)
	// FindActiveDuplicate returns the active entry sharing the probe's
	// uniqueness key, or ErrNotFound.
	FindActiveDuplicate(ctx context.Context, probe Offering) (Offering, error)
	// FindReconciliationTarget returns the active entry sharing every
	// dimension key of the source except currency, in the target
	// currency, or ErrNotFound.
	FindReconciliationTarget(ctx context.Context, source Offering, target Currency) (Offering, error)
	// LockUniquenessKey serializes concurrent creates for one key; held
	// until the surrounding transaction ends.
	LockUniquenessKey(ctx context.Context, key string) error
	Create(ctx context.Context, o Offering) (Offering, error)
	Save(ctx context.Context, o Offering) (Offering, error)
	// RepointOwner moves every entry owned by the old position to the
	// new one and retags its member type.
	RepointOwner(ctx context.Context, oldPositionID, newPositionID uuid.UUID, memberType string) (int64, error)
}

// Sequencer hands out the next position in a receipt series. The
// increment must be atomic under concurrent writers for one prefix and
// must join the caller's transaction.
type Sequencer interface {
	Next(ctx context.Context, prefix Prefix) (int64, error)
}
