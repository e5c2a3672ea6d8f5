package position

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/repo"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("position not found")

type Field int

const (
	RoleKindField Field = iota
	StatusField
	ChurchIDField
	ParentIDField
	ZoneIDField
	FamilyGroupIDField
	CreatedAtField
)

type FindParams struct {
	Filters []FieldFilter
	Search  string
	Limit   int
	Offset  int
}

type FieldFilter struct {
	Column Field
	Filter repo.Filter
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Position, error)
	GetByMemberID(ctx context.Context, memberID uuid.UUID) (Position, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Position, int64, error)
	// GetChildren returns direct children of the given position.
	GetChildren(ctx context.Context, id uuid.UUID) ([]Position, error)
	// CountSubtree reports how many positions live under the given path
	// prefix, the position itself excluded.
	CountSubtree(ctx context.Context, pathPrefix string) (int64, error)
	Create(ctx context.Context, p Position) (Position, error)
	Save(ctx context.Context, p Position) (Position, error)
	// RewriteSubtreePaths replaces oldPrefix with newPrefix on every
	// descendant path and repoints their denormalized church reference.
	RewriteSubtreePaths(ctx context.Context, oldPrefix, newPrefix string, churchID uuid.UUID) (int64, error)
	// DetachChildren clears the parent reference of every direct child.
	DetachChildren(ctx context.Context, id uuid.UUID) (int64, error)
	// RerootSubtree strips oldPrefix from every descendant path, turning
	// each direct child into a root pending reassignment.
	RerootSubtree(ctx context.Context, oldPrefix string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
