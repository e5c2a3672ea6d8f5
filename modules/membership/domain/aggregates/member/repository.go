package member

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("member not found")

type FindParams struct {
	// Search matches first and last names case-insensitively.
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Member, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Member, int64, error)
	Create(ctx context.Context, m Member) (Member, error)
	Save(ctx context.Context, m Member) (Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
