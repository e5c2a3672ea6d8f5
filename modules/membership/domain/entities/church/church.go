package church

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("church not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Church is the hierarchy root. Attribute CRUD lives outside this core;
// the entity exists so chains and ledger dimensions can resolve it.
type Church struct {
	id        uuid.UUID
	name      string
	isMain    bool
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func New(name string, isMain bool) Church {
	return Church{id: uuid.New(), name: name, isMain: isMain, status: StatusActive}
}

func Hydrate(id uuid.UUID, name string, isMain bool, status Status, createdAt, updatedAt time.Time) Church {
	return Church{id: id, name: name, isMain: isMain, status: status, createdAt: createdAt, updatedAt: updatedAt}
}

func (c Church) ID() uuid.UUID        { return c.id }
func (c Church) Name() string         { return c.name }
func (c Church) IsMain() bool         { return c.isMain }
func (c Church) Status() Status       { return c.status }
func (c Church) IsActive() bool       { return c.status == StatusActive }
func (c Church) CreatedAt() time.Time { return c.createdAt }
func (c Church) UpdatedAt() time.Time { return c.updatedAt }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Church, error)
	Create(ctx context.Context, c Church) (Church, error)
}
