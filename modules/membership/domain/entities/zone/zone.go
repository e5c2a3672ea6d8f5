package zone

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("zone not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Zone groups family groups under one supervisor position.
type Zone struct {
	id                   uuid.UUID
	name                 string
	churchID             uuid.UUID
	supervisorPositionID uuid.NullUUID
	status               Status
	createdAt            time.Time
	updatedAt            time.Time
}

func New(name string, churchID uuid.UUID, supervisorPositionID uuid.NullUUID) Zone {
	return Zone{
		id:                   uuid.New(),
		name:                 name,
		churchID:             churchID,
		supervisorPositionID: supervisorPositionID,
		status:               StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	churchID uuid.UUID,
	supervisorPositionID uuid.NullUUID,
	status Status,
	createdAt, updatedAt time.Time,
) Zone {
	return Zone{
		id:                   id,
		name:                 name,
		churchID:             churchID,
		supervisorPositionID: supervisorPositionID,
		status:               status,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

func (z Zone) ID() uuid.UUID                       { return z.id }
func (z Zone) Name() string                        { return z.name }
func (z Zone) ChurchID() uuid.UUID                 { return z.churchID }
func (z Zone) SupervisorPositionID() uuid.NullUUID { return z.supervisorPositionID }
func (z Zone) Status() Status                      { return z.status }
func (z Zone) IsActive() bool                      { return z.status == StatusActive }
func (z Zone) CreatedAt() time.Time                { return z.createdAt }
func (z Zone) UpdatedAt() time.Time                { return z.updatedAt }

// WithSupervisor re-points the zone at another supervisor position.
func (z Zone) WithSupervisor(positionID uuid.NullUUID) Zone {
	z.supervisorPositionID = positionID
	return z
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Zone, error)
	GetBySupervisor(ctx context.Context, supervisorPositionID uuid.UUID) ([]Zone, error)
	Create(ctx context.Context, z Zone) (Zone, error)
	Save(ctx context.Context, z Zone) (Zone, error)
}
