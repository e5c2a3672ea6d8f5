package familygroup

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("family group not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// FamilyGroup is the smallest gathering unit, led by a preacher inside
// a zone.
type FamilyGroup struct {
	id                 uuid.UUID
	name               string
	code               string
	churchID           uuid.UUID
	zoneID             uuid.UUID
	preacherPositionID uuid.NullUUID
	status             Status
	createdAt          time.Time
	updatedAt          time.Time
}

func New(name, code string, churchID, zoneID uuid.UUID, preacherPositionID uuid.NullUUID) FamilyGroup {
	return FamilyGroup{
		id:                 uuid.New(),
		name:               name,
		code:               code,
		churchID:           churchID,
		zoneID:             zoneID,
		preacherPositionID: preacherPositionID,
		status:             StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	name, code string,
	churchID, zoneID uuid.UUID,
	preacherPositionID uuid.NullUUID,
	status Status,
	createdAt, updatedAt time.Time,
) FamilyGroup {
	return FamilyGroup{
		id:                 id,
		name:               name,
		code:               code,
		churchID:           churchID,
		zoneID:             zoneID,
		preacherPositionID: preacherPositionID,
		status:             status,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (g FamilyGroup) ID() uuid.UUID                     { return g.id }
func (g FamilyGroup) Name() string                      { return g.name }
func (g FamilyGroup) Code() string                      { return g.code }
func (g FamilyGroup) ChurchID() uuid.UUID               { return g.churchID }
func (g FamilyGroup) ZoneID() uuid.UUID                 { return g.zoneID }
func (g FamilyGroup) PreacherPositionID() uuid.NullUUID { return g.preacherPositionID }
func (g FamilyGroup) Status() Status                    { return g.status }
func (g FamilyGroup) IsActive() bool                    { return g.status == StatusActive }
func (g FamilyGroup) CreatedAt() time.Time              { return g.createdAt }
func (g FamilyGroup) UpdatedAt() time.Time              { return g.updatedAt }

// WithPreacher re-points the group at another preacher position.
func (g FamilyGroup) WithPreacher(positionID uuid.NullUUID) FamilyGroup {
	g.preacherPositionID = positionID
	return g
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (FamilyGroup, error)
	GetByPreacher(ctx context.Context, preacherPositionID uuid.UUID) ([]FamilyGroup, error)
	Create(ctx context.Context, g FamilyGroup) (FamilyGroup, error)
	Save(ctx context.Context, g FamilyGroup) (FamilyGroup, error)
}
