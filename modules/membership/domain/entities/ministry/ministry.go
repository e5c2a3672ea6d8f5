package ministry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var (
	ErrNotFound           = serrors.NotFound("ministry not found")
	ErrMembershipNotFound = serrors.NotFound("ministry membership not found")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Type string

const (
	TypeKidsMinistry         Type = "kids_ministry"
	TypeYouthMinistry        Type = "youth_ministry"
	TypeIntercessionMinistry Type = "intercession_ministry"
	TypeEvangelismMinistry   Type = "evangelism_ministry"
	TypeTechnologyMinistry   Type = "technology_ministry"
	TypeWorshipMinistry      Type = "worship_ministry"
)

type Ministry struct {
	id           uuid.UUID
	ministryType Type
	customName   string
	churchID     uuid.UUID
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func New(ministryType Type, customName string, churchID uuid.UUID) Ministry {
	return Ministry{
		id:           uuid.New(),
		ministryType: ministryType,
		customName:   customName,
		churchID:     churchID,
		status:       StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	ministryType Type,
	customName string,
	churchID uuid.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) Ministry {
	return Ministry{
		id:           id,
		ministryType: ministryType,
		customName:   customName,
		churchID:     churchID,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (m Ministry) ID() uuid.UUID        { return m.id }
func (m Ministry) Type() Type           { return m.ministryType }
func (m Ministry) CustomName() string   { return m.customName }
func (m Ministry) ChurchID() uuid.UUID  { return m.churchID }
func (m Ministry) Status() Status       { return m.status }
func (m Ministry) IsActive() bool       { return m.status == StatusActive }
func (m Ministry) CreatedAt() time.Time { return m.createdAt }
func (m Ministry) UpdatedAt() time.Time { return m.updatedAt }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Ministry, error)
	Create(ctx context.Context, m Ministry) (Ministry, error)
}
