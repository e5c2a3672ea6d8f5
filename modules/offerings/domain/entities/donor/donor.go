package donor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("external donor not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ExternalDonor gives non-member contributions an owning dimension
// without a position in the hierarchy.
type ExternalDonor struct {
	id         uuid.UUID
	firstNames string
	lastNames  string
	email      string
	phone      string
	country    string
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

func New(firstNames, lastNames, email, phone, country string) ExternalDonor {
	return ExternalDonor{
		id:         uuid.New(),
		firstNames: strings.TrimSpace(firstNames),
		lastNames:  strings.TrimSpace(lastNames),
		email:      strings.TrimSpace(email),
		phone:      strings.TrimSpace(phone),
		country:    strings.TrimSpace(country),
		status:     StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	firstNames, lastNames, email, phone, country string,
	status Status,
	createdAt, updatedAt time.Time,
) ExternalDonor {
	return ExternalDonor{
		id:         id,
		firstNames: firstNames,
		lastNames:  lastNames,
		email:      email,
		phone:      phone,
		country:    country,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (d ExternalDonor) ID() uuid.UUID        { return d.id }
func (d ExternalDonor) FirstNames() string   { return d.firstNames }
func (d ExternalDonor) LastNames() string    { return d.lastNames }
func (d ExternalDonor) FullName() string     { return d.firstNames + " " + d.lastNames }
func (d ExternalDonor) Email() string        { return d.email }
func (d ExternalDonor) Phone() string        { return d.phone }
func (d ExternalDonor) Country() string      { return d.country }
func (d ExternalDonor) Status() Status       { return d.status }
func (d ExternalDonor) IsActive() bool       { return d.status == StatusActive }
func (d ExternalDonor) CreatedAt() time.Time { return d.createdAt }
func (d ExternalDonor) UpdatedAt() time.Time { return d.updatedAt }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (ExternalDonor, error)
	Create(ctx context.Context, d ExternalDonor) (ExternalDonor, error)
	Save(ctx context.Context, d ExternalDonor) (ExternalDonor, error)
}
