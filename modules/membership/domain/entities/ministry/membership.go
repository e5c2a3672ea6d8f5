package ministry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Membership ties a member to a ministry. Unique per (member, ministry);
// memberRole snapshots the member's hierarchy role at assignment time and
// is refreshed on promotion.
type Membership struct {
	id            uuid.UUID
	memberID      uuid.UUID
	ministryID    uuid.UUID
	memberRole    string
	ministryRoles []string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewMembership(memberID, ministryID uuid.UUID, memberRole string, ministryRoles []string) Membership {
	return Membership{
		id:            uuid.New(),
		memberID:      memberID,
		ministryID:    ministryID,
		memberRole:    memberRole,
		ministryRoles: ministryRoles,
	}
}

func HydrateMembership(
	id, memberID, ministryID uuid.UUID,
	memberRole string,
	ministryRoles []string,
	createdAt, updatedAt time.Time,
) Membership {
	return Membership{
		id:            id,
		memberID:      memberID,
		ministryID:    ministryID,
		memberRole:    memberRole,
		ministryRoles: ministryRoles,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (m Membership) ID() uuid.UUID           { return m.id }
func (m Membership) MemberID() uuid.UUID     { return m.memberID }
func (m Membership) MinistryID() uuid.UUID   { return m.ministryID }
func (m Membership) MemberRole() string      { return m.memberRole }
func (m Membership) MinistryRoles() []string { return m.ministryRoles }
func (m Membership) CreatedAt() time.Time    { return m.createdAt }
func (m Membership) UpdatedAt() time.Time    { return m.updatedAt }
func (m Membership) IsZero() bool            { return m.id == uuid.Nil }

// ReplaceRoles swaps the ministry-specific role list and refreshes the
// hierarchy-role snapshot.
func (m Membership) ReplaceRoles(memberRole string, ministryRoles []string) Membership {
	m.memberRole = memberRole
	m.ministryRoles = ministryRoles
	return m
}

type MembershipRepository interface {
	GetByMemberAndMinistry(ctx context.Context, memberID, ministryID uuid.UUID) (Membership, error)
	GetByMember(ctx context.Context, memberID uuid.UUID) ([]Membership, error)
	Create(ctx context.Context, m Membership) (Membership, error)
	Save(ctx context.Context, m Membership) (Membership, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
