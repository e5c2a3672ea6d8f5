package position

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// RoleKind is the position's level in the fixed hierarchy. The order
// Disciple < Preacher < Supervisor < Copastor < Pastor never changes.
type RoleKind string

const (
	KindDisciple   RoleKind = "disciple"
	KindPreacher   RoleKind = "preacher"
	KindSupervisor RoleKind = "supervisor"
	KindCopastor   RoleKind = "copastor"
	KindPastor     RoleKind = "pastor"
)

var rankByKind = map[RoleKind]int{
	KindDisciple:   0,
	KindPreacher:   1,
	KindSupervisor: 2,
	KindCopastor:   3,
	KindPastor:     4,
}

func (k RoleKind) Valid() bool {
	_, ok := rankByKind[k]
	return ok
}

func (k RoleKind) Rank() int {
	return rankByKind[k]
}

// Next returns the role one level up, or false when k is terminal.
func (k RoleKind) Next() (RoleKind, bool) {
	switch k {
	case KindDisciple:
		return KindPreacher, true
	case KindPreacher:
		return KindSupervisor, true
	case KindSupervisor:
		return KindCopastor, true
	case KindCopastor:
		return KindPastor, true
	default:
		return "", false
	}
}

// ParentKind returns the role kind a position of kind k reports to.
// Pastors report to no position; their parent is the church itself.
func (k RoleKind) ParentKind() (RoleKind, bool) {
	switch k {
	case KindDisciple:
		return KindPreacher, true
	case KindPreacher:
		return KindSupervisor, true
	case KindSupervisor:
		return KindCopastor, true
	case KindCopastor:
		return KindPastor, true
	default:
		return "", false
	}
}

func ParseRoleKind(s string) (RoleKind, bool) {
	k := RoleKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// RelationType records how a position hangs in the organization:
// through the hierarchy chain, directly under a pastor for ministry
// work, or both.
type RelationType string

const (
	RelationHierarchical RelationType = "hierarchical_only"
	RelationMinistry     RelationType = "ministry_only"
	RelationBoth         RelationType = "both"
)

type InactivationCategory string

const (
	InactivationPersonal       InactivationCategory = "personal"
	InactivationAdministrative InactivationCategory = "administrative"
	InactivationDiscipline     InactivationCategory = "discipline"
	InactivationDeceased       InactivationCategory = "deceased"
)

// Position wraps a Member at one hierarchy level. Ancestry is kept as an
// immediate parent reference plus a materialized path of position ids
// from the pastor down; descendants never copy higher-level fields.
type Position struct {
	id           uuid.UUID
	memberID     uuid.UUID
	roleKind     RoleKind
	status       Status
	relationType RelationType

	churchID      uuid.UUID
	parentID      uuid.NullUUID
	zoneID        uuid.NullUUID
	familyGroupID uuid.NullUUID
	path          string

	inactivationCategory InactivationCategory
	inactivationReason   string

	createdBy string
	updatedBy string
	createdAt time.Time
	updatedAt time.Time
}

func New(
	memberID uuid.UUID,
	roleKind RoleKind,
	relationType RelationType,
	churchID uuid.UUID,
	parentID uuid.NullUUID,
) Position {
	return Position{
		id:           uuid.New(),
		memberID:     memberID,
		roleKind:     roleKind,
		status:       StatusActive,
		relationType: relationType,
		churchID:     churchID,
		parentID:     parentID,
	}
}

func Hydrate(
	id uuid.UUID,
	memberID uuid.UUID,
	roleKind RoleKind,
	status Status,
	relationType RelationType,
	churchID uuid.UUID,
	parentID uuid.NullUUID,
	zoneID uuid.NullUUID,
	familyGroupID uuid.NullUUID,
	path string,
	inactivationCategory InactivationCategory,
	inactivationReason string,
	createdBy string,
	updatedBy string,
	createdAt time.Time,
	updatedAt time.Time,
) Position {
	return Position{
		id:                   id,
		memberID:             memberID,
		roleKind:             roleKind,
		status:               status,
		relationType:         relationType,
		churchID:             churchID,
		parentID:             parentID,
		zoneID:               zoneID,
		familyGroupID:        familyGroupID,
		path:                 path,
		inactivationCategory: inactivationCategory,
		inactivationReason:   inactivationReason,
		createdBy:            createdBy,
		updatedBy:            updatedBy,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

func (p Position) ID() uuid.UUID              { return p.id }
func (p Position) MemberID() uuid.UUID        { return p.memberID }
func (p Position) RoleKind() RoleKind         { return p.roleKind }
func (p Position) Status() Status             { return p.status }
func (p Position) RelationType() RelationType { return p.relationType }
func (p Position) ChurchID() uuid.UUID        { return p.churchID }
func (p Position) ParentID() uuid.NullUUID    { return p.parentID }
func (p Position) ZoneID() uuid.NullUUID      { return p.zoneID }
func (p Position) FamilyGroupID() uuid.NullUUID {
	return p.familyGroupID
}
func (p Position) Path() string         { return p.path }
func (p Position) CreatedBy() string    { return p.createdBy }
func (p Position) UpdatedBy() string    { return p.updatedBy }
func (p Position) CreatedAt() time.Time { return p.createdAt }
func (p Position) UpdatedAt() time.Time { return p.updatedAt }
func (p Position) IsActive() bool       { return p.status == StatusActive }
func (p Position) IsZero() bool         { return p.id == uuid.Nil }
func (p Position) InactivationCategory() InactivationCategory {
	return p.inactivationCategory
}
func (p Position) InactivationReason() string { return p.inactivationReason }

func (p Position) WithID(id uuid.UUID) Position {
	p.id = id
	return p
}

func (p Position) WithPath(path string) Position {
	p.path = path
	return p
}

func (p Position) WithZone(zoneID uuid.NullUUID) Position {
	p.zoneID = zoneID
	return p
}

func (p Position) WithFamilyGroup(familyGroupID uuid.NullUUID) Position {
	p.familyGroupID = familyGroupID
	return p
}

func (p Position) WithRelationType(rt RelationType) Position {
	p.relationType = rt
	return p
}

func (p Position) WithAudit(createdBy, updatedBy string) Position {
	if createdBy != "" {
		p.createdBy = createdBy
	}
	p.updatedBy = updatedBy
	return p
}

// Reparent moves the position under a new parent. The caller is
// responsible for recomputing the path and cascading descendants.
func (p Position) Reparent(parentID uuid.NullUUID, churchID uuid.UUID) Position {
	p.parentID = parentID
	p.churchID = churchID
	return p
}

func (p Position) Inactivate(category InactivationCategory, reason string) Position {
	p.status = StatusInactive
	p.inactivationCategory = category
	p.inactivationReason = reason
	return p
}

// PathOf builds the materialized path for a position given its parent's
// path. Pastors are roots, so their path is just their own id.
func PathOf(parentPath string, id uuid.UUID) string {
	if parentPath == "" {
		return id.String()
	}
	return parentPath + "/" + id.String()
}
