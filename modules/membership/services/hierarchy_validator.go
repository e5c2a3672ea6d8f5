package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/church"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/ministry"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// HierarchyValidator checks ancestor chains and role sets before any
// position mutation. Every non-null ancestor reference must point to an
// active record at creation or transition time.
type HierarchyValidator struct {
	positions  position.Repository
	ministries ministry.Repository
	churches   church.Repository
}

func NewHierarchyValidator(positions position.Repository, ministries ministry.Repository, churches church.Repository) *HierarchyValidator {
	return &HierarchyValidator{positions: positions, ministries: ministries, churches: churches}
}

// ValidateChain resolves and checks the declared parent of a position.
// For hierarchical positions the parent must be of the next-higher kind;
// ministry-only positions hang directly under a pastor. The parent
// position, and transitively the church, must be active.
func (v *HierarchyValidator) ValidateChain(ctx context.Context, p position.Position) (position.Position, error) {
	ch, err := v.churches.GetByID(ctx, p.ChurchID())
	if err != nil {
		return position.Position{}, err
	}
	if !ch.IsActive() {
		return position.Position{}, serrors.InvalidState("church is not active").
			WithDetail("Church", ch.ID().String())
	}

	if p.RoleKind() == position.KindPastor {
		if p.ParentID().Valid {
			return position.Position{}, serrors.InvalidTransition("pastor cannot have a parent position")
		}
		return position.Position{}, nil
	}

	if !p.ParentID().Valid {
		return position.Position{}, serrors.NotFound("parent position reference missing").
			WithDetail("Role", string(p.RoleKind()))
	}

	parent, err := v.positions.GetByID(ctx, p.ParentID().UUID)
	if err != nil {
		return position.Position{}, err
	}
	if !parent.IsActive() {
		return position.Position{}, serrors.InvalidState("parent position is not active").
			WithDetail("Parent", parent.ID().String()).
			WithDetail("Role", string(parent.RoleKind()))
	}

	if p.RelationType() == position.RelationMinistry {
		if parent.RoleKind() != position.KindPastor {
			return position.Position{}, serrors.InvalidTransition("ministry-only positions report directly to a pastor").
				WithDetail("Parent", string(parent.RoleKind()))
		}
		return parent, nil
	}

	wantKind, _ := p.RoleKind().ParentKind()
	if parent.RoleKind() != wantKind {
		return position.Position{}, serrors.InvalidTransition("parent is not of the next-higher kind").
			WithDetail("Parent", string(parent.RoleKind())).
			WithDetail("Expected", string(wantKind))
	}
	return parent, nil
}

// ValidateParentFor resolves the required parent for a position of the
// target kind: the church itself for pastors, otherwise a position of
// kind target-1.
func (v *HierarchyValidator) ValidateParentFor(
	ctx context.Context,
	targetKind position.RoleKind,
	churchID uuid.UUID,
	parentID uuid.NullUUID,
) (position.Position, error) {
	probe := position.New(uuid.Nil, targetKind, position.RelationHierarchical, churchID, parentID)
	return v.ValidateChain(ctx, probe)
}

// ValidateMinistries checks that every requested ministry exists, is
// active and belongs to the position's church.
func (v *HierarchyValidator) ValidateMinistries(ctx context.Context, churchID uuid.UUID, assignments []MinistryAssignment) error {
	for _, assignment := range assignments {
		m, err := v.ministries.GetByID(ctx, assignment.MinistryID)
		if err != nil {
			return err
		}
		if !m.IsActive() {
			return serrors.InvalidState("ministry is not active").
				WithDetail("Ministry", m.ID().String())
		}
		if m.ChurchID() != churchID {
			return serrors.InvalidState("ministry belongs to a different church").
				WithDetail("Ministry", m.ID().String()).
				WithDetail("Church", churchID.String())
		}
	}
	return nil
}
