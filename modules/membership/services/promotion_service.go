package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/member"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/familygroup"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/ministry"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/zone"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/eventbus"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// LedgerRepointer moves offering ledger ownership from a retired
// position to its successor. Implemented by the offerings module.
type LedgerRepointer interface {
	RepointOwner(ctx context.Context, oldPositionID, newPositionID uuid.UUID, memberType string) (int64, error)
}

type PromoteInput struct {
	NewParentID uuid.NullUUID
	NewChurchID uuid.UUID
	Member      member.ProfileUpdate
	Ministries  []MinistryAssignment
}

// PromotionResult reports what a completed promotion produced.
type PromotionResult struct {
	OldPositionID      uuid.UUID
	NewPosition        position.Position
	LedgerEntriesMoved int64
}

// PromotionService moves a position exactly one level up the fixed
// hierarchy. The entire transition (member updates, new position,
// ministry memberships, ledger re-pointing, old-position removal) is
// one serializable transaction; a failure at any step rolls back all of
// them.
type PromotionService struct {
	positions   position.Repository
	members     member.Repository
	memberships ministry.MembershipRepository
	zones       zone.Repository
	groups      familygroup.Repository
	validator   *HierarchyValidator
	ledger      LedgerRepointer
	publisher   eventbus.EventBus
}

func NewPromotionService(
	positions position.Repository,
	members member.Repository,
	memberships ministry.MembershipRepository,
	zones zone.Repository,
	groups familygroup.Repository,
	validator *HierarchyValidator,
	ledger LedgerRepointer,
	publisher eventbus.EventBus,
) *PromotionService {
	return &PromotionService{
		positions:   positions,
		members:     members,
		memberships: memberships,
		zones:       zones,
		groups:      groups,
		validator:   validator,
		ledger:      ledger,
		publisher:   publisher,
	}
}

// Promote runs the transition for the position's next role kind. The
// requested role set must already have been validated as a one-level
// promotion by the caller, or the position's Next kind is used.
func (s *PromotionService) Promote(ctx context.Context, id uuid.UUID, input PromoteInput) (PromotionResult, error) {
	var result PromotionResult
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.positions.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return serrors.InvalidState("only active positions can be promoted").
				WithDetail("Position", current.ID().String())
		}
		targetKind, ok := current.RoleKind().Next()
		if !ok {
			return serrors.InvalidTransition("pastor is the terminal role").
				WithDetail("Position", current.ID().String())
		}
		promoted, moved, err := s.promoteInTx(txCtx, current, targetKind, input)
		if err != nil {
			return err
		}
		result = PromotionResult{
			OldPositionID:      current.ID(),
			NewPosition:        promoted,
			LedgerEntriesMoved: moved,
		}
		return nil
	})
	if err != nil {
		return PromotionResult{}, err
	}

	s.publisher.Publish("position.promoted", result)
	return result, nil
}

// promoteInTx executes the transition inside the caller's transaction.
func (s *PromotionService) promoteInTx(
	ctx context.Context,
	current position.Position,
	targetKind position.RoleKind,
	input PromoteInput,
) (position.Position, int64, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return position.Position{}, 0, err
	}

	churchID := input.NewChurchID
	if churchID == uuid.Nil {
		churchID = current.ChurchID()
	}

	// 1. The new required parent must exist and be active.
	parent, err := s.validator.ValidateParentFor(ctx, targetKind, churchID, input.NewParentID)
	if err != nil {
		return position.Position{}, 0, err
	}

	// 2. Member field updates persist first; the member survives the
	// position swap.
	m, err := s.members.GetByID(ctx, current.MemberID())
	if err != nil {
		return position.Position{}, 0, err
	}
	m = m.Apply(input.Member)
	if _, err := s.members.Save(ctx, m); err != nil {
		return position.Position{}, 0, err
	}

	// 3. Descendants of the retired position are detached and re-rooted
	// pending reassignment; a promoted preacher's disciples cannot report
	// to a supervisor.
	if _, err := s.positions.DetachChildren(ctx, current.ID()); err != nil {
		return position.Position{}, 0, err
	}
	if _, err := s.positions.RerootSubtree(ctx, current.Path()); err != nil {
		return position.Position{}, 0, err
	}

	// 4. Remove the old position before inserting the successor so the
	// one-active-position-per-member constraint never trips.
	if err := s.positions.Delete(ctx, current.ID()); err != nil {
		return position.Position{}, 0, err
	}

	relationType := position.RelationHierarchical
	if len(input.Ministries) > 0 {
		relationType = position.RelationBoth
	}

	next := position.New(m.ID(), targetKind, relationType, churchID, input.NewParentID).
		WithAudit(actor.FullName(), actor.FullName())
	next = next.WithPath(position.PathOf(parent.Path(), next.ID()))

	promoted, err := s.positions.Create(ctx, next)
	if err != nil {
		return position.Position{}, 0, err
	}

	// 5. Ministry memberships: replace the role list when the pair
	// already exists, create it otherwise; refresh the role snapshot.
	if err := s.validator.ValidateMinistries(ctx, churchID, input.Ministries); err != nil {
		return position.Position{}, 0, err
	}
	for _, assignment := range input.Ministries {
		existing, err := s.memberships.GetByMemberAndMinistry(ctx, m.ID(), assignment.MinistryID)
		switch {
		case err == nil:
			_, err = s.memberships.Save(ctx, existing.ReplaceRoles(string(targetKind), assignment.Roles))
			if err != nil {
				return position.Position{}, 0, err
			}
		case serrors.IsCode(err, serrors.CodeNotFound):
			_, err = s.memberships.Create(ctx, ministry.NewMembership(
				m.ID(), assignment.MinistryID, string(targetKind), assignment.Roles,
			))
			if err != nil {
				return position.Position{}, 0, err
			}
		default:
			return position.Position{}, 0, err
		}
	}

	// 6. Units the retired position ran follow the member to the new
	// one; their position references are deferred so the swap above
	// does not trip them mid-transaction.
	ownedZones, err := s.zones.GetBySupervisor(ctx, current.ID())
	if err != nil {
		return position.Position{}, 0, err
	}
	for _, z := range ownedZones {
		if _, err := s.zones.Save(ctx, z.WithSupervisor(uuid.NullUUID{UUID: promoted.ID(), Valid: true})); err != nil {
			return position.Position{}, 0, err
		}
	}
	ownedGroups, err := s.groups.GetByPreacher(ctx, current.ID())
	if err != nil {
		return position.Position{}, 0, err
	}
	for _, g := range ownedGroups {
		if _, err := s.groups.Save(ctx, g.WithPreacher(uuid.NullUUID{UUID: promoted.ID(), Valid: true})); err != nil {
			return position.Position{}, 0, err
		}
	}

	// 7. Every ledger entry owned by the retired position follows the
	// member to the new one.
	moved, err := s.ledger.RepointOwner(ctx, current.ID(), promoted.ID(), string(targetKind))
	if err != nil {
		return position.Position{}, 0, err
	}
	composables.UseLogger(ctx).
		WithField("old_position_id", current.ID()).
		WithField("new_position_id", promoted.ID()).
		WithField("ledger_entries", moved).
		Info("promotion completed")

	return promoted, moved, nil
}
