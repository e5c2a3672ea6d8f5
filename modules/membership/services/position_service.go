package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/member"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/ministry"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/constants"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/eventbus"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// MinistryAssignment requests membership in one ministry with the given
// ministry-specific roles.
type MinistryAssignment struct {
	MinistryID uuid.UUID `validate:"required"`
	Roles      []string  `validate:"required,min=1"`
}

type CreatePositionInput struct {
	RequestedRoles []position.RoleKind `validate:"required,min=1"`
	RoleKind       position.RoleKind   `validate:"required"`
	RelationType   position.RelationType
	ChurchID       uuid.UUID `validate:"required"`
	ParentID       uuid.NullUUID
	ZoneID         uuid.NullUUID
	FamilyGroupID  uuid.NullUUID

	FirstNames     string `validate:"required"`
	LastNames      string `validate:"required"`
	Gender         member.Gender
	MaritalStatus  member.MaritalStatus
	BirthDate      time.Time
	ConversionDate time.Time
	Email          string `validate:"omitempty,email"`
	Phone          string
	Residence      member.Residence

	Ministries []MinistryAssignment
}

type UpdatePositionInput struct {
	RequestedRoles []position.RoleKind `validate:"required,min=1"`
	// NewParentID is consulted when the role set promotes the position
	// or when the parent reference changes at the same level.
	NewParentID uuid.NullUUID
	NewChurchID uuid.UUID
	Member      member.ProfileUpdate
	Ministries  []MinistryAssignment
}

// PositionService is the registry over per-role position records.
// Promotions and reparenting are delegated so they run under their own
// transaction machinery.
type PositionService struct {
	positions   position.Repository
	members     member.Repository
	memberships ministry.MembershipRepository
	validator   *HierarchyValidator
	promotions  *PromotionService
	cascades    *CascadeService
	publisher   eventbus.EventBus
}

func NewPositionService(
	positions position.Repository,
	members member.Repository,
	memberships ministry.MembershipRepository,
	validator *HierarchyValidator,
	promotions *PromotionService,
	cascades *CascadeService,
	publisher eventbus.EventBus,
) *PositionService {
	return &PositionService{
		positions:   positions,
		members:     members,
		memberships: memberships,
		validator:   validator,
		promotions:  promotions,
		cascades:    cascades,
		publisher:   publisher,
	}
}

func (s *PositionService) GetByID(ctx context.Context, id uuid.UUID) (position.Position, error) {
	return s.positions.GetByID(ctx, id)
}

func (s *PositionService) GetPaginated(ctx context.Context, params *position.FindParams) ([]position.Position, int64, error) {
	return s.positions.GetPaginated(ctx, params)
}

// Create registers a new member under a new position of the requested
// kind. The whole operation is one transaction: member, position and
// ministry memberships commit or roll back together.
func (s *PositionService) Create(ctx context.Context, input CreatePositionInput) (position.Position, error) {
	if err := constants.Validate.Struct(input); err != nil {
		return position.Position{}, err
	}
	if err := position.ValidateCreateRoleSet(input.RequestedRoles, input.RoleKind); err != nil {
		return position.Position{}, err
	}

	actor, err := composables.UseActor(ctx)
	if err != nil {
		return position.Position{}, err
	}

	relationType := input.RelationType
	if relationType == "" {
		if len(input.Ministries) > 0 {
			relationType = position.RelationBoth
		} else {
			relationType = position.RelationHierarchical
		}
	}

	var created position.Position
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		p := position.New(uuid.Nil, input.RoleKind, relationType, input.ChurchID, input.ParentID)

		parent, err := s.validator.ValidateChain(txCtx, p)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateMinistries(txCtx, input.ChurchID, input.Ministries); err != nil {
			return err
		}

		m, err := s.members.Create(txCtx, member.New(
			input.FirstNames, input.LastNames,
			input.Gender, input.MaritalStatus,
			input.BirthDate, input.ConversionDate,
			input.Email, input.Phone,
			input.Residence,
		))
		if err != nil {
			return err
		}

		p = position.New(m.ID(), input.RoleKind, relationType, input.ChurchID, input.ParentID).
			WithZone(input.ZoneID).
			WithFamilyGroup(input.FamilyGroupID).
			WithAudit(actor.FullName(), actor.FullName())
		p = p.WithPath(position.PathOf(parent.Path(), p.ID()))

		created, err = s.positions.Create(txCtx, p)
		if err != nil {
			return err
		}

		for _, assignment := range input.Ministries {
			_, err := s.memberships.Create(txCtx, ministry.NewMembership(
				m.ID(), assignment.MinistryID, string(input.RoleKind), assignment.Roles,
			))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return position.Position{}, err
	}

	s.publisher.Publish("position.created", created)
	return created, nil
}

// Update applies a role-set-validated update: member profile edits, a
// same-level reparent, or a one-level promotion.
func (s *PositionService) Update(ctx context.Context, id uuid.UUID, input UpdatePositionInput) (position.Position, error) {
	if err := constants.Validate.Struct(input); err != nil {
		return position.Position{}, err
	}

	var updated position.Position
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.positions.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		target, err := position.ValidateUpdateRoleSet(input.RequestedRoles, current.RoleKind())
		if err != nil {
			return err
		}

		if target.IsPromotion {
			if !current.IsActive() {
				return serrors.InvalidState("only active positions can be promoted").
					WithDetail("Position", current.ID().String())
			}
			updated, _, err = s.promotions.promoteInTx(txCtx, current, target.Kind, PromoteInput{
				NewParentID: input.NewParentID,
				NewChurchID: input.NewChurchID,
				Member:      input.Member,
				Ministries:  input.Ministries,
			})
			return err
		}

		updated, err = s.updateInPlace(txCtx, current, input)
		return err
	})
	if err != nil {
		return position.Position{}, err
	}

	s.publisher.Publish("position.updated", updated)
	return updated, nil
}

func (s *PositionService) updateInPlace(ctx context.Context, current position.Position, input UpdatePositionInput) (position.Position, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return position.Position{}, err
	}

	m, err := s.members.GetByID(ctx, current.MemberID())
	if err != nil {
		return position.Position{}, err
	}
	if _, err := s.members.Save(ctx, m.Apply(input.Member)); err != nil {
		return position.Position{}, err
	}

	parentChanged := input.NewParentID.Valid &&
		(!current.ParentID().Valid || input.NewParentID.UUID != current.ParentID().UUID)
	if parentChanged {
		return s.cascades.reparentInTx(ctx, current, input.NewParentID, input.NewChurchID)
	}

	return s.positions.Save(ctx, current.WithAudit("", actor.FullName()))
}

// Inactivate archives a position with a category and reason. The member
// record is kept; historical ledger entries stay attached.
func (s *PositionService) Inactivate(ctx context.Context, id uuid.UUID, category position.InactivationCategory, reason string) (position.Position, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return position.Position{}, err
	}

	var inactivated position.Position
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.positions.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return serrors.InvalidState("position is already inactive").
				WithDetail("Position", current.ID().String())
		}
		inactivated, err = s.positions.Save(
			txCtx,
			current.Inactivate(category, reason).WithAudit("", actor.FullName()),
		)
		return err
	})
	if err != nil {
		return position.Position{}, err
	}

	s.publisher.Publish("position.inactivated", inactivated)
	return inactivated, nil
}
