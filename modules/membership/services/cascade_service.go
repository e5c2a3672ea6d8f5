package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/eventbus"
)

// CascadeService propagates an ancestor change to the whole subtree.
// Descendants keep only a materialized path and a denormalized church
// reference, so one indexed prefix rewrite keeps them consistent.
type CascadeService struct {
	positions position.Repository
	validator *HierarchyValidator
	publisher eventbus.EventBus
}

func NewCascadeService(positions position.Repository, validator *HierarchyValidator, publisher eventbus.EventBus) *CascadeService {
	return &CascadeService{positions: positions, validator: validator, publisher: publisher}
}

// Reparent moves a position under a new parent and cascades the change
// to every descendant, all in one transaction.
func (s *CascadeService) Reparent(ctx context.Context, id uuid.UUID, newParentID uuid.NullUUID, newChurchID uuid.UUID) (position.Position, error) {
	var moved position.Position
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.positions.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		moved, err = s.reparentInTx(txCtx, current, newParentID, newChurchID)
		return err
	})
	if err != nil {
		return position.Position{}, err
	}

	s.publisher.Publish("position.reparented", moved)
	return moved, nil
}

// reparentInTx does the actual move; the caller owns the transaction.
func (s *CascadeService) reparentInTx(ctx context.Context, current position.Position, newParentID uuid.NullUUID, newChurchID uuid.UUID) (position.Position, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return position.Position{}, err
	}

	churchID := newChurchID
	if churchID == uuid.Nil {
		churchID = current.ChurchID()
	}

	// The moved position keeps its kind; the new parent must still
	// satisfy the chain rules for that kind.
	candidate := current.Reparent(newParentID, churchID)
	parent, err := s.validator.ValidateChain(ctx, candidate)
	if err != nil {
		return position.Position{}, err
	}

	oldPath := current.Path()
	newPath := position.PathOf(parent.Path(), current.ID())
	candidate = candidate.WithPath(newPath).WithAudit("", actor.FullName())

	saved, err := s.positions.Save(ctx, candidate)
	if err != nil {
		return position.Position{}, err
	}

	if oldPath != newPath {
		n, err := s.positions.RewriteSubtreePaths(ctx, oldPath, newPath, saved.ChurchID())
		if err != nil {
			return position.Position{}, err
		}
		composables.UseLogger(ctx).
			WithField("position_id", saved.ID()).
			WithField("descendants", n).
			Info("cascaded ancestor change to subtree")
	}
	return saved, nil
}
