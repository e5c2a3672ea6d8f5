package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/church"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/familygroup"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/zone"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/entities/donor"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/constants"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/eventbus"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

type CreateOfferingInput struct {
	EntryType offering.EntryType `validate:"required"`
	SubType   offering.SubType   `validate:"required"`
	Category  offering.Category  `validate:"required"`
	Amount    decimal.Decimal
	Currency  offering.Currency `validate:"required"`
	Date      time.Time         `validate:"required"`
	Dimension offering.Dimension
	Comments  string
}

// UpdateOfferingInput carries the mutable fields. Identity fields are
// present only so an attempt to change one fails loudly instead of
// being silently dropped.
type UpdateOfferingInput struct {
	Amount   *decimal.Decimal
	Currency *offering.Currency
	Comments *string

	SubType   *offering.SubType
	Shift     *offering.Shift
	Date      *time.Time
	Dimension *offering.Dimension
}

func (i UpdateOfferingInput) identityChangeRequested() bool {
	return i.SubType != nil || i.Shift != nil || i.Date != nil || i.Dimension != nil
}

type InactivateOfferingInput struct {
	Reason  offering.InactivationReason `validate:"required"`
	Details string

	// Exchange fields, consulted only when Reason is currency_exchange.
	Rate           decimal.Decimal
	TargetCurrency offering.Currency
}

// OfferingService owns the ledger: idempotent creation behind the
// duplicate guard, receipt numbering, and the inactivation flow with
// its currency-exchange side effect.
type OfferingService struct {
	offerings offering.Repository
	sequencer offering.Sequencer
	guard     *DuplicateGuard
	reconcile *ReconciliationService

	churches  church.Repository
	zones     zone.Repository
	groups    familygroup.Repository
	positions position.Repository
	donors    donor.Repository

	renderer  ReceiptRenderer
	store     DocumentStore
	publisher eventbus.EventBus
}

func NewOfferingService(
	offerings offering.Repository,
	sequencer offering.Sequencer,
	guard *DuplicateGuard,
	reconcile *ReconciliationService,
	churches church.Repository,
	zones zone.Repository,
	groups familygroup.Repository,
	positions position.Repository,
	donors donor.Repository,
	renderer ReceiptRenderer,
	store DocumentStore,
	publisher eventbus.EventBus,
) *OfferingService {
	return &OfferingService{
		offerings: offerings,
		sequencer: sequencer,
		guard:     guard,
		reconcile: reconcile,
		churches:  churches,
		zones:     zones,
		groups:    groups,
		positions: positions,
		donors:    donors,
		renderer:  renderer,
		store:     store,
		publisher: publisher,
	}
}

func (s *OfferingService) GetByID(ctx context.Context, id uuid.UUID) (offering.Offering, error) {
	return s.offerings.GetByID(ctx, id)
}

func (s *OfferingService) GetPaginated(ctx context.Context, params *offering.FindParams) ([]offering.Offering, int64, error) {
	return s.offerings.GetPaginated(ctx, params)
}

// Create records a new ledger entry: dimension resolution, duplicate
// guard, receipt numbering, persistence and receipt document, all in
// one transaction.
func (s *OfferingService) Create(ctx context.Context, input CreateOfferingInput) (offering.Offering, error) {
	if err := constants.Validate.Struct(input); err != nil {
		return offering.Offering{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return offering.Offering{}, err
	}

	entry, err := offering.New(
		input.EntryType, input.SubType, input.Category,
		input.Amount, input.Currency, input.Date, input.Dimension,
	)
	if err != nil {
		return offering.Offering{}, err
	}
	if input.Comments != "" {
		entry = entry.AppendComment(input.Comments)
	}
	entry = entry.WithAudit(actor.FullName(), actor.FullName())

	var created offering.Offering
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.resolveDimension(txCtx, entry.Dimension()); err != nil {
			return err
		}
		if err := s.guard.Check(txCtx, entry); err != nil {
			return err
		}

		prefix, err := offering.PrefixFor(entry.EntryType(), entry.SubType())
		if err != nil {
			return err
		}
		n, err := s.sequencer.Next(txCtx, prefix)
		if err != nil {
			return err
		}
		entry = entry.WithReceiptCode(offering.FormatReceiptCode(prefix, n))

		created, err = s.offerings.Create(txCtx, entry)
		if err != nil {
			return err
		}
		created, err = s.refreshReceiptDocument(txCtx, created)
		if err != nil {
			return err
		}
		created, err = s.offerings.Save(txCtx, created)
		return err
	})
	if err != nil {
		return offering.Offering{}, err
	}

	s.publisher.Publish("offering.created", created)
	return created, nil
}

// Update applies non-identity changes and regenerates the receipt
// document. Changing type, subtype, shift, date or the owning
// dimension is rejected.
func (s *OfferingService) Update(ctx context.Context, id uuid.UUID, input UpdateOfferingInput) (offering.Offering, error) {
	if input.identityChangeRequested() {
		return offering.Offering{}, serrors.InvalidState("identity fields are immutable after creation")
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return offering.Offering{}, err
	}

	var updated offering.Offering
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.offerings.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return serrors.InvalidState("inactive ledger entries cannot change").
				WithDetail("Entry", current.ID().String())
		}

		changed, err := current.Apply(offering.Update{
			Amount:   input.Amount,
			Currency: input.Currency,
			Comments: input.Comments,
		})
		if err != nil {
			return err
		}
		changed = changed.WithAudit("", actor.FullName())

		// A currency change moves the entry to another uniqueness key;
		// the guard must approve the new one.
		if changed.UniquenessKey() != current.UniquenessKey() {
			if err := s.guard.Check(txCtx, changed); err != nil {
				return err
			}
		}

		changed, err = s.refreshReceiptDocument(txCtx, changed)
		if err != nil {
			return err
		}
		updated, err = s.offerings.Save(txCtx, changed)
		return err
	})
	if err != nil {
		return offering.Offering{}, err
	}

	s.publisher.Publish("offering.updated", updated)
	return updated, nil
}

// Inactivate archives an entry with a structured audit comment. With
// the currency-exchange reason it first runs the reconciliation, in
// the same transaction; either everything lands or nothing does.
func (s *OfferingService) Inactivate(ctx context.Context, id uuid.UUID, input InactivateOfferingInput) (offering.Offering, *Result, error) {
	if err := constants.Validate.Struct(input); err != nil {
		return offering.Offering{}, nil, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return offering.Offering{}, nil, err
	}

	var inactivated offering.Offering
	var result *Result
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.offerings.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return serrors.InvalidState("ledger entry is already inactive").
				WithDetail("Entry", current.ID().String())
		}

		line := fmt.Sprintf(
			"[%s] inactivated: reason %s, %s, by %s",
			time.Now().Format("2006-01-02"), input.Reason, input.Details, actor.FullName(),
		)

		if input.Reason == offering.ReasonCurrencyExchange {
			r, err := s.reconcile.reconcileInTx(txCtx, current, input.Rate, input.TargetCurrency)
			if err != nil {
				return err
			}
			result = &r
			line = fmt.Sprintf(
				"%s; exchanged at rate %s into %s %s",
				line, input.Rate.String(), r.ConvertedAmount.StringFixed(2), input.TargetCurrency,
			)
		}

		final := current.Inactivate(input.Reason, line).
			WithAudit("", actor.FullName())
		final, err = s.refreshReceiptDocument(txCtx, final)
		if err != nil {
			return err
		}
		inactivated, err = s.offerings.Save(txCtx, final)
		return err
	})
	if err != nil {
		return offering.Offering{}, nil, err
	}

	s.publisher.Publish("offering.inactivated", inactivated)
	return inactivated, result, nil
}

// resolveDimension requires every referenced owner entity to be active.
func (s *OfferingService) resolveDimension(ctx context.Context, d offering.Dimension) error {
	ch, err := s.churches.GetByID(ctx, d.ChurchID)
	if err != nil {
		return err
	}
	if !ch.IsActive() {
		return serrors.InvalidState("church is not active").
			WithDetail("Church", ch.ID().String())
	}

	shape, err := d.Shape()
	if err != nil {
		return err
	}
	switch shape {
	case "family_group":
		g, err := s.groups.GetByID(ctx, d.FamilyGroupID.UUID)
		if err != nil {
			return err
		}
		if !g.IsActive() {
			return serrors.InvalidState("family group is not active").
				WithDetail("FamilyGroup", g.ID().String())
		}
	case "zone":
		z, err := s.zones.GetByID(ctx, d.ZoneID.UUID)
		if err != nil {
			return err
		}
		if !z.IsActive() {
			return serrors.InvalidState("zone is not active").
				WithDetail("Zone", z.ID().String())
		}
	case "position":
		p, err := s.positions.GetByID(ctx, d.PositionID.UUID)
		if err != nil {
			return err
		}
		if !p.IsActive() {
			return serrors.InvalidState("position is not active").
				WithDetail("Position", p.ID().String())
		}
		kind, ok := position.ParseRoleKind(d.MemberType)
		if !ok || kind != p.RoleKind() {
			return serrors.InvalidState("member type does not match the position's role").
				WithDetail("MemberType", d.MemberType).
				WithDetail("Role", string(p.RoleKind()))
		}
	case "external_donor":
		dn, err := s.donors.GetByID(ctx, d.ExternalDonorID.UUID)
		if err != nil {
			return err
		}
		if !dn.IsActive() {
			return serrors.InvalidState("external donor is not active").
				WithDetail("Donor", dn.ID().String())
		}
	}
	return nil
}

func (s *OfferingService) refreshReceiptDocument(ctx context.Context, o offering.Offering) (offering.Offering, error) {
	body, err := s.renderer.Render(o)
	if err != nil {
		return offering.Offering{}, err
	}
	key, err := s.store.Put(ctx, o.ReceiptCode(), len(o.Documents())+1, body)
	if err != nil {
		return offering.Offering{}, err
	}
	for _, superseded := range o.Documents() {
		if superseded == key {
			continue
		}
		if err := s.store.Delete(ctx, superseded); err != nil {
			return offering.Offering{}, err
		}
	}
	return o.WithDocuments([]string{key}), nil
}
