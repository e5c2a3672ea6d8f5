package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// ReconciliationService moves an entry's value into another currency
// when it is inactivated with the currency-exchange reason. The
// converted amount lands on the active target-currency entry sharing
// every other dimension key, or on a fresh clone when none exists.
// Runs inside the inactivation's transaction; a failure rolls back the
// inactivation too.
type ReconciliationService struct {
	offerings offering.Repository
	sequencer offering.Sequencer
	renderer  ReceiptRenderer
	store     DocumentStore
}

func NewReconciliationService(
	offerings offering.Repository,
	sequencer offering.Sequencer,
	renderer ReceiptRenderer,
	store DocumentStore,
) *ReconciliationService {
	return &ReconciliationService{
		offerings: offerings,
		sequencer: sequencer,
		renderer:  renderer,
		store:     store,
	}
}

// Result reports where the converted value went.
type Result struct {
	ConvertedAmount decimal.Decimal
	Target          offering.Offering
	TargetCreated   bool
}

// ConvertAmount is the single rounding rule for exchanges.
func ConvertAmount(source decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return source.Mul(rate).Round(2)
}

// reconcileInTx executes the merge-or-clone inside the caller's
// transaction.
func (s *ReconciliationService) reconcileInTx(
	ctx context.Context,
	source offering.Offering,
	rate decimal.Decimal,
	target offering.Currency,
) (Result, error) {
	if !rate.IsPositive() {
		return Result{}, serrors.InvalidState("exchange rate must be positive").
			WithDetail("Rate", rate.String())
	}
	if target == source.Currency() {
		return Result{}, serrors.InvalidState("target currency equals source currency").
			WithDetail("Currency", string(target))
	}

	actor, err := composables.UseActor(ctx)
	if err != nil {
		return Result{}, err
	}

	converted := ConvertAmount(source.Amount(), rate)
	note := fmt.Sprintf(
		"[%s] currency exchange from %s %s: rate %s, credited %s %s (source receipt %s) by %s",
		time.Now().Format("2006-01-02"),
		source.Amount().StringFixed(2), source.Currency(),
		rate.String(), converted.StringFixed(2), target,
		source.ReceiptCode(), actor.FullName(),
	)

	existing, err := s.offerings.FindReconciliationTarget(ctx, source, target)
	switch {
	case err == nil:
		merged := existing.AddAmount(converted).
			AppendComment(note).
			WithAudit("", actor.FullName())
		merged, err = s.refreshReceiptDocument(ctx, merged)
		if err != nil {
			return Result{}, err
		}
		if merged, err = s.offerings.Save(ctx, merged); err != nil {
			return Result{}, err
		}
		return Result{ConvertedAmount: converted, Target: merged}, nil

	case errors.Is(err, offering.ErrNotFound):
		clone, err := offering.New(
			source.EntryType(), source.SubType(), source.Category(),
			converted, target, source.Date(), source.Dimension(),
		)
		if err != nil {
			return Result{}, err
		}
		prefix, err := offering.PrefixFor(clone.EntryType(), clone.SubType())
		if err != nil {
			return Result{}, err
		}
		n, err := s.sequencer.Next(ctx, prefix)
		if err != nil {
			return Result{}, err
		}
		clone = clone.WithReceiptCode(offering.FormatReceiptCode(prefix, n)).
			AppendComment(note).
			WithAudit(actor.FullName(), actor.FullName())

		created, err := s.offerings.Create(ctx, clone)
		if err != nil {
			return Result{}, err
		}
		created, err = s.refreshReceiptDocument(ctx, created)
		if err != nil {
			return Result{}, err
		}
		if created, err = s.offerings.Save(ctx, created); err != nil {
			return Result{}, err
		}
		return Result{ConvertedAmount: converted, Target: created, TargetCreated: true}, nil

	default:
		return Result{}, err
	}
}

// refreshReceiptDocument re-renders the entry, stores the new revision
// and removes the superseded ones.
func (s *ReconciliationService) refreshReceiptDocument(ctx context.Context, o offering.Offering) (offering.Offering, error) {
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
