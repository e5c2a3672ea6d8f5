package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/repo"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

const (
	offeringFindQuery = `
        SELECT
            o.id,
            o.entry_type,
            o.sub_type,
            o.category,
            o.amount,
            o.currency,
            o.date,
            o.church_id,
            o.shift,
            o.family_group_id,
            o.zone_id,
            o.position_id,
            o.member_type,
            o.external_donor_id,
            o.receipt_code,
            o.documents,
            o.comments,
            o.status,
            o.inactivation_reason,
            o.created_by,
            o.updated_by,
            o.created_at,
            o.updated_at
        FROM offerings o`

	offeringCountQuery = `SELECT COUNT(o.id) FROM offerings o`

	offeringInsertQuery = `
        INSERT INTO offerings (
            id, entry_type, sub_type, category, amount, currency, date,
            church_id, shift, family_group_id, zone_id, position_id,
            member_type, external_donor_id, receipt_code, uniqueness_key,
            documents, comments, status, created_by, updated_by
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13, $14, $15, $16, $17, $18, $19, $20, $21
        )
        RETURNING created_at, updated_at`

	offeringUpdateQuery = `
        UPDATE offerings SET
            amount = $2,
            currency = $3,
            uniqueness_key = $4,
            documents = $5,
            comments = $6,
            status = $7,
            inactivation_reason = $8,
            updated_by = $9,
            updated_at = now()
        WHERE id = $1`

	offeringRepointQuery = `
        UPDATE offerings SET
            uniqueness_key = replace(
                replace(uniqueness_key, 'member_type=' || member_type, 'member_type=' || $3),
                $1::text, $2::text
            ),
            position_id = $2,
            member_type = $3,
            updated_at = now()
        WHERE position_id = $1`

	offeringLockKeyQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
)

type PgOfferingRepository struct {
	fieldMap map[offering.Field]string
}

func NewOfferingRepository() *PgOfferingRepository {
	return &PgOfferingRepository{
		fieldMap: map[offering.Field]string{
			offering.EntryTypeField:     "o.entry_type",
			offering.SubTypeField:       "o.sub_type",
			offering.CategoryField:      "o.category",
			offering.CurrencyField:      "o.currency",
			offering.StatusField:        "o.status",
			offering.ChurchIDField:      "o.church_id",
			offering.ZoneIDField:        "o.zone_id",
			offering.FamilyGroupIDField: "o.family_group_id",
			offering.PositionIDField:    "o.position_id",
			offering.DateField:          "o.date",
		},
	}
}

func (g *PgOfferingRepository) GetByID(ctx context.Context, id uuid.UUID) (offering.Offering, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return offering.Offering{}, err
	}
	row := tx.QueryRow(ctx, offeringFindQuery+` WHERE o.id = $1`, id)
	return scanOfferingOrNotFound(row)
}

func (g *PgOfferingRepository) GetByReceiptCode(ctx context.Context, code string) (offering.Offering, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return offering.Offering{}, err
	}
	row := tx.QueryRow(ctx, offeringFindQuery+` WHERE o.receipt_code = $1`, code)
	return scanOfferingOrNotFound(row)
}

func (g *PgOfferingRepository) GetPaginated(ctx context.Context, params *offering.FindParams) ([]offering.Offering, int64, error) {
	if params == nil {
		params = &offering.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []any
	for _, filter := range params.Filters {
		column, ok := g.fieldMap[filter.Column]
		if !ok {
			return nil, 0, gerrors.Wrap(fmt.Errorf("unknown filter field: %v", filter.Column), "invalid filter")
		}
		where = append(where, filter.Filter.String(column, len(args)+1))
		args = append(args, filter.Filter.Value()...)
	}

	query := offeringFindQuery + repo.JoinWhere(where) +
		` ORDER BY o.date DESC, o.receipt_code DESC` +
		repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list ledger entries")
	}
	defer rows.Close()

	out, err := scanOfferings(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, offeringCountQuery+repo.JoinWhere(where), args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count ledger entries")
	}
	return out, total, nil
}

func (g *PgOfferingRepository) FindActiveDuplicate(ctx context.Context, probe offering.Offering) (offering.Offering, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return offering.Offering{}, err
	}
	row := tx.QueryRow(
		ctx,
		offeringFindQuery+` WHERE o.uniqueness_key = $1 AND o.status = $2`,
		probe.UniquenessKey(), string(offering.StatusActive),
	)
	return scanOfferingOrNotFound(row)
}

func (g *PgOfferingRepository) FindReconciliationTarget(ctx context.Context, source offering.Offering, target offering.Currency) (offering.Offering, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return offering.Offering{}, err
	}
	probe, err := source.Apply(offering.Update{Currency: &target})
	if err != nil {
		return offering.Offering{}, err
	}
	row := tx.QueryRow(
		ctx,
		offeringFindQuery+` WHERE o.uniqueness_key = $1 AND o.status = $2 AND o.id <> $3`,
		probe.UniquenessKey(), string(offering.StatusActive), source.ID(),
	)
	return scanOfferingOrNotFound(row)
}

// LockUniquenessKey takes a transaction-scoped advisory lock on the
// key hash so concurrent creates of the same financial fact serialize
// ahead of the duplicate check.
func (g *PgOfferingRepository) LockUniquenessKey(ctx context.Context, key string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, offeringLockKeyQuery, key); err != nil {
		return gerrors.Wrap(err, "lock uniqueness key")
	}
	return nil
}

func (g *PgOfferingRepository) Create(ctx context.Context, o offering.Offering) (offering.Offering, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return offering.Offering{}, err
	}

	d := o.Dimension()
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx,
		offeringInsertQuery,
		o.ID(),
		string(o.EntryType()),
		string(o.SubType()),
		string(o.Category()),
		o.Amount(),
		string(o.Currency()),
		o.Date(),
		d.ChurchID,
		nullString(string(d.Shift)),
		nullUUIDPtr(d.FamilyGroupID),
		nullUUIDPtr(d.ZoneID),
		nullUUIDPtr(d.PositionID),
		nullString(d.MemberType),
		nullUUIDPtr(d.ExternalDonorID),
		o.ReceiptCode(),
		o.UniquenessKey(),
		o.Documents(),
		o.Comments(),
		string(o.Status()),
		o.CreatedBy(),
		o.UpdatedBy(),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "offerings_active_fact_idx" {
				return offering.Offering{}, offering.DuplicateError(o)
			}
			return offering.Offering{}, serrors.Internal(err)
		}
		return offering.Offering{}, gerrors.Wrap(err, "create ledger entry")
	}
	return o, nil
}

func (g *PgOfferingRepository) Save(ctx context.Context, o offering.Offering) (offering.Offering, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return offering.Offering{}, err
	}

	tag, err := tx.Exec(
		ctx,
		offeringUpdateQuery,
		o.ID(),
		o.Amount(),
		string(o.Currency()),
		o.UniquenessKey(),
		o.Documents(),
		o.Comments(),
		string(o.Status()),
		nullString(string(o.InactivationReason())),
		o.UpdatedBy(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "offerings_active_fact_idx" {
			return offering.Offering{}, offering.DuplicateError(o)
		}
		return offering.Offering{}, gerrors.Wrap(err, "save ledger entry")
	}
	if tag.RowsAffected() == 0 {
		return offering.Offering{}, offering.ErrNotFound
	}
	return o, nil
}

func (g *PgOfferingRepository) RepointOwner(ctx context.Context, oldPositionID, newPositionID uuid.UUID, memberType string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, offeringRepointQuery, oldPositionID, newPositionID, memberType)
	if err != nil {
		return 0, gerrors.Wrap(err, "repoint ledger owner")
	}
	return tag.RowsAffected(), nil
}

func scanOffering(row pgx.Row) (offering.Offering, error) {
	var (
		id                 uuid.UUID
		entryType          string
		subType            string
		category           string
		amount             decimal.Decimal
		currency           string
		date               time.Time
		churchID           uuid.UUID
		shift              *string
		familyGroupID      *uuid.UUID
		zoneID             *uuid.UUID
		positionID         *uuid.UUID
		memberType         *string
		externalDonorID    *uuid.UUID
		receiptCode        string
		documents          []string
		comments           string
		status             string
		inactivationReason *string
		createdBy          string
		updatedBy          string
		createdAt          time.Time
		updatedAt          time.Time
	)
	if err := row.Scan(
		&id, &entryType, &subType, &category, &amount, &currency, &date,
		&churchID, &shift, &familyGroupID, &zoneID, &positionID,
		&memberType, &externalDonorID, &receiptCode, &documents,
		&comments, &status, &inactivationReason,
		&createdBy, &updatedBy, &createdAt, &updatedAt,
	); err != nil {
		return offering.Offering{}, err
	}

	return offering.Hydrate(
		id,
		offering.EntryType(entryType),
		offering.SubType(subType),
		offering.Category(category),
		amount,
		offering.Currency(currency),
		date,
		offering.Dimension{
			ChurchID:        churchID,
			Shift:           offering.Shift(derefStr(shift)),
			FamilyGroupID:   toNullUUID(familyGroupID),
			ZoneID:          toNullUUID(zoneID),
			PositionID:      toNullUUID(positionID),
			MemberType:      derefStr(memberType),
			ExternalDonorID: toNullUUID(externalDonorID),
		},
		receiptCode,
		documents,
		comments,
		offering.Status(status),
		offering.InactivationReason(derefStr(inactivationReason)),
		createdBy,
		updatedBy,
		createdAt,
		updatedAt,
	), nil
}

func scanOfferingOrNotFound(row pgx.Row) (offering.Offering, error) {
	o, err := scanOffering(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offering.Offering{}, offering.ErrNotFound
		}
		return offering.Offering{}, gerrors.Wrap(err, "scan ledger entry")
	}
	return o, nil
}

func scanOfferings(rows pgx.Rows) ([]offering.Offering, error) {
	var out []offering.Offering
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, gerrors.Wrap(err, "scan ledger entries")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
