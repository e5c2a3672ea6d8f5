package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/entities/donor"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
)

const (
	donorFindQuery = `
        SELECT
            d.id,
            d.first_names,
            d.last_names,
            d.email,
            d.phone,
            d.country,
            d.status,
            d.created_at,
            d.updated_at
        FROM external_donors d`

	donorInsertQuery = `
        INSERT INTO external_donors (
            id, first_names, last_names, email, phone, country, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	donorUpdateQuery = `
        UPDATE external_donors SET
            first_names = $2,
            last_names = $3,
            email = $4,
            phone = $5,
            country = $6,
            status = $7,
            updated_at = now()
        WHERE id = $1`
)

type PgDonorRepository struct{}

func NewDonorRepository() donor.Repository {
	return &PgDonorRepository{}
}

func (g *PgDonorRepository) GetByID(ctx context.Context, id uuid.UUID) (donor.ExternalDonor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return donor.ExternalDonor{}, err
	}
	row := tx.QueryRow(ctx, donorFindQuery+` WHERE d.id = $1`, id)
	d, err := scanDonor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return donor.ExternalDonor{}, donor.ErrNotFound
		}
		return donor.ExternalDonor{}, gerrors.Wrap(err, "scan external donor")
	}
	return d, nil
}

func (g *PgDonorRepository) Create(ctx context.Context, d donor.ExternalDonor) (donor.ExternalDonor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return donor.ExternalDonor{}, err
	}
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx,
		donorInsertQuery,
		d.ID(),
		d.FirstNames(),
		d.LastNames(),
		nullString(d.Email()),
		nullString(d.Phone()),
		nullString(d.Country()),
		string(d.Status()),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return donor.ExternalDonor{}, gerrors.Wrap(err, "create external donor")
	}
	return d, nil
}

func (g *PgDonorRepository) Save(ctx context.Context, d donor.ExternalDonor) (donor.ExternalDonor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return donor.ExternalDonor{}, err
	}
	tag, err := tx.Exec(
		ctx,
		donorUpdateQuery,
		d.ID(),
		d.FirstNames(),
		d.LastNames(),
		nullString(d.Email()),
		nullString(d.Phone()),
		nullString(d.Country()),
		string(d.Status()),
	)
	if err != nil {
		return donor.ExternalDonor{}, gerrors.Wrap(err, "save external donor")
	}
	if tag.RowsAffected() == 0 {
		return donor.ExternalDonor{}, donor.ErrNotFound
	}
	return d, nil
}

func scanDonor(row pgx.Row) (donor.ExternalDonor, error) {
	var (
		id         uuid.UUID
		firstNames string
		lastNames  string
		email      *string
		phone      *string
		country    *string
		status     string
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(
		&id, &firstNames, &lastNames, &email, &phone, &country,
		&status, &createdAt, &updatedAt,
	); err != nil {
		return donor.ExternalDonor{}, err
	}
	return donor.Hydrate(
		id, firstNames, lastNames,
		derefStr(email), derefStr(phone), derefStr(country),
		donor.Status(status), createdAt, updatedAt,
	), nil
}
