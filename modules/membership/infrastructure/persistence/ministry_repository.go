package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/ministry"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

const (
	ministryFindQuery = `
        SELECT mi.id, mi.ministry_type, mi.custom_name, mi.church_id, mi.status, mi.created_at, mi.updated_at
        FROM ministries mi`

	ministryInsertQuery = `
        INSERT INTO ministries (id, ministry_type, custom_name, church_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	membershipFindQuery = `
        SELECT mm.id, mm.member_id, mm.ministry_id, mm.member_role, mm.ministry_roles, mm.created_at, mm.updated_at
        FROM ministry_memberships mm`

	membershipInsertQuery = `
        INSERT INTO ministry_memberships (id, member_id, ministry_id, member_role, ministry_roles)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	membershipUpdateQuery = `
        UPDATE ministry_memberships SET
            member_role = $2, ministry_roles = $3, updated_at = now()
        WHERE id = $1`

	membershipDeleteQuery = `DELETE FROM ministry_memberships WHERE id = $1`
)

type PgMinistryRepository struct{}

func NewMinistryRepository() ministry.Repository {
	return &PgMinistryRepository{}
}

func (g *PgMinistryRepository) GetByID(ctx context.Context, id uuid.UUID) (ministry.Ministry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ministry.Ministry{}, err
	}
	var (
		ministryType, status string
		customName           *string
		churchID             uuid.UUID
		createdAt, updatedAt time.Time
	)
	err = tx.QueryRow(ctx, ministryFindQuery+` WHERE mi.id = $1`, id).
		Scan(&id, &ministryType, &customName, &churchID, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ministry.Ministry{}, ministry.ErrNotFound
		}
		return ministry.Ministry{}, gerrors.Wrap(err, "get ministry")
	}
	return ministry.Hydrate(
		id, ministry.Type(ministryType), derefStr(customName), churchID,
		ministry.Status(status), createdAt, updatedAt,
	), nil
}

func (g *PgMinistryRepository) Create(ctx context.Context, m ministry.Ministry) (ministry.Ministry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ministry.Ministry{}, err
	}
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx, ministryInsertQuery,
		m.ID(), string(m.Type()), nullString(m.CustomName()), m.ChurchID(), string(m.Status()),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return ministry.Ministry{}, gerrors.Wrap(err, "create ministry")
	}
	return ministry.Hydrate(m.ID(), m.Type(), m.CustomName(), m.ChurchID(), m.Status(), createdAt, updatedAt), nil
}

type PgMinistryMembershipRepository struct{}

func NewMinistryMembershipRepository() ministry.MembershipRepository {
	return &PgMinistryMembershipRepository{}
}

func scanMembership(row pgx.Row) (ministry.Membership, error) {
	var (
		id, memberID, ministryID uuid.UUID
		memberRole               string
		ministryRoles            []string
		createdAt, updatedAt     time.Time
	)
	if err := row.Scan(&id, &memberID, &ministryID, &memberRole, &ministryRoles, &createdAt, &updatedAt); err != nil {
		return ministry.Membership{}, err
	}
	return ministry.HydrateMembership(id, memberID, ministryID, memberRole, ministryRoles, createdAt, updatedAt), nil
}

func (g *PgMinistryMembershipRepository) GetByMemberAndMinistry(ctx context.Context, memberID, ministryID uuid.UUID) (ministry.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ministry.Membership{}, err
	}
	m, err := scanMembership(tx.QueryRow(
		ctx,
		membershipFindQuery+` WHERE mm.member_id = $1 AND mm.ministry_id = $2`,
		memberID, ministryID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ministry.Membership{}, ministry.ErrMembershipNotFound
		}
		return ministry.Membership{}, gerrors.Wrap(err, "get ministry membership")
	}
	return m, nil
}

func (g *PgMinistryMembershipRepository) GetByMember(ctx context.Context, memberID uuid.UUID) ([]ministry.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, membershipFindQuery+` WHERE mm.member_id = $1`, memberID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list ministry memberships")
	}
	defer rows.Close()

	var out []ministry.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (g *PgMinistryMembershipRepository) Create(ctx context.Context, m ministry.Membership) (ministry.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ministry.Membership{}, err
	}
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx, membershipInsertQuery,
		m.ID(), m.MemberID(), m.MinistryID(), m.MemberRole(), m.MinistryRoles(),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ministry.Membership{}, serrors.Conflict("member already assigned to ministry").
				WithDetail("Member", m.MemberID().String()).
				WithDetail("Ministry", m.MinistryID().String())
		}
		return ministry.Membership{}, gerrors.Wrap(err, "create ministry membership")
	}
	return ministry.HydrateMembership(
		m.ID(), m.MemberID(), m.MinistryID(), m.MemberRole(), m.MinistryRoles(),
		createdAt, updatedAt,
	), nil
}

func (g *PgMinistryMembershipRepository) Save(ctx context.Context, m ministry.Membership) (ministry.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ministry.Membership{}, err
	}
	tag, err := tx.Exec(ctx, membershipUpdateQuery, m.ID(), m.MemberRole(), m.MinistryRoles())
	if err != nil {
		return ministry.Membership{}, gerrors.Wrap(err, "save ministry membership")
	}
	if tag.RowsAffected() == 0 {
		return ministry.Membership{}, ministry.ErrMembershipNotFound
	}
	return m, nil
}

func (g *PgMinistryMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, membershipDeleteQuery, id); err != nil {
		return gerrors.Wrap(err, "delete ministry membership")
	}
	return nil
}
