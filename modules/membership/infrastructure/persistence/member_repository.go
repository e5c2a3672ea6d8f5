package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/member"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/repo"
)

const (
	memberFindQuery = `
        SELECT
            m.id,
            m.first_names,
            m.last_names,
            m.gender,
            m.marital_status,
            m.birth_date,
            m.conversion_date,
            m.email,
            m.phone,
            m.residence_country,
            m.residence_department,
            m.residence_province,
            m.residence_district,
            m.residence_urban_sector,
            m.residence_address,
            m.created_at,
            m.updated_at
        FROM members m`

	memberCountQuery = `SELECT COUNT(m.id) FROM members m`

	memberInsertQuery = `
        INSERT INTO members (
            id, first_names, last_names, gender, marital_status,
            birth_date, conversion_date, email, phone,
            residence_country, residence_department, residence_province,
            residence_district, residence_urban_sector, residence_address
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING created_at, updated_at`

	memberUpdateQuery = `
        UPDATE members SET
            first_names = $2,
            last_names = $3,
            gender = $4,
            marital_status = $5,
            birth_date = $6,
            conversion_date = $7,
            email = $8,
            phone = $9,
            residence_country = $10,
            residence_department = $11,
            residence_province = $12,
            residence_district = $13,
            residence_urban_sector = $14,
            residence_address = $15,
            updated_at = now()
        WHERE id = $1`

	memberDeleteQuery = `DELETE FROM members WHERE id = $1`
)

type PgMemberRepository struct{}

func NewMemberRepository() member.Repository {
	return &PgMemberRepository{}
}

func (g *PgMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}

	row := tx.QueryRow(ctx, memberFindQuery+` WHERE m.id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, gerrors.Wrap(err, "get member")
	}
	return m, nil
}

func (g *PgMemberRepository) GetPaginated(ctx context.Context, params *member.FindParams) ([]member.Member, int64, error) {
	if params == nil {
		params = &member.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []any
	if q := strings.TrimSpace(params.Search); q != "" {
		f := repo.ILike(q)
		where = append(where, "("+f.String("m.first_names", 1)+" OR "+f.String("m.last_names", 1)+")")
		args = append(args, f.Value()...)
	}

	query := memberFindQuery + repo.JoinWhere(where) +
		` ORDER BY m.last_names, m.first_names` +
		repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list members")
	}
	defer rows.Close()

	var out []member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, memberCountQuery+repo.JoinWhere(where), args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count members")
	}
	return out, total, nil
}

func (g *PgMemberRepository) Create(ctx context.Context, m member.Member) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}

	res := m.Residence()
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx,
		memberInsertQuery,
		m.ID(),
		m.FirstNames(),
		m.LastNames(),
		string(m.Gender()),
		string(m.MaritalStatus()),
		m.BirthDate(),
		nullTime(m.ConversionDate()),
		nullString(m.Email()),
		nullString(m.Phone()),
		nullString(res.Country),
		nullString(res.Department),
		nullString(res.Province),
		nullString(res.District),
		nullString(res.UrbanSector),
		nullString(res.Address),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return member.Member{}, gerrors.Wrap(err, "create member")
	}

	return member.Hydrate(
		m.ID(), m.FirstNames(), m.LastNames(), m.Gender(), m.MaritalStatus(),
		m.BirthDate(), m.ConversionDate(), m.Email(), m.Phone(), res,
		createdAt, updatedAt,
	), nil
}

func (g *PgMemberRepository) Save(ctx context.Context, m member.Member) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}

	res := m.Residence()
	tag, err := tx.Exec(
		ctx,
		memberUpdateQuery,
		m.ID(),
		m.FirstNames(),
		m.LastNames(),
		string(m.Gender()),
		string(m.MaritalStatus()),
		m.BirthDate(),
		nullTime(m.ConversionDate()),
		nullString(m.Email()),
		nullString(m.Phone()),
		nullString(res.Country),
		nullString(res.Department),
		nullString(res.Province),
		nullString(res.District),
		nullString(res.UrbanSector),
		nullString(res.Address),
	)
	if err != nil {
		return member.Member{}, gerrors.Wrap(err, "save member")
	}
	if tag.RowsAffected() == 0 {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}

func (g *PgMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, memberDeleteQuery, id); err != nil {
		return gerrors.Wrap(err, "delete member")
	}
	return nil
}

func scanMember(row pgx.Row) (member.Member, error) {
	var (
		id                    uuid.UUID
		firstNames, lastNames string
		gender, maritalStatus string
		birthDate             time.Time
		conversionDate        *time.Time
		email, phone          *string
		country, department   *string
		province, district    *string
		urbanSector, address  *string
		createdAt, updatedAt  time.Time
	)
	err := row.Scan(
		&id, &firstNames, &lastNames, &gender, &maritalStatus,
		&birthDate, &conversionDate, &email, &phone,
		&country, &department, &province, &district, &urbanSector, &address,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return member.Member{}, err
	}
	return member.Hydrate(
		id, firstNames, lastNames,
		member.Gender(gender), member.MaritalStatus(maritalStatus),
		birthDate, deref(conversionDate),
		derefStr(email), derefStr(phone),
		member.Residence{
			Country:     derefStr(country),
			Department:  derefStr(department),
			Province:    derefStr(province),
			District:    derefStr(district),
			UrbanSector: derefStr(urbanSector),
			Address:     derefStr(address),
		},
		createdAt, updatedAt,
	), nil
}
