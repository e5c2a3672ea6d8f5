package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/repo"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

const (
	positionFindQuery = `
        SELECT
            p.id,
            p.member_id,
            p.role_kind,
            p.status,
            p.relation_type,
            p.church_id,
            p.parent_id,
            p.zone_id,
            p.family_group_id,
            p.path,
            p.inactivation_category,
            p.inactivation_reason,
            p.created_by,
            p.updated_by,
            p.created_at,
            p.updated_at
        FROM positions p`

	positionCountQuery = `SELECT COUNT(p.id) FROM positions p`

	positionInsertQuery = `
        INSERT INTO positions (
            id, member_id, role_kind, status, relation_type,
            church_id, parent_id, zone_id, family_group_id, path,
            created_by, updated_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at, updated_at`

	positionUpdateQuery = `
        UPDATE positions SET
            role_kind = $2,
            status = $3,
            relation_type = $4,
            church_id = $5,
            parent_id = $6,
            zone_id = $7,
            family_group_id = $8,
            path = $9,
            inactivation_category = $10,
            inactivation_reason = $11,
            updated_by = $12,
            updated_at = now()
        WHERE id = $1`

	positionRewritePathsQuery = `
        UPDATE positions SET
            path = $2 || substr(path, length($1) + 1),
            church_id = $3,
            updated_at = now()
        WHERE path LIKE $1 || '/%'`

	positionDetachChildrenQuery = `
        UPDATE positions SET parent_id = NULL, updated_at = now()
        WHERE parent_id = $1`

	positionRerootSubtreeQuery = `
        UPDATE positions SET
            path = substr(path, length($1) + 2),
            updated_at = now()
        WHERE path LIKE $1 || '/%'`

	positionCountSubtreeQuery = `
        SELECT COUNT(*) FROM positions WHERE path LIKE $1 || '/%'`

	positionDeleteQuery = `DELETE FROM positions WHERE id = $1`
)

type PgPositionRepository struct {
	fieldMap map[position.Field]string
}

func NewPositionRepository() position.Repository {
	return &PgPositionRepository{
		fieldMap: map[position.Field]string{
			position.RoleKindField:      "p.role_kind",
			position.StatusField:        "p.status",
			position.ChurchIDField:      "p.church_id",
			position.ParentIDField:      "p.parent_id",
			position.ZoneIDField:        "p.zone_id",
			position.FamilyGroupIDField: "p.family_group_id",
			position.CreatedAtField:     "p.created_at",
		},
	}
}

func (g *PgPositionRepository) GetByID(ctx context.Context, id uuid.UUID) (position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return position.Position{}, err
	}
	row := tx.QueryRow(ctx, positionFindQuery+` WHERE p.id = $1`, id)
	return scanPositionOrNotFound(row)
}

func (g *PgPositionRepository) GetByMemberID(ctx context.Context, memberID uuid.UUID) (position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return position.Position{}, err
	}
	row := tx.QueryRow(
		ctx,
		positionFindQuery+` WHERE p.member_id = $1 AND p.status = $2`,
		memberID, string(position.StatusActive),
	)
	return scanPositionOrNotFound(row)
}

func (g *PgPositionRepository) buildFilters(params *position.FindParams) ([]string, []any, error) {
	var where []string
	var args []any

	for _, filter := range params.Filters {
		column, ok := g.fieldMap[filter.Column]
		if !ok {
			return nil, nil, gerrors.Wrap(fmt.Errorf("unknown filter field: %v", filter.Column), "invalid filter")
		}
		where = append(where, filter.Filter.String(column, len(args)+1))
		args = append(args, filter.Filter.Value()...)
	}

	if q := strings.TrimSpace(params.Search); q != "" {
		index := len(args) + 1
		where = append(
			where,
			fmt.Sprintf(
				"p.member_id IN (SELECT m.id FROM members m WHERE m.first_names ILIKE $%d OR m.last_names ILIKE $%d)",
				index, index,
			),
		)
		args = append(args, "%"+q+"%")
	}
	return where, args, nil
}

func (g *PgPositionRepository) GetPaginated(ctx context.Context, params *position.FindParams) ([]position.Position, int64, error) {
	if params == nil {
		params = &position.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args, err := g.buildFilters(params)
	if err != nil {
		return nil, 0, err
	}

	query := positionFindQuery + repo.JoinWhere(where) +
		` ORDER BY p.created_at DESC` +
		repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list positions")
	}
	defer rows.Close()

	out, err := scanPositions(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, positionCountQuery+repo.JoinWhere(where), args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count positions")
	}
	return out, total, nil
}

func (g *PgPositionRepository) GetChildren(ctx context.Context, id uuid.UUID) ([]position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, positionFindQuery+` WHERE p.parent_id = $1`, id)
	if err != nil {
		return nil, gerrors.Wrap(err, "list children")
	}
	defer rows.Close()
	return scanPositions(rows)
}

func (g *PgPositionRepository) CountSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.QueryRow(ctx, positionCountSubtreeQuery, pathPrefix).Scan(&n); err != nil {
		return 0, gerrors.Wrap(err, "count subtree")
	}
	return n, nil
}

func (g *PgPositionRepository) Create(ctx context.Context, p position.Position) (position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return position.Position{}, err
	}

	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx,
		positionInsertQuery,
		p.ID(),
		p.MemberID(),
		string(p.RoleKind()),
		string(p.Status()),
		string(p.RelationType()),
		p.ChurchID(),
		nullUUIDPtr(p.ParentID()),
		nullUUIDPtr(p.ZoneID()),
		nullUUIDPtr(p.FamilyGroupID()),
		p.Path(),
		p.CreatedBy(),
		p.UpdatedBy(),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "positions_active_member_idx" {
				return position.Position{}, serrors.Conflict("member already owned by an active position").
					WithDetail("Member", p.MemberID().String())
			}
			return position.Position{}, serrors.Internal(err)
		}
		return position.Position{}, gerrors.Wrap(err, "create position")
	}
	return p, nil
}

func (g *PgPositionRepository) Save(ctx context.Context, p position.Position) (position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return position.Position{}, err
	}

	tag, err := tx.Exec(
		ctx,
		positionUpdateQuery,
		p.ID(),
		string(p.RoleKind()),
		string(p.Status()),
		string(p.RelationType()),
		p.ChurchID(),
		nullUUIDPtr(p.ParentID()),
		nullUUIDPtr(p.ZoneID()),
		nullUUIDPtr(p.FamilyGroupID()),
		p.Path(),
		nullString(string(p.InactivationCategory())),
		nullString(p.InactivationReason()),
		p.UpdatedBy(),
	)
	if err != nil {
		return position.Position{}, gerrors.Wrap(err, "save position")
	}
	if tag.RowsAffected() == 0 {
		return position.Position{}, position.ErrNotFound
	}
	return p, nil
}

func (g *PgPositionRepository) RewriteSubtreePaths(ctx context.Context, oldPrefix, newPrefix string, churchID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, positionRewritePathsQuery, oldPrefix, newPrefix, churchID)
	if err != nil {
		return 0, gerrors.Wrap(err, "rewrite subtree paths")
	}
	return tag.RowsAffected(), nil
}

func (g *PgPositionRepository) DetachChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, positionDetachChildrenQuery, id)
	if err != nil {
		return 0, gerrors.Wrap(err, "detach children")
	}
	return tag.RowsAffected(), nil
}

func (g *PgPositionRepository) RerootSubtree(ctx context.Context, oldPrefix string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, positionRerootSubtreeQuery, oldPrefix)
	if err != nil {
		return 0, gerrors.Wrap(err, "reroot subtree")
	}
	return tag.RowsAffected(), nil
}

func (g *PgPositionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, positionDeleteQuery, id)
	if err != nil {
		return gerrors.Wrap(err, "delete position")
	}
	if tag.RowsAffected() == 0 {
		return position.ErrNotFound
	}
	return nil
}

func scanPositionOrNotFound(row pgx.Row) (position.Position, error) {
	p, err := scanPosition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return position.Position{}, position.ErrNotFound
		}
		return position.Position{}, gerrors.Wrap(err, "get position")
	}
	return p, nil
}

func scanPositions(rows pgx.Rows) ([]position.Position, error) {
	var out []position.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPosition(row pgx.Row) (position.Position, error) {
	var (
		id, memberID, churchID                   uuid.UUID
		roleKind, status, relationType           string
		parentID, zoneID, familyGroupID          *uuid.UUID
		path                                     string
		inactivationCategory, inactivationReason *string
		createdBy, updatedBy                     string
		createdAt, updatedAt                     time.Time
	)
	err := row.Scan(
		&id, &memberID, &roleKind, &status, &relationType,
		&churchID, &parentID, &zoneID, &familyGroupID, &path,
		&inactivationCategory, &inactivationReason,
		&createdBy, &updatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return position.Position{}, err
	}
	return position.Hydrate(
		id,
		memberID,
		position.RoleKind(roleKind),
		position.Status(status),
		position.RelationType(relationType),
		churchID,
		toNullUUID(parentID),
		toNullUUID(zoneID),
		toNullUUID(familyGroupID),
		path,
		position.InactivationCategory(derefStr(inactivationCategory)),
		derefStr(inactivationReason),
		createdBy,
		updatedBy,
		createdAt,
		updatedAt,
	), nil
}
