package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/church"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/familygroup"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/zone"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
)

// Churches, zones and family groups are referenced collaterals here: the
// hierarchy validator and ledger dimensions resolve them, but their
// attribute CRUD belongs to another layer.

const (
	churchFindQuery = `
        SELECT c.id, c.name, c.is_main, c.status, c.created_at, c.updated_at
        FROM churches c`

	churchInsertQuery = `
        INSERT INTO churches (id, name, is_main, status)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`

	zoneFindQuery = `
        SELECT z.id, z.name, z.church_id, z.supervisor_position_id, z.status, z.created_at, z.updated_at
        FROM zones z`

	zoneInsertQuery = `
        INSERT INTO zones (id, name, church_id, supervisor_position_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	zoneUpdateQuery = `
        UPDATE zones SET
            name = $2, church_id = $3, supervisor_position_id = $4, status = $5, updated_at = now()
        WHERE id = $1`

	familyGroupFindQuery = `
        SELECT g.id, g.name, g.code, g.church_id, g.zone_id, g.preacher_position_id, g.status, g.created_at, g.updated_at
        FROM family_groups g`

	familyGroupInsertQuery = `
        INSERT INTO family_groups (id, name, code, church_id, zone_id, preacher_position_id, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	familyGroupUpdateQuery = `
        UPDATE family_groups SET
            name = $2, code = $3, church_id = $4, zone_id = $5, preacher_position_id = $6, status = $7, updated_at = now()
        WHERE id = $1`
)

type PgChurchRepository struct{}

func NewChurchRepository() church.Repository {
	return &PgChurchRepository{}
}

func (g *PgChurchRepository) GetByID(ctx context.Context, id uuid.UUID) (church.Church, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return church.Church{}, err
	}
	var (
		name                 string
		isMain               bool
		status               string
		createdAt, updatedAt time.Time
	)
	err = tx.QueryRow(ctx, churchFindQuery+` WHERE c.id = $1`, id).
		Scan(&id, &name, &isMain, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return church.Church{}, church.ErrNotFound
		}
		return church.Church{}, gerrors.Wrap(err, "get church")
	}
	return church.Hydrate(id, name, isMain, church.Status(status), createdAt, updatedAt), nil
}

func (g *PgChurchRepository) Create(ctx context.Context, c church.Church) (church.Church, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return church.Church{}, err
	}
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(ctx, churchInsertQuery, c.ID(), c.Name(), c.IsMain(), string(c.Status())).
		Scan(&createdAt, &updatedAt)
	if err != nil {
		return church.Church{}, gerrors.Wrap(err, "create church")
	}
	return church.Hydrate(c.ID(), c.Name(), c.IsMain(), c.Status(), createdAt, updatedAt), nil
}

type PgZoneRepository struct{}

func NewZoneRepository() zone.Repository {
	return &PgZoneRepository{}
}

func scanZone(row pgx.Row) (zone.Zone, error) {
	var (
		id, churchID         uuid.UUID
		name, status         string
		supervisorID         *uuid.UUID
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &churchID, &supervisorID, &status, &createdAt, &updatedAt); err != nil {
		return zone.Zone{}, err
	}
	return zone.Hydrate(id, name, churchID, toNullUUID(supervisorID), zone.Status(status), createdAt, updatedAt), nil
}

func (g *PgZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (zone.Zone, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return zone.Zone{}, err
	}
	z, err := scanZone(tx.QueryRow(ctx, zoneFindQuery+` WHERE z.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zone.Zone{}, zone.ErrNotFound
		}
		return zone.Zone{}, gerrors.Wrap(err, "get zone")
	}
	return z, nil
}

func (g *PgZoneRepository) GetBySupervisor(ctx context.Context, supervisorPositionID uuid.UUID) ([]zone.Zone, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, zoneFindQuery+` WHERE z.supervisor_position_id = $1`, supervisorPositionID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list zones by supervisor")
	}
	defer rows.Close()

	var out []zone.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

func (g *PgZoneRepository) Create(ctx context.Context, z zone.Zone) (zone.Zone, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return zone.Zone{}, err
	}
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx, zoneInsertQuery,
		z.ID(), z.Name(), z.ChurchID(), nullUUIDPtr(z.SupervisorPositionID()), string(z.Status()),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return zone.Zone{}, gerrors.Wrap(err, "create zone")
	}
	return zone.Hydrate(z.ID(), z.Name(), z.ChurchID(), z.SupervisorPositionID(), z.Status(), createdAt, updatedAt), nil
}

func (g *PgZoneRepository) Save(ctx context.Context, z zone.Zone) (zone.Zone, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return zone.Zone{}, err
	}
	tag, err := tx.Exec(
		ctx, zoneUpdateQuery,
		z.ID(), z.Name(), z.ChurchID(), nullUUIDPtr(z.SupervisorPositionID()), string(z.Status()),
	)
	if err != nil {
		return zone.Zone{}, gerrors.Wrap(err, "save zone")
	}
	if tag.RowsAffected() == 0 {
		return zone.Zone{}, zone.ErrNotFound
	}
	return z, nil
}

type PgFamilyGroupRepository struct{}

func NewFamilyGroupRepository() familygroup.Repository {
	return &PgFamilyGroupRepository{}
}

func scanFamilyGroup(row pgx.Row) (familygroup.FamilyGroup, error) {
	var (
		id, churchID, zoneID uuid.UUID
		name, code, status   string
		preacherID           *uuid.UUID
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &code, &churchID, &zoneID, &preacherID, &status, &createdAt, &updatedAt); err != nil {
		return familygroup.FamilyGroup{}, err
	}
	return familygroup.Hydrate(
		id, name, code, churchID, zoneID, toNullUUID(preacherID),
		familygroup.Status(status), createdAt, updatedAt,
	), nil
}

func (g *PgFamilyGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (familygroup.FamilyGroup, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return familygroup.FamilyGroup{}, err
	}
	fg, err := scanFamilyGroup(tx.QueryRow(ctx, familyGroupFindQuery+` WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return familygroup.FamilyGroup{}, familygroup.ErrNotFound
		}
		return familygroup.FamilyGroup{}, gerrors.Wrap(err, "get family group")
	}
	return fg, nil
}

func (g *PgFamilyGroupRepository) GetByPreacher(ctx context.Context, preacherPositionID uuid.UUID) ([]familygroup.FamilyGroup, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, familyGroupFindQuery+` WHERE g.preacher_position_id = $1`, preacherPositionID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list family groups by preacher")
	}
	defer rows.Close()

	var out []familygroup.FamilyGroup
	for rows.Next() {
		fg, err := scanFamilyGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fg)
	}
	return out, rows.Err()
}

func (g *PgFamilyGroupRepository) Create(ctx context.Context, fg familygroup.FamilyGroup) (familygroup.FamilyGroup, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return familygroup.FamilyGroup{}, err
	}
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		ctx, familyGroupInsertQuery,
		fg.ID(), fg.Name(), fg.Code(), fg.ChurchID(), fg.ZoneID(),
		nullUUIDPtr(fg.PreacherPositionID()), string(fg.Status()),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return familygroup.FamilyGroup{}, gerrors.Wrap(err, "create family group")
	}
	return familygroup.Hydrate(
		fg.ID(), fg.Name(), fg.Code(), fg.ChurchID(), fg.ZoneID(),
		fg.PreacherPositionID(), fg.Status(), createdAt, updatedAt,
	), nil
}

func (g *PgFamilyGroupRepository) Save(ctx context.Context, fg familygroup.FamilyGroup) (familygroup.FamilyGroup, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return familygroup.FamilyGroup{}, err
	}
	tag, err := tx.Exec(
		ctx, familyGroupUpdateQuery,
		fg.ID(), fg.Name(), fg.Code(), fg.ChurchID(), fg.ZoneID(),
		nullUUIDPtr(fg.PreacherPositionID()), string(fg.Status()),
	)
	if err != nil {
		return familygroup.FamilyGroup{}, gerrors.Wrap(err, "save family group")
	}
	if tag.RowsAffected() == 0 {
		return familygroup.FamilyGroup{}, familygroup.ErrNotFound
	}
	return fg, nil
}
