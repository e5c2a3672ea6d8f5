package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/church"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/itf"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

type hierarchyFixture struct {
	churches  *memChurchRepo
	positions *memPositionRepo
	validator *HierarchyValidator
	churchID  uuid.UUID
}

func newHierarchyFixture(t *testing.T) *hierarchyFixture {
	t.Helper()
	churches := newMemChurchRepo()
	positions := newMemPositionRepo()
	ch := church.New("Central", true)
	churches.churches[ch.ID()] = ch
	return &hierarchyFixture{
		churches:  churches,
		positions: positions,
		validator: NewHierarchyValidator(positions, newMemMinistryRepo(), churches),
		churchID:  ch.ID(),
	}
}

// seed inserts an active position of the given kind, already pathed.
func (f *hierarchyFixture) seed(kind position.RoleKind, parent position.Position) position.Position {
	parentID := uuid.NullUUID{}
	if parent.ID() != uuid.Nil {
		parentID = uuid.NullUUID{UUID: parent.ID(), Valid: true}
	}
	p := position.New(uuid.New(), kind, position.RelationHierarchical, f.churchID, parentID)
	p = p.WithPath(position.PathOf(parent.Path(), p.ID()))
	f.positions.positions[p.ID()] = p
	return p
}

func TestHierarchyValidator_PastorHasNoParent(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := itf.Context()

	probe := position.New(uuid.New(), position.KindPastor, position.RelationHierarchical, f.churchID, uuid.NullUUID{})
	parent, err := f.validator.ValidateChain(ctx, probe)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, parent.ID())

	other := f.seed(position.KindPastor, position.Position{})
	probe = position.New(uuid.New(), position.KindPastor, position.RelationHierarchical, f.churchID,
		uuid.NullUUID{UUID: other.ID(), Valid: true})
	_, err = f.validator.ValidateChain(ctx, probe)
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
}

func TestHierarchyValidator_ParentMustBeNextHigherKind(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := itf.Context()

	pastor := f.seed(position.KindPastor, position.Position{})
	copastor := f.seed(position.KindCopastor, pastor)
	supervisor := f.seed(position.KindSupervisor, copastor)

	probe := position.New(uuid.New(), position.KindPreacher, position.RelationHierarchical, f.churchID,
		uuid.NullUUID{UUID: supervisor.ID(), Valid: true})
	parent, err := f.validator.ValidateChain(ctx, probe)
	require.NoError(t, err)
	require.Equal(t, supervisor.ID(), parent.ID())

	// A preacher cannot hang off a copastor; one level only.
	probe = position.New(uuid.New(), position.KindPreacher, position.RelationHierarchical, f.churchID,
		uuid.NullUUID{UUID: copastor.ID(), Valid: true})
	_, err = f.validator.ValidateChain(ctx, probe)
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
	require.Contains(t, err.Error(), "copastor")
}

func TestHierarchyValidator_MissingParentReference(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := itf.Context()

	probe := position.New(uuid.New(), position.KindDisciple, position.RelationHierarchical, f.churchID, uuid.NullUUID{})
	_, err := f.validator.ValidateChain(ctx, probe)
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeNotFound))
}

func TestHierarchyValidator_InactiveParentRejected(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := itf.Context()

	pastor := f.seed(position.KindPastor, position.Position{})
	f.positions.positions[pastor.ID()] = pastor.Inactivate(position.InactivationPersonal, "stepped down")

	probe := position.New(uuid.New(), position.KindCopastor, position.RelationHierarchical, f.churchID,
		uuid.NullUUID{UUID: pastor.ID(), Valid: true})
	_, err := f.validator.ValidateChain(ctx, probe)
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidState))
}

func TestHierarchyValidator_InactiveChurchRejected(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := itf.Context()

	closed := church.Hydrate(uuid.New(), "Closed", false, church.StatusInactive, time.Now(), time.Now())
	f.churches.churches[closed.ID()] = closed

	probe := position.New(uuid.New(), position.KindPastor, position.RelationHierarchical, closed.ID(), uuid.NullUUID{})
	_, err := f.validator.ValidateChain(ctx, probe)
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidState))
}

func TestHierarchyValidator_MinistryOnlyReportsToPastor(t *testing.T) {
	f := newHierarchyFixture(t)
	ctx := itf.Context()

	pastor := f.seed(position.KindPastor, position.Position{})
	copastor := f.seed(position.KindCopastor, pastor)

	probe := position.New(uuid.New(), position.KindPreacher, position.RelationMinistry, f.churchID,
		uuid.NullUUID{UUID: pastor.ID(), Valid: true})
	parent, err := f.validator.ValidateChain(ctx, probe)
	require.NoError(t, err)
	require.Equal(t, pastor.ID(), parent.ID())

	probe = position.New(uuid.New(), position.KindPreacher, position.RelationMinistry, f.churchID,
		uuid.NullUUID{UUID: copastor.ID(), Valid: true})
	_, err = f.validator.ValidateChain(ctx, probe)
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
}
