package position

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

func TestRoleKind_Order(t *testing.T) {
	require.Less(t, KindDisciple.Rank(), KindPreacher.Rank())
	require.Less(t, KindPreacher.Rank(), KindSupervisor.Rank())
	require.Less(t, KindSupervisor.Rank(), KindCopastor.Rank())
	require.Less(t, KindCopastor.Rank(), KindPastor.Rank())

	next, ok := KindCopastor.Next()
	require.True(t, ok)
	require.Equal(t, KindPastor, next)

	_, ok = KindPastor.Next()
	require.False(t, ok, "pastor is terminal")
}

func TestValidateCreateRoleSet(t *testing.T) {
	require.NoError(t, ValidateCreateRoleSet([]RoleKind{KindDisciple}, KindDisciple))

	err := ValidateCreateRoleSet([]RoleKind{KindDisciple, KindPreacher}, KindPreacher)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))

	err = ValidateCreateRoleSet(nil, KindDisciple)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
}

func TestValidateUpdateRoleSet(t *testing.T) {
	t.Run("no kind change", func(t *testing.T) {
		target, err := ValidateUpdateRoleSet([]RoleKind{KindPreacher}, KindPreacher)
		require.NoError(t, err)
		require.False(t, target.IsPromotion)
		require.Equal(t, KindPreacher, target.Kind)
	})

	t.Run("promote one level", func(t *testing.T) {
		target, err := ValidateUpdateRoleSet([]RoleKind{KindSupervisor}, KindPreacher)
		require.NoError(t, err)
		require.True(t, target.IsPromotion)
		require.Equal(t, KindSupervisor, target.Kind)
	})

	t.Run("skip a level", func(t *testing.T) {
		_, err := ValidateUpdateRoleSet([]RoleKind{KindCopastor}, KindPreacher)
		require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
	})

	t.Run("keep lower role alongside promotion", func(t *testing.T) {
		_, err := ValidateUpdateRoleSet([]RoleKind{KindDisciple, KindPreacher}, KindDisciple)
		require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
	})

	t.Run("demotion", func(t *testing.T) {
		_, err := ValidateUpdateRoleSet([]RoleKind{KindDisciple}, KindPreacher)
		require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
	})

	t.Run("pastor is terminal", func(t *testing.T) {
		_, err := ValidateUpdateRoleSet([]RoleKind{KindPastor, KindCopastor}, KindPastor)
		require.True(t, serrors.IsCode(err, serrors.CodeInvalidTransition))
	})
}

func TestPathOf(t *testing.T) {
	root := uuid.New()
	child := uuid.New()

	rootPath := PathOf("", root)
	require.Equal(t, root.String(), rootPath)

	childPath := PathOf(rootPath, child)
	require.Equal(t, root.String()+"/"+child.String(), childPath)
}
