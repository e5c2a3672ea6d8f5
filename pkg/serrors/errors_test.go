package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseError_DetailsInMessage(t *testing.T) {
	err := Conflict("offering already exists").
		WithDetail("Church", "C1").
		WithDetail("Currency", "PEN")

	require.Contains(t, err.Error(), "offering already exists with ")
	require.Contains(t, err.Error(), "Church: C1")
	require.Contains(t, err.Error(), "Currency: PEN")
}

func TestBaseError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("supervisor not found"))

	require.True(t, errors.Is(err, NotFound("")))
	require.False(t, errors.Is(err, Conflict("")))
	require.True(t, IsCode(err, CodeNotFound))
}

func TestInternal_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	require.True(t, errors.Is(err, cause))
	require.Equal(t, CodeInternal, err.Code)
}
