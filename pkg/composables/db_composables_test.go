package composables

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInTx_UsesConfiguredDeadline(t *testing.T) {
	// The configuration singleton parses the environment on first use,
	// so the override must be in place before anything touches it.
	t.Setenv("TX_TIMEOUT", "5s")

	require.Equal(t, 5*time.Second, txTimeout())
}
