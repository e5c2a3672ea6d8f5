package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilters_Render(t *testing.T) {
	f := Eq("active")
	require.Equal(t, "p.status = $3", f.String("p.status", 3))
	require.Equal(t, []any{"active"}, f.Value())

	in := In("pastor", "copastor")
	require.Equal(t, "p.role_kind IN ($2, $3)", in.String("p.role_kind", 2))

	like := ILike("perez")
	require.Equal(t, "m.last_names ILIKE $1", like.String("m.last_names", 1))
	require.Equal(t, []any{"%perez%"}, like.Value())

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	dr := DateRange(from, to)
	require.Equal(t, "o.entry_date BETWEEN $4 AND $5", dr.String("o.entry_date", 4))
	require.Len(t, dr.Value(), 2)
}

func TestJoinWhere(t *testing.T) {
	require.Equal(t, "", JoinWhere(nil))
	require.Equal(t, " WHERE a = $1 AND b = $2", JoinWhere([]string{"a = $1", "b = $2"}))
}

func TestFormatLimitOffset(t *testing.T) {
	require.Equal(t, "", FormatLimitOffset(0, 0))
	require.Equal(t, " LIMIT 20", FormatLimitOffset(20, 0))
	require.Equal(t, " LIMIT 20 OFFSET 40", FormatLimitOffset(20, 40))
}
