package repo

import (
	"fmt"
	"strings"
	"time"
)

// Filter is a composable SQL predicate bound to a column at render time.
// Repositories keep a fieldMap from domain filter fields to columns and
// render each filter with the next free placeholder index.
type Filter interface {
	// String renders the predicate for column using placeholders starting
	// at argIdx.
	String(column string, argIdx int) string
	// Value returns the arguments consumed by the rendered predicate.
	Value() []any
}

type eqFilter struct{ v any }

func Eq(v any) Filter { return eqFilter{v: v} }

func (f eqFilter) String(column string, argIdx int) string {
	return fmt.Sprintf("%s = $%d", column, argIdx)
}
func (f eqFilter) Value() []any { return []any{f.v} }

type inFilter struct{ vs []any }

func In(vs ...any) Filter { return inFilter{vs: vs} }

func (f inFilter) String(column string, argIdx int) string {
	placeholders := make([]string, len(f.vs))
	for i := range f.vs {
		placeholders[i] = fmt.Sprintf("$%d", argIdx+i)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", "))
}
func (f inFilter) Value() []any { return f.vs }

type ilikeFilter struct{ q string }

// ILike matches case-insensitively anywhere in the column. The store is
// expected to be configured with an accent-insensitive collation.
func ILike(q string) Filter { return ilikeFilter{q: q} }

func (f ilikeFilter) String(column string, argIdx int) string {
	return fmt.Sprintf("%s ILIKE $%d", column, argIdx)
}
func (f ilikeFilter) Value() []any { return []any{"%" + f.q + "%"} }

type dateRangeFilter struct {
	from, to time.Time
}

func DateRange(from, to time.Time) Filter { return dateRangeFilter{from: from, to: to} }

func (f dateRangeFilter) String(column string, argIdx int) string {
	return fmt.Sprintf("%s BETWEEN $%d AND $%d", column, argIdx, argIdx+1)
}
func (f dateRangeFilter) Value() []any { return []any{f.from, f.to} }

// JoinWhere renders a WHERE clause from the given predicates, or an empty
// string when there are none.
func JoinWhere(preds []string) string {
	if len(preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(preds, " AND ")
}

// FormatLimitOffset renders LIMIT/OFFSET, omitting unset parts.
func FormatLimitOffset(limit, offset int) string {
	if limit > 0 && offset > 0 {
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	if limit > 0 {
		return fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		return fmt.Sprintf(" OFFSET %d", offset)
	}
	return ""
}
