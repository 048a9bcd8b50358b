// Package query turns request parameters into parameterised SQL predicates.
package query

import (
	"fmt"
	"strings"
	"time"
)

// Builder accumulates AND-ed predicates with PostgreSQL $n placeholders.
type Builder struct {
	clauses []string
	args    []any
}

// Arg registers a bind value and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Where adds a raw predicate. Use Arg for every value it references.
func (b *Builder) Where(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *Builder) Eq(column string, v any) {
	b.Where(fmt.Sprintf("%s = %s", column, b.Arg(v)))
}

// Contains is a case-insensitive substring match.
func (b *Builder) Contains(column, v string) {
	b.ContainsAny([]string{column}, v)
}

// ContainsAny matches when any column contains v; the columns are OR-ed and
// the group is AND-ed with the rest.
func (b *Builder) ContainsAny(columns []string, v string) {
	p := b.Arg("%" + escapeLike(v) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", c, p)
	}
	if len(parts) == 1 {
		b.Where(parts[0])
		return
	}
	b.Where("(" + strings.Join(parts, " OR ") + ")")
}

// Since keeps rows where column >= t.
func (b *Builder) Since(column string, t time.Time) {
	b.Where(fmt.Sprintf("%s >= %s", column, b.Arg(t)))
}

// Before keeps rows where column < t.
func (b *Builder) Before(column string, t time.Time) {
	b.Where(fmt.Sprintf("%s < %s", column, b.Arg(t)))
}

// Until keeps rows where column <= t.
func (b *Builder) Until(column string, t time.Time) {
	b.Where(fmt.Sprintf("%s <= %s", column, b.Arg(t)))
}

// OnDate matches the UTC calendar day of column.
func (b *Builder) OnDate(column string, day time.Time) {
	b.Where(fmt.Sprintf("(%s AT TIME ZONE 'UTC')::date = %s::date", column, b.Arg(day.Format(time.DateOnly))))
}

// Build returns the WHERE clause (empty when there are no predicates) and
// the bind values in placeholder order.
func (b *Builder) Build() (string, []any) {
	if len(b.clauses) == 0 {
		return "", b.args
	}
	return "WHERE " + strings.Join(b.clauses, " AND "), b.args
}

// Args returns the bind values registered so far.
func (b *Builder) Args() []any {
	return b.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
