package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockcount-api/pkg/batch"
)

// Filter igualdad opcional sobre una columna.
type Filter struct {
	Column string
	Value  any
}

// PageQuery describe una lectura masiva paginada de una tabla. Los identificadores se escapan con
// pgx.Identifier; el id se agrega como desempate para que el orden sea estable entre páginas.
type PageQuery struct {
	Table     string
	Columns   []string
	Filter    *Filter
	OrderBy   string
	Ascending bool
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// SQL devuelve la consulta con LIMIT/OFFSET como los dos últimos parámetros y los argumentos fijos.
func (p PageQuery) SQL() (string, []any) {
	cols := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		cols = append(cols, ident(c))
	}
	var (
		b    strings.Builder
		args []any
	)
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(cols, ", "), ident(p.Table))
	if p.Filter != nil {
		args = append(args, p.Filter.Value)
		fmt.Fprintf(&b, " WHERE %s = $%d", ident(p.Filter.Column), len(args))
	}
	dir := "DESC"
	if p.Ascending {
		dir = "ASC"
	}
	orderBy := p.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s", ident(orderBy), dir)
	if orderBy != "id" {
		b.WriteString(", " + ident("id") + " ASC")
	}
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	return b.String(), args
}

// readAll lee todas las filas de pq en páginas de step filas. Un error en cualquier página aborta.
func readAll[T any](ctx context.Context, q Querier, step int, pq PageQuery, scan func(pgx.Row) (T, error)) ([]T, error) {
	sql, fixed := pq.SQL()
	page := func(ctx context.Context, offset, limit int) ([]T, error) {
		args := append(append([]any(nil), fixed...), limit, offset)
		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		return collect(rows, scan)
	}
	return batch.FetchAll(ctx, step, page)
}
