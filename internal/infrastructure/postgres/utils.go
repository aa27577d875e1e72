package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockcount-api/pkg/batch"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint nombre del constraint violado, "" si no es un error de PostgreSQL.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// pageQuery arma una PageFunc sobre una consulta con orden estable que recibe LIMIT $1 OFFSET $2.
func pageQuery[T any](q Querier, sql string, scan func(pgx.Row) (T, error)) batch.PageFunc[T] {
	return func(ctx context.Context, offset, limit int) ([]T, error) {
		rows, err := q.Query(ctx, sql, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		out := make([]T, 0, limit)
		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, rows.Err()
	}
}

// collect recorre rows con scan.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
