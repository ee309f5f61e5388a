package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSource is the Postgres-backed DataSource.
type PGSource struct {
	pool *pgxpool.Pool
}

func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

var _ DataSource = (*PGSource)(nil)

// wrapPGError converts a pgconn error into the layer's Error shape so
// callers see a stable {message, code} pair regardless of driver details.
func wrapPGError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{Message: pgErr.Message, Code: pgErr.Code}
	}
	return err
}

func (s *PGSource) Select(ctx context.Context, resource string, opts Options) ([]Row, error) {
	cols := "*"
	if len(opts.Columns) > 0 {
		for _, c := range opts.Columns {
			if err := validIdent(c); err != nil {
				return nil, err
			}
		}
		cols = strings.Join(opts.Columns, ", ")
	}

	stmt, err := NewStatement(resource, cols)
	if err != nil {
		return nil, err
	}
	if err := stmt.ApplyFilters(opts.Filters); err != nil {
		return nil, err
	}
	if err := stmt.ApplyPrefixes(opts.Prefix); err != nil {
		return nil, err
	}
	if opts.OrderBy != nil {
		if err := stmt.OrderBy(opts.OrderBy.Field, opts.OrderBy.Ascending); err != nil {
			return nil, err
		}
	}

	rows, err := s.pool.Query(ctx, stmt.SelectSQL(opts.Limit, opts.Offset), stmt.SelectArgs(opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, wrapPGError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, wrapPGError(err)
	}
	if out == nil {
		out = []Row{}
	}
	return out, nil
}

func (s *PGSource) SelectOne(ctx context.Context, resource, id string) (Row, error) {
	if err := validIdent(resource); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT * FROM %s WHERE id = $1 LIMIT 2", resource), id)
	if err != nil {
		return nil, wrapPGError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, wrapPGError(err)
	}

	switch len(out) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return out[0], nil
	default:
		return nil, ErrMultipleRows
	}
}

func (s *PGSource) Insert(ctx context.Context, resource string, rows []Row) ([]Row, error) {
	sql, args, err := InsertSQL(resource, rows)
	if err != nil {
		return nil, err
	}
	res, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapPGError(err)
	}
	out, err := pgx.CollectRows(res, pgx.RowToMap)
	if err != nil {
		return nil, wrapPGError(err)
	}
	return out, nil
}

func (s *PGSource) Update(ctx context.Context, resource, id string, patch Row) (Row, error) {
	sql, args, err := UpdateSQL(resource, id, patch)
	if err != nil {
		return nil, err
	}
	res, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapPGError(err)
	}
	out, err := pgx.CollectRows(res, pgx.RowToMap)
	if err != nil {
		return nil, wrapPGError(err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}
