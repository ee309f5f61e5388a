package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// Statement builds parameterized SQL from declarative Options.
// It encapsulates the filter/order/limit translation shared by every
// resource backed by the Postgres data source.
type Statement struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewStatement creates a Statement for the given table and column list.
func NewStatement(table, cols string) (*Statement, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}
	if cols == "" {
		cols = "*"
	}
	return &Statement{table: table, cols: cols, idx: 1}, nil
}

// AddEq appends an equality filter. Nil values are skipped, not applied.
func (s *Statement) AddEq(column string, value interface{}) error {
	if value == nil {
		return nil
	}
	if err := validIdent(column); err != nil {
		return err
	}
	s.where += fmt.Sprintf(" AND %s = $%d", column, s.idx)
	s.args = append(s.args, value)
	s.idx++
	return nil
}

// ApplyFilters appends equality filters for every non-nil entry, in sorted
// key order so generated SQL is deterministic.
func (s *Statement) ApplyFilters(filters map[string]interface{}) error {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.AddEq(k, filters[k]); err != nil {
			return err
		}
	}
	return nil
}

// AddPrefix appends a case-insensitive prefix filter. Empty values are
// skipped.
func (s *Statement) AddPrefix(column, value string) error {
	if value == "" {
		return nil
	}
	if err := validIdent(column); err != nil {
		return err
	}
	s.where += fmt.Sprintf(" AND %s ILIKE $%d", column, s.idx)
	s.args = append(s.args, escapeLike(value)+"%")
	s.idx++
	return nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text.
func escapeLike(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `%`, `\%`)
	v = strings.ReplaceAll(v, `_`, `\_`)
	return v
}

// ApplyPrefixes appends prefix filters for every non-empty entry, in sorted
// key order.
func (s *Statement) ApplyPrefixes(prefixes map[string]string) error {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.AddPrefix(k, prefixes[k]); err != nil {
			return err
		}
	}
	return nil
}

// OrderBy sets the sort column and direction.
func (s *Statement) OrderBy(field string, ascending bool) error {
	if err := validIdent(field); err != nil {
		return err
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	s.orderBy = field + " " + dir
	return nil
}

// SelectSQL returns the data query. Limit and offset are appended only when
// limit is positive.
func (s *Statement) SelectSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", s.cols, s.table, s.where)
	if s.orderBy != "" {
		sql += " ORDER BY " + s.orderBy
	}
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", s.idx, s.idx+1)
	}
	return sql
}

// SelectArgs returns the arguments matching SelectSQL.
func (s *Statement) SelectArgs(limit, offset int) []interface{} {
	if limit <= 0 {
		return s.args
	}
	out := make([]interface{}, len(s.args)+2)
	copy(out, s.args)
	out[len(s.args)] = limit
	out[len(s.args)+1] = offset
	return out
}

// CountSQL returns the count query for the same filters.
func (s *Statement) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", s.table, s.where)
}

// CountArgs returns the arguments for the count query.
func (s *Statement) CountArgs() []interface{} {
	return s.args
}

// InsertSQL builds a multi-row insert from the union of the first row's keys,
// in sorted order. Every row must carry the same keys.
func InsertSQL(table string, rows []Row) (string, []interface{}, error) {
	if err := validIdent(table); err != nil {
		return "", nil, err
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no rows", table)
	}

	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		if err := validIdent(k); err != nil {
			return "", nil, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []interface{}
	var tuples []string
	idx := 1
	for _, row := range rows {
		if len(row) != len(keys) {
			return "", nil, fmt.Errorf("insert into %s: rows have mismatched columns", table)
		}
		ph := make([]string, 0, len(keys))
		for _, k := range keys {
			v, ok := row[k]
			if !ok {
				return "", nil, fmt.Errorf("insert into %s: row missing column %s", table, k)
			}
			ph = append(ph, fmt.Sprintf("$%d", idx))
			args = append(args, v)
			idx++
		}
		tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING *",
		table, strings.Join(keys, ", "), strings.Join(tuples, ", "))
	return sql, args, nil
}

// UpdateSQL builds a single-row update over the patch's keys in sorted order.
func UpdateSQL(table, id string, patch Row) (string, []interface{}, error) {
	if err := validIdent(table); err != nil {
		return "", nil, err
	}
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("update %s: empty patch", table)
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		if err := validIdent(k); err != nil {
			return "", nil, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sets []string
	var args []interface{}
	idx := 1
	for _, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, idx))
		args = append(args, patch[k])
		idx++
	}
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		table, strings.Join(sets, ", "), idx)
	return sql, args, nil
}
