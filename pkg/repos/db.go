// Package repos implements database/sql repositories for every stores entity.
//
// Each repository is bound to one connection (a *sql.DB or a *sql.Tx) and one
// acl.ACL for the lifetime of a request. Reads are checked row by row after the
// fetch and a row the caller may not read is reported as ErrNotFound. Creates
// are checked against the payload before the insert. Updates and deletes fetch
// the current row, check it, then mutate.
package repos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// WithTx runs fn inside a transaction, committing when fn returns nil
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// placeholders renders "$start, $start+1, ..." for n values
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

func idArgs(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// orderByIDs restores the order of ids, dropping ids with no row
func orderByIDs[T any](ids []int64, rows []T, id func(*T) int64) []T {
	byID := make(map[int64]T, len(rows))
	for i := range rows {
		byID[id(&rows[i])] = rows[i]
	}
	out := make([]T, 0, len(ids))
	for _, want := range ids {
		if row, ok := byID[want]; ok {
			out = append(out, row)
		}
	}
	return out
}

// update accumulates SET clauses for a partial update
type update struct {
	sets []string
	args []interface{}
}

func (u *update) set(column string, value interface{}) {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

func (u *update) empty() bool {
	return len(u.sets) == 0
}

// build renders UPDATE table SET ... WHERE id = $n RETURNING returning
func (u *update) build(table string, id int64, returning string) (string, []interface{}) {
	args := append(append([]interface{}(nil), u.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(u.sets, ", "), len(args), returning)
	return query, args
}

// prefixed qualifies a column list with a table alias
func prefixed(alias, columns string) string {
	fields := strings.Split(columns, ",")
	for i, f := range fields {
		fields[i] = alias + "." + strings.TrimSpace(f)
	}
	return strings.Join(fields, ", ")
}
