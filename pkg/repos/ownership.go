package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/platinummonkey/stores/pkg/acl"
)

// ownerLookup resolves ownership chain hops with single-row reads on the
// request's connection. Table and column names come from validated acl.Chains.
type ownerLookup struct {
	db DBTX
}

// LookupColumn implements acl.OwnerLookup
func (l ownerLookup) LookupColumn(ctx context.Context, table, column string, id int64) (int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", column, table)

	var value sql.NullInt64
	err := l.db.QueryRowContext(ctx, query, id).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return 0, acl.ErrOwnerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s.%s: %w", table, column, err)
	}
	return value.Int64, nil
}
