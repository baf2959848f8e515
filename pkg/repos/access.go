package repos

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
)

// base carries what every repository needs
type base struct {
	db  DBTX
	acl acl.ACL
}

// visible checks read access to a fetched row; denial reads as absence
func (b base) visible(ctx context.Context, resource acl.Resource, entity acl.Entity) error {
	err := b.acl.Check(ctx, resource, acl.ActionRead, entity)
	if acl.IsDenied(err) {
		return ErrNotFound
	}
	return err
}

// allowed checks a write against the current row or the create payload
func (b base) allowed(ctx context.Context, resource acl.Resource, action acl.Action, entity acl.Entity) error {
	return b.acl.Check(ctx, resource, action, entity)
}

// readable drops rows the caller may not read
func readable[T any, P interface {
	*T
	acl.Entity
}](ctx context.Context, b base, resource acl.Resource, rows []T) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i := range rows {
		err := b.acl.Check(ctx, resource, acl.ActionRead, P(&rows[i]))
		switch {
		case err == nil:
			out = append(out, rows[i])
		case acl.IsDenied(err):
		default:
			return nil, err
		}
	}
	return out, nil
}

// readableAll is the resource-level read check for entities without an owner
func readableAll[T any](ctx context.Context, b base, resource acl.Resource, rows []T) ([]T, error) {
	err := b.acl.Check(ctx, resource, acl.ActionRead, nil)
	if acl.IsDenied(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
