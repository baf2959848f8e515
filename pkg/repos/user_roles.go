package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
)

// RoleInvalidator is told about every committed change to a user's roles
type RoleInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

const userRoleColumns = "id, user_id, name, created_at"

// UserRoles is the user_roles table repository. Writes must run on an
// autocommit connection so invalidation follows the change.
type UserRoles struct {
	base
	invalidator RoleInvalidator
}

// NewUserRoles creates a user roles repository. invalidator may be nil.
func NewUserRoles(db DBTX, a acl.ACL, invalidator RoleInvalidator) *UserRoles {
	return &UserRoles{base: base{db: db, acl: a}, invalidator: invalidator}
}

func scanUserRole(row scanner) (*models.UserRole, error) {
	var u models.UserRole
	if err := row.Scan(&u.ID, &u.UserID, &u.Name, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// invalidate evicts cached roles after a committed change. A failure is
// reported to the caller even though the change itself is saved.
func (r *UserRoles) invalidate(ctx context.Context, op string, userID int64) error {
	if r.invalidator == nil {
		return nil
	}
	if err := r.invalidator.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrCacheEviction, err)
	}
	return nil
}

func (r *UserRoles) query(ctx context.Context, op, query string, args ...interface{}) ([]models.UserRole, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.UserRole{}
	for rows.Next() {
		u, err := scanUserRole(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// ListForUser returns the role grants of a user
func (r *UserRoles) ListForUser(ctx context.Context, userID int64) ([]models.UserRole, error) {
	roles, err := r.query(ctx, "list user roles",
		"SELECT "+userRoleColumns+" FROM user_roles WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	roles, err = readable(ctx, r.base, acl.ResourceUserRoles, roles)
	return roles, classify("list user roles", err)
}

// UserIDsByRole returns the users holding a role
func (r *UserRoles) UserIDsByRole(ctx context.Context, role acl.Role) ([]int64, error) {
	roles, err := r.query(ctx, "list users by role",
		"SELECT "+userRoleColumns+" FROM user_roles WHERE name = $1 ORDER BY user_id", role)
	if err != nil {
		return nil, err
	}
	roles, err = readable(ctx, r.base, acl.ResourceUserRoles, roles)
	if err != nil {
		return nil, classify("list users by role", err)
	}
	ids := make([]int64, 0, len(roles))
	for _, u := range roles {
		ids = append(ids, u.UserID)
	}
	return ids, nil
}

// Create grants a role
func (r *UserRoles) Create(ctx context.Context, payload *models.NewUserRole) (*models.UserRole, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceUserRoles, acl.ActionCreate, payload); err != nil {
		return nil, classify("create user role", err)
	}
	role, err := scanUserRole(r.db.QueryRowContext(ctx,
		"INSERT INTO user_roles (user_id, name, created_at) VALUES ($1, $2, $3) RETURNING "+userRoleColumns,
		payload.UserID, payload.Name, time.Now().UTC()))
	if err != nil {
		return nil, classify("create user role", err)
	}
	if err := r.invalidate(ctx, "create user role", role.UserID); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete revokes one role grant
func (r *UserRoles) Delete(ctx context.Context, payload *models.OldUserRole) (*models.UserRole, error) {
	if err := r.allowed(ctx, acl.ResourceUserRoles, acl.ActionDelete, payload); err != nil {
		return nil, classify("delete user role", err)
	}
	role, err := scanUserRole(r.db.QueryRowContext(ctx,
		"DELETE FROM user_roles WHERE user_id = $1 AND name = $2 RETURNING "+userRoleColumns,
		payload.UserID, payload.Name))
	if err != nil {
		return nil, classify("delete user role", err)
	}
	if err := r.invalidate(ctx, "create user role", role.UserID); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteByID revokes a role grant by its id
func (r *UserRoles) DeleteByID(ctx context.Context, id int64) (*models.UserRole, error) {
	current, err := scanUserRole(r.db.QueryRowContext(ctx,
		"SELECT "+userRoleColumns+" FROM user_roles WHERE id = $1", id))
	if err != nil {
		return nil, classify("delete user role", err)
	}
	if err := r.allowed(ctx, acl.ResourceUserRoles, acl.ActionDelete, current); err != nil {
		return nil, classify("delete user role", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_roles WHERE id = $1", id); err != nil {
		return nil, classify("delete user role", err)
	}
	if err := r.invalidate(ctx, "delete user role", current.UserID); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteByUserID revokes every role of a user
func (r *UserRoles) DeleteByUserID(ctx context.Context, userID int64) ([]models.UserRole, error) {
	current, err := r.query(ctx, "delete user roles",
		"SELECT "+userRoleColumns+" FROM user_roles WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	for i := range current {
		if err := r.allowed(ctx, acl.ResourceUserRoles, acl.ActionDelete, &current[i]); err != nil {
			return nil, classify("delete user roles", err)
		}
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id = $1", userID); err != nil {
		return nil, classify("delete user roles", err)
	}
	if err := r.invalidate(ctx, "delete user roles", userID); err != nil {
		return nil, err
	}
	return current, nil
}

// RoleStore loads persisted roles for the role resolver. It runs before any
// ACL exists for the request and so performs no checks.
type RoleStore struct {
	db DBTX
}

// NewRoleStore creates a role store over db
func NewRoleStore(db DBTX) *RoleStore {
	return &RoleStore{db: db}
}

// ListRoles implements acl.RoleStore
func (s *RoleStore) ListRoles(ctx context.Context, userID int64) ([]acl.Role, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM user_roles WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, classify("load roles", err)
	}
	defer rows.Close()

	roles := []acl.Role{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify("load roles", err)
		}
		role, err := acl.ParseRole(name)
		if err != nil || !role.Assignable() {
			observability.FromContext(ctx).WithField("role", name).WithField("user_id", userID).Warn("ignoring unknown stored role")
			continue
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("load roles", err)
	}
	return roles, nil
}
