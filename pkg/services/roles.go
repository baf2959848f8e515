package services

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// ListUserRoles returns the role grants of a user
func (s *Service) ListUserRoles(ctx context.Context, userID int64) ([]models.UserRole, error) {
	return run(ctx, s, "ListUserRoles", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.UserRole, error) {
		return s.repos.UserRoles(conn, a).ListForUser(ctx, userID)
	})
}

// GrantRole assigns a role to a user
func (s *Service) GrantRole(ctx context.Context, payload *models.NewUserRole) (*models.UserRole, error) {
	return run(ctx, s, "GrantRole", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.UserRole, error) {
		return s.repos.UserRoles(conn, a).Create(ctx, payload)
	})
}

// RevokeRole removes one role from a user
func (s *Service) RevokeRole(ctx context.Context, payload *models.OldUserRole) (*models.UserRole, error) {
	return run(ctx, s, "RevokeRole", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.UserRole, error) {
		return s.repos.UserRoles(conn, a).Delete(ctx, payload)
	})
}

// RevokeRoleByID removes a role grant by its id
func (s *Service) RevokeRoleByID(ctx context.Context, id int64) (*models.UserRole, error) {
	return run(ctx, s, "RevokeRoleByID", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.UserRole, error) {
		return s.repos.UserRoles(conn, a).DeleteByID(ctx, id)
	})
}

// RevokeAllRoles removes every role of a user
func (s *Service) RevokeAllRoles(ctx context.Context, userID int64) ([]models.UserRole, error) {
	return run(ctx, s, "RevokeAllRoles", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.UserRole, error) {
		return s.repos.UserRoles(conn, a).DeleteByUserID(ctx, userID)
	})
}

// GrantDefaultRole gives a newly registered user the user role. It runs with
// the system ACL and returns the existing grant when the user already has it.
func (s *Service) GrantDefaultRole(ctx context.Context, userID int64) (*models.UserRole, error) {
	return traced(ctx, "GrantDefaultRole", func(ctx context.Context) (*models.UserRole, error) {
		return Call(ctx, s.pool, func(ctx context.Context) (*models.UserRole, error) {
			roles := s.repos.UserRoles(s.db, s.repos.SystemACL())
			current, err := roles.ListForUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			for i := range current {
				if current[i].Name == acl.RoleUser {
					return &current[i], nil
				}
			}
			return roles.Create(ctx, &models.NewUserRole{UserID: userID, Name: acl.RoleUser})
		})
	})
}
