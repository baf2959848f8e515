package services

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/contextkeys"
	"github.com/platinummonkey/stores/pkg/repos"
	"github.com/platinummonkey/stores/pkg/search"
)

var tracer = otel.Tracer("stores/services")

// Service runs the stores use cases
type Service struct {
	db     *sql.DB
	repos  *repos.Factory
	search *search.Client
	pool   *Pool
}

// New creates a Service. searchClient may be nil, in which case the search
// use cases fail with search.ErrDisabled.
func New(db *sql.DB, factory *repos.Factory, searchClient *search.Client, pool *Pool) *Service {
	return &Service{
		db:     db,
		repos:  factory,
		search: searchClient,
		pool:   pool,
	}
}

// callerACL resolves the ACL of the user in ctx, or the anonymous ACL
func (s *Service) callerACL(ctx context.Context) (acl.ACL, error) {
	var userID *int64
	if id, ok := contextkeys.GetUserID(ctx); ok {
		userID = &id
	}
	return s.repos.ACL(ctx, s.db, userID)
}

// callerID returns the caller's user id, 0 for anonymous callers
func callerID(ctx context.Context) int64 {
	id, _ := contextkeys.GetUserID(ctx)
	return id
}

func traced[T any](ctx context.Context, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "services."+op)
	defer span.End()

	out, err := fn(ctx)
	if err != nil && !acl.IsDenied(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

// run executes fn on the pool against the shared connection pool
func run[T any](ctx context.Context, s *Service, op string, fn func(ctx context.Context, conn repos.DBTX, a acl.ACL) (T, error)) (T, error) {
	return traced(ctx, op, func(ctx context.Context) (T, error) {
		return Call(ctx, s.pool, func(ctx context.Context) (T, error) {
			a, err := s.callerACL(ctx)
			if err != nil {
				var zero T
				return zero, err
			}
			return fn(ctx, s.db, a)
		})
	})
}

// inTx executes fn on the pool inside one transaction. Roles are resolved
// before the transaction starts and the ACL then follows ownership on tx.
func inTx[T any](ctx context.Context, s *Service, op string, fn func(ctx context.Context, tx *sql.Tx, a acl.ACL) (T, error)) (T, error) {
	return traced(ctx, op, func(ctx context.Context) (T, error) {
		return Call(ctx, s.pool, func(ctx context.Context) (T, error) {
			var out T
			a, err := s.callerACL(ctx)
			if err != nil {
				return out, err
			}
			err = repos.WithTx(ctx, s.db, func(tx *sql.Tx) error {
				var err error
				out, err = fn(ctx, tx, s.repos.Bind(a, tx))
				return err
			})
			if err != nil {
				var zero T
				return zero, err
			}
			return out, nil
		})
	})
}
