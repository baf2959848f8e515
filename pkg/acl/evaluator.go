package acl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("stores/acl")

// Decision outcomes reported to a DecisionRecorder
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionError = "error"
)

// DecisionRecorder receives the outcome of every check
type DecisionRecorder interface {
	RecordACLDecision(resource, action, decision string)
}

// Actor is the caller a check is evaluated for
type Actor struct {
	UserID int64
	Roles  []Role
}

// Anonymous reports whether the actor has no known user id
func (a Actor) Anonymous() bool {
	return a.UserID <= 0
}

// effectiveRoles adds the implicit guest role
func (a Actor) effectiveRoles() []Role {
	roles := make([]Role, 0, len(a.Roles)+1)
	roles = append(roles, a.Roles...)
	return append(roles, RoleGuest)
}

// Evaluator decides whether an actor may perform an action on a resource
type Evaluator struct {
	table    *Table
	chains   Chains
	log      logrus.FieldLogger
	recorder DecisionRecorder
}

// EvaluatorOption configures an Evaluator
type EvaluatorOption func(*Evaluator)

// WithLogger sets the logger used for denial diagnostics
func WithLogger(log logrus.FieldLogger) EvaluatorOption {
	return func(e *Evaluator) {
		e.log = log
	}
}

// WithRecorder sets the decision recorder
func WithRecorder(r DecisionRecorder) EvaluatorOption {
	return func(e *Evaluator) {
		e.recorder = r
	}
}

// NewEvaluator creates an evaluator over a permission table and ownership chains
func NewEvaluator(table *Table, chains Chains, opts ...EvaluatorOption) (*Evaluator, error) {
	if table == nil {
		return nil, fmt.Errorf("permission table is required")
	}
	if err := chains.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ownership chains: %w", err)
	}
	e := &Evaluator{table: table, chains: chains}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	return e, nil
}

// Table returns the permission table
func (e *Evaluator) Table() *Table {
	return e.table
}

// Check returns nil when the actor may perform action on resource.
// entity is only consulted when the best grant is ScopeOwned.
func (e *Evaluator) Check(ctx context.Context, lookup OwnerLookup, actor Actor, resource Resource, action Action, entity Entity) error {
	ctx, span := tracer.Start(ctx, "acl.Check")
	defer span.End()
	span.SetAttributes(
		attribute.String("acl.resource", string(resource)),
		attribute.String("acl.action", string(action)),
		attribute.Int64("acl.user_id", actor.UserID),
	)

	err := e.check(ctx, lookup, actor, resource, action, entity)
	switch {
	case err == nil:
		e.record(resource, action, DecisionAllow)
	case IsDenied(err):
		e.record(resource, action, DecisionDeny)
		fields := logrus.Fields{
			"resource": resource,
			"action":   action,
			"user_id":  actor.UserID,
		}
		var denied *DeniedError
		if errors.As(err, &denied) {
			fields["reason"] = denied.Reason
		}
		e.log.WithFields(fields).Debug("access denied")
		span.SetAttributes(attribute.String("acl.decision", DecisionDeny))
	default:
		e.record(resource, action, DecisionError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (e *Evaluator) check(ctx context.Context, lookup OwnerLookup, actor Actor, resource Resource, action Action, entity Entity) error {
	scope := e.table.MaxScope(actor.effectiveRoles(), resource, action)
	switch scope {
	case ScopeAll:
		return nil
	case ScopeOwned:
		return e.checkOwned(ctx, lookup, actor, resource, action, entity)
	}
	reason := ReasonNoGrant
	if actor.Anonymous() {
		reason = ReasonAnonymous
	}
	return &DeniedError{Resource: resource, Action: action, UserID: actor.UserID, Reason: reason}
}

func (e *Evaluator) checkOwned(ctx context.Context, lookup OwnerLookup, actor Actor, resource Resource, action Action, entity Entity) error {
	denied := &DeniedError{Resource: resource, Action: action, UserID: actor.UserID, Entity: describe(entity)}
	if actor.Anonymous() {
		denied.Reason = ReasonAnonymous
		return denied
	}
	chain, ok := e.chains[resource]
	if !ok {
		denied.Reason = ReasonOwnershipUnresolved
		return denied
	}
	owner, err := chain.Resolve(ctx, lookup, entity)
	if err != nil {
		if errors.Is(err, ErrOwnerNotFound) {
			denied.Reason = ReasonOwnershipUnresolved
			return denied
		}
		return fmt.Errorf("failed to resolve owner of %s: %w", resource, err)
	}
	if owner != actor.UserID {
		denied.Reason = ReasonNotOwner
		return denied
	}
	return nil
}

func (e *Evaluator) record(resource Resource, action Action, decision string) {
	if e.recorder != nil {
		e.recorder.RecordACLDecision(string(resource), string(action), decision)
	}
}

func describe(entity Entity) string {
	if entity == nil {
		return ""
	}
	return fmt.Sprintf("%T", entity)
}
