package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

var (
	// ErrNotFound is returned when a row is absent or not readable by the caller
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on unique constraint violations
	ErrConflict = errors.New("conflict")
	// ErrValidation is returned when the database rejects a value
	ErrValidation = errors.New("constraint violation")
	// ErrDatabase wraps every other database failure
	ErrDatabase = errors.New("database error")
	// ErrCacheEviction is returned when a saved role change could not be
	// evicted from the role cache
	ErrCacheEviction = errors.New("role cache eviction failed")
)

// postgres SQLSTATE codes
const (
	codeUniqueViolation     = "23505"
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// classify maps err onto the repository error taxonomy. Errors that already
// belong to it, denials and payload validation errors pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case acl.IsDenied(err),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrDatabase),
		errors.Is(err, ErrCacheEviction),
		errors.Is(err, models.ErrInvalidPayload):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation:
			return fmt.Errorf("failed to %s: %w: %s", op, ErrConflict, pqErr.Constraint)
		case codeNotNullViolation, codeForeignKeyViolation, codeCheckViolation, codeInvalidText:
			return fmt.Errorf("failed to %s: %w: %s", op, ErrValidation, pqErr.Message)
		}
	}

	return fmt.Errorf("failed to %s: %w: %w", op, ErrDatabase, err)
}
