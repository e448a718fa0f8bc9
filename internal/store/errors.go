package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind identifies a failure class independent of transport codes.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindForbidden           Kind = "forbidden"
	KindConflict            Kind = "conflict"
	KindLocked              Kind = "locked"
	KindInvalidTransition   Kind = "invalid_transition"
	KindInvalidWindow       Kind = "invalid_window"
	KindEmptyOrder          Kind = "empty_order"
	KindOverlapConflict     Kind = "overlap_conflict"
	KindStructuralViolation Kind = "structural_violation"
	KindInvalidArgument     Kind = "invalid_argument"
)

// Error is a classified store failure carrying a human-readable reason.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error with the same Kind, so callers can use errors.Is
// against the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks in handlers and tests.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrLocked              = &Error{Kind: KindLocked}
	ErrInvalidTransition   = &Error{Kind: KindInvalidTransition}
	ErrInvalidWindow       = &Error{Kind: KindInvalidWindow}
	ErrEmptyOrder          = &Error{Kind: KindEmptyOrder}
	ErrOverlapConflict     = &Error{Kind: KindOverlapConflict}
	ErrStructuralViolation = &Error{Kind: KindStructuralViolation}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
)

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Postgres SQLSTATE codes the store reclassifies.
const (
	pgExclusionViolation = "23P01"
	pgCheckViolation     = "23514"
	pgUniqueViolation    = "23505"
)

// classify maps storage-layer failures to typed store errors so no raw
// database error reaches a caller. Integrity failures are distinguished by
// which constraint fired.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errf(KindNotFound, "record not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return errf(KindOverlapConflict, "this table is already assigned during that time window")
		case pgCheckViolation:
			if strings.Contains(pgErr.ConstraintName, "end_after_start") {
				return errf(KindInvalidWindow, "seat assignment window must end after it starts")
			}
			return errf(KindStructuralViolation, "check constraint %s rejected the write", pgErr.ConstraintName)
		case pgUniqueViolation:
			return errf(KindConflict, "unique constraint %s rejected the write", pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("storage error: %w", err)
}
