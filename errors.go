package usersearch

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when Build is called with a field list or
// records that do not fit together. It is a programming error on the caller's
// side, never a transient condition.
var ErrInvalidArgument = errors.New("invalid argument")

// FieldError reports a problem with a requested field.
//
// It unwraps to ErrInvalidArgument.
type FieldError struct {
	// Field is the offending field name.
	Field string
	// Record is the position of the record that does not expose Field,
	// or -1 if the field list itself is invalid.
	Record int
	// Reason describes the problem.
	Reason string
}

func (e *FieldError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("invalid argument: field %q %s by record %d", e.Field, e.Reason, e.Record)
	}
	return fmt.Sprintf("invalid argument: field %q %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidArgument }

func validateFields(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to search", ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			return &FieldError{Field: f, Record: -1, Reason: "is empty"}
		}
		if _, dup := seen[f]; dup {
			return &FieldError{Field: f, Record: -1, Reason: "is listed twice"}
		}
		seen[f] = struct{}{}
	}
	return nil
}
