package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError collects every field problem found in one input.
type ValidationError struct {
	errs *multierror.Error
}

func (v *ValidationError) Add(format string, args ...any) {
	v.errs = multierror.Append(v.errs, fmt.Errorf(format, args...))
}

// Err returns nil when nothing was collected.
func (v *ValidationError) Err() error {
	if v.errs == nil || len(v.errs.Errors) == 0 {
		return nil
	}
	v.errs.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return v
}

func (v *ValidationError) Error() string {
	return v.errs.Error()
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Fields returns the individual messages.
func (v *ValidationError) Fields() []string {
	out := make([]string, 0, len(v.errs.Errors))
	for _, e := range v.errs.Errors {
		out = append(out, e.Error())
	}
	return out
}

// Invalid builds a single-message validation error.
func Invalid(format string, args ...any) error {
	var v ValidationError
	v.Add(format, args...)
	return v.Err()
}
