package store

import (
	"errors"
	"fmt"

	"github.com/tgienger/quill/internal/models"
)

// Error kinds. Every error returned by a store matches exactly one of these
// through errors.Is.
var (
	// ErrValidation is returned when required fields are missing or invalid
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the referenced id does not exist
	ErrNotFound = errors.New("not found")
	// ErrPersist is returned when the backend rejects or fails a mutation
	ErrPersist = errors.New("persist failed")
	// ErrLoad is returned when a bulk or single fetch fails
	ErrLoad = errors.New("load failed")
)

// Error carries the kind of a store failure plus where it happened
type Error struct {
	Kind   error
	Op     string // get_all, get, create, update, delete
	Entity string // task, project, template
	ID     string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Entity + " " + e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil && e.Err != e.Kind {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap builds an *Error. A nil err yields nil.
func Wrap(kind error, entity, op, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: kind, Op: op, Entity: entity, ID: id, Err: err}
}

// NotFound builds the error returned for an unknown id
func NotFound(entity, op, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, Entity: entity, ID: id}
}

// Invalid wraps a validation failure
func Invalid(entity, op string, err error) error {
	return Wrap(ErrValidation, entity, op, "", err)
}

// KindOf classifies any error into the taxonomy. Errors that carry no kind are
// treated as persist failures.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrLoad):
		return ErrLoad
	default:
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return ErrValidation
		}
		return ErrPersist
	}
}

// Message turns an error into the text shown to the user
func Message(err error) string {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s %s", verr.Field, verr.Message)
	}
	var se *Error
	if errors.As(err, &se) {
		switch se.Kind {
		case ErrNotFound:
			return fmt.Sprintf("%s no longer exists", se.Entity)
		case ErrLoad:
			return fmt.Sprintf("failed to load %ss", se.Entity)
		case ErrValidation:
			return fmt.Sprintf("invalid %s", se.Entity)
		}
		return fmt.Sprintf("failed to %s %s", se.Op, se.Entity)
	}
	return err.Error()
}
