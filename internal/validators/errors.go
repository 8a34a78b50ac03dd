package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType     = errors.New("unsupported type for validation")
	ErrUnknownField        = errors.New("unknown field for validation")
	ErrResourceNotEditable = errors.New("resource is not editable")

	ErrInvalidFieldType = errors.New("invalid field type")
	ErrFieldReadOnly    = errors.New("field is read-only")

	ErrInvalidTheme     = errors.New("invalid theme")
	ErrInvalidLanguage  = errors.New("invalid language")
	ErrInvalidDigest    = errors.New("invalid digest cadence")
	ErrInvalidThreshold = errors.New("risk alert threshold must be between 0 and 100")
	ErrEmptyTimezone    = errors.New("timezone is required")
	ErrEmptyDateFormat  = errors.New("date format is required")

	ErrEmptyFirstName = errors.New("first name is required")
	ErrEmptyLastName  = errors.New("last name is required")
	ErrNameTooLong    = errors.New("name is too long")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidPhone   = errors.New("invalid phone number")
)

// FieldError scopes a validation failure to a single field of a resource
// document. The auto-save coordinator surfaces it next to the edited field
// and blocks persistence until the draft is fixed.
type FieldError struct {
	// Resource is the resource whose draft failed validation.
	Resource string

	// Field is the JSON field name the failure concerns.
	Field string

	// Err is the underlying rule sentinel.
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q of %q: %v", e.Field, e.Resource, e.Err)
}

// Unwrap exposes the rule sentinel for errors.Is checks.
func (e *FieldError) Unwrap() error {
	return e.Err
}

func newFieldError(resource, field string, err error) error {
	return &FieldError{Resource: resource, Field: field, Err: err}
}
