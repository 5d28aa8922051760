package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error classes. Every error leaving this package or the account service
// matches exactly one of these with errors.Is; the API maps them to
// HTTP statuses in one place.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("account not found")
	ErrConflict        = errors.New("email already registered")
	ErrStorage         = errors.New("storage failure")
)

// Specific failures, each wrapping its class.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrNotVerified        = fmt.Errorf("%w: account is not verified", ErrForbidden)
	ErrInvalidHash        = fmt.Errorf("%w: malformed password hash", ErrValidation)
)

// Token failures. All of them also match ErrTokenInvalid.
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
)

// ValidationError carries field-level complaints about caller input.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError builds a ValidationError. fields may be nil.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// FieldError is shorthand for a ValidationError about a single field.
func FieldError(field, complaint string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("invalid %s", field),
		Fields:  map[string]string{field: complaint},
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap classifies the error as ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError wraps an unclassified failure from the storage engine.
// It matches both ErrStorage and the underlying driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

// Unwrap exposes the class and the driver error.
func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// storageErr wraps err for op unless it is already classified.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, class := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict, ErrStorage} {
		if errors.Is(err, class) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}

// TokenErrorKind says why a token was rejected.
type TokenErrorKind int

// Token rejection reasons.
const (
	TokenMalformed TokenErrorKind = iota + 1
	TokenBadSignature
	TokenExpired
)

func (k TokenErrorKind) String() string {
	switch k {
	case TokenMalformed:
		return "malformed"
	case TokenBadSignature:
		return "bad_signature"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TokenError is returned by TokenService.Validate. Callers may inspect Kind
// for logging; clients only ever see "unauthorised".
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *TokenError) sentinel() error {
	switch e.Kind {
	case TokenExpired:
		return ErrTokenExpired
	case TokenBadSignature:
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}

// Unwrap matches the kind sentinel, ErrTokenInvalid and the parser error.
func (e *TokenError) Unwrap() []error {
	errs := []error{e.sentinel(), ErrTokenInvalid}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
