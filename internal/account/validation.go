package account

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/nerrad567/gray-logic-accounts/internal/auth"
)

// Field limits for account input.
const (
	minNameLength     = 3
	maxNameLength     = 100
	maxEmailLength    = 254
	minPasswordLength = 6
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields.
func (in RegisterInput) Validate() error {
	return toValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(minNameLength, maxNameLength)),
		validation.Field(&in.Email, validation.Required, validation.Length(0, maxEmailLength), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, auth.MaxPasswordBytes)),
	))
}

func (in RegisterInput) normalised() RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// LoginInput carries credentials for Authenticate.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) normalised() LoginInput {
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// Validate checks that both credentials are present.
func (in LoginInput) Validate() error {
	return toValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	))
}

// UpdateInput is a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Validate rejects an update with no fields and checks the supplied ones.
func (in UpdateInput) Validate() error {
	if in.Name == nil && in.Email == nil {
		return auth.NewValidationError("no fields to update", map[string]string{
			"body": "supply at least one of name, email",
		})
	}
	return toValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.RuneLength(minNameLength, maxNameLength)),
		validation.Field(&in.Email, validation.NilOrNotEmpty, validation.Length(0, maxEmailLength), is.Email),
	))
}

func (in UpdateInput) normalised() UpdateInput {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		in.Email = &email
	}
	return in
}

// toValidationError converts ozzo-validation field errors into the
// service's ValidationError.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for field, ferr := range fieldErrs {
			fields[field] = ferr.Error()
		}
		return auth.NewValidationError("invalid input", fields)
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internal.InternalError()
	}
	return auth.NewValidationError(err.Error(), nil)
}
