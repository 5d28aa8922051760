package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	driverErr := errors.New("disk I/O error")

	tests := []struct {
		name  string
		err   error
		class error
	}{
		{"invalid credentials", ErrInvalidCredentials, ErrUnauthenticated},
		{"not verified", ErrNotVerified, ErrForbidden},
		{"invalid hash", ErrInvalidHash, ErrValidation},
		{"field error", FieldError("email", "is required"), ErrValidation},
		{"storage", &StorageError{Op: "reading account", Err: driverErr}, ErrStorage},
		{"storage keeps cause", &StorageError{Op: "reading account", Err: driverErr}, driverErr},
		{"expired token", &TokenError{Kind: TokenExpired}, ErrTokenInvalid},
		{"bad signature", &TokenError{Kind: TokenBadSignature}, ErrTokenSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.class)
		})
	}
}

func TestStorageErr_KeepsClassifiedErrors(t *testing.T) {
	assert.Nil(t, storageErr("op", nil))
	assert.Same(t, ErrNotFound, storageErr("op", ErrNotFound))

	wrapped := storageErr("op", errors.New("boom"))
	assert.ErrorIs(t, wrapped, ErrStorage)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("invalid request", map[string]string{
		"name":  "is required",
		"email": "must be a valid email address",
	})
	assert.Equal(t, "invalid request (email: must be a valid email address; name: is required)", err.Error())
	assert.Equal(t, "no fields", NewValidationError("no fields", nil).Error())
}

func TestTokenErrorKind_String(t *testing.T) {
	assert.Equal(t, "expired", TokenExpired.String())
	assert.Equal(t, "malformed", TokenMalformed.String())
	assert.Equal(t, "bad_signature", TokenBadSignature.String())
	assert.Equal(t, "unknown", TokenErrorKind(0).String())
}
