package auth

import (
	"time"
)

// Account is a persisted user record with credentials and profile data.
//
// PasswordHash is never serialised; marshalling an Account produces the
// public profile.
type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never serialised
	Verified     bool       `json:"verified"`
	IsAdmin      bool       `json:"is_admin"`
	LoginCount   int64      `json:"login_count"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	RegisteredAt time.Time  `json:"registered_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AccountChanges holds the fields of a partial update. Nil means "leave as is".
type AccountChanges struct {
	Name  *string
	Email *string
}

// Empty reports whether no field was supplied.
func (c AccountChanges) Empty() bool {
	return c.Name == nil && c.Email == nil
}

// AccountPage is one page of a filtered listing plus the total match count.
type AccountPage struct {
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Rows  []Account `json:"rows"`
}

// timeLayout is the storage format for timestamps. Values are always UTC
// at whole-second precision so that text comparison is chronological.
const timeLayout = time.RFC3339

// formatTime renders t in the storage format.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

// parseTime reads a stored timestamp.
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
