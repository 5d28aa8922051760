package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
)

// Pagination bounds for account listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TopLoginsLimit is the size of the login-frequency report.
const TopLoginsLimit = 3

// profileColumns is the column list for account reads, in scan order.
const profileColumns = "id, name, email, password_hash, verified, is_admin, login_count, last_login_at, registered_at, updated_at"

// Query composes a parameterised statement from an unconditional base and a
// set of AND-ed predicates. Fragments and their values are appended in
// lockstep; values never become part of the SQL text.
type Query struct {
	base    string
	clauses []string
	args    []any
}

// NewQuery starts a query from base, e.g. "SELECT COUNT(*) FROM users".
func NewQuery(base string) *Query {
	return &Query{base: base}
}

// Where appends fragment with its bound values. The number of ? placeholders
// in fragment must equal len(args); a mismatch is a programming error.
func (q *Query) Where(fragment string, args ...any) *Query {
	if n := strings.Count(fragment, "?"); n != len(args) {
		panic(fmt.Sprintf("auth: predicate %q has %d placeholders but %d values", fragment, n, len(args)))
	}
	q.clauses = append(q.clauses, fragment)
	q.args = append(q.args, args...)
	return q
}

// WhereClause returns the WHERE clause, or "" when no predicate was added.
func (q *Query) WhereClause() string {
	if len(q.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.clauses, " AND ")
}

// Args returns a copy of the bound values in placeholder order.
func (q *Query) Args() []any {
	out := make([]any, len(q.args))
	copy(out, q.args)
	return out
}

// Build returns base + WHERE clause + suffix and the values for it.
// extra values bind placeholders in suffix and follow the predicate values.
func (q *Query) Build(suffix string, extra ...any) (string, []any) {
	if n := strings.Count(suffix, "?"); n != len(extra) {
		panic(fmt.Sprintf("auth: suffix %q has %d placeholders but %d values", suffix, n, len(extra)))
	}
	sql := q.base + q.WhereClause()
	if suffix != "" {
		sql += " " + suffix
	}
	return sql, append(q.Args(), extra...)
}

// AccountFilter is the predicate and pagination set for an account listing.
// Nil and empty fields impose no predicate.
type AccountFilter struct {
	Name           string
	Email          string
	Verified       *bool
	RegisteredFrom *time.Time
	RegisteredTo   *time.Time
	Page           int
	Limit          int
}

// Normalise clamps pagination to usable values: page < 1 becomes 1,
// limit < 1 becomes DefaultPageSize and limit > MaxPageSize is capped.
func (f AccountFilter) Normalise() AccountFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.Limit < 1:
		f.Limit = DefaultPageSize
	case f.Limit > MaxPageSize:
		f.Limit = MaxPageSize
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

// Offset is the number of rows skipped before the current page.
// Call on a normalised filter.
func (f AccountFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Validate rejects a registration range whose start is after its end.
func (f AccountFilter) Validate() error {
	if f.RegisteredFrom != nil && f.RegisteredTo != nil && f.RegisteredFrom.After(*f.RegisteredTo) {
		return FieldError("startDate", "must not be after endDate")
	}
	return nil
}

// Predicates adds the filter's conditions to q for dialect d.
func (f AccountFilter) Predicates(q *Query, d database.Dialect) *Query {
	like := d.Like()
	if f.Name != "" {
		q.Where("name "+like+` ? ESCAPE '\'`, containsPattern(f.Name))
	}
	if f.Email != "" {
		q.Where("email "+like+` ? ESCAPE '\'`, containsPattern(f.Email))
	}
	if f.Verified != nil {
		q.Where("verified = ?", *f.Verified)
	}
	if f.RegisteredFrom != nil {
		q.Where("registered_at >= ?", formatTime(*f.RegisteredFrom))
	}
	if f.RegisteredTo != nil {
		q.Where("registered_at <= ?", formatTime(*f.RegisteredTo))
	}
	return q
}

// ListQueries returns the count and page statements for f. Both share the
// same predicates and values; the page statement also binds limit and offset.
func (f AccountFilter) ListQueries(d database.Dialect) (countSQL string, countArgs []any, pageSQL string, pageArgs []any) {
	f = f.Normalise()

	counter := f.Predicates(NewQuery("SELECT COUNT(*) FROM users"), d)
	countSQL, countArgs = counter.Build("")

	pager := f.Predicates(NewQuery("SELECT "+profileColumns+" FROM users"), d)
	pageSQL, pageArgs = pager.Build("ORDER BY registered_at ASC, id ASC LIMIT ? OFFSET ?", f.Limit, f.Offset())

	return countSQL, countArgs, pageSQL, pageArgs
}

// containsPattern escapes LIKE wildcards in s and wraps it for a substring match.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// InactivityWindow is the closed set of periods the inactivity report accepts.
type InactivityWindow string

// Supported inactivity windows.
const (
	WindowHour  InactivityWindow = "hour"
	WindowDay   InactivityWindow = "day"
	WindowWeek  InactivityWindow = "week"
	WindowMonth InactivityWindow = "month"
)

// InactivityWindows lists every accepted window.
var InactivityWindows = []InactivityWindow{WindowHour, WindowDay, WindowWeek, WindowMonth}

// ParseInactivityWindow validates s against the accepted windows.
func ParseInactivityWindow(s string) (InactivityWindow, error) {
	w := InactivityWindow(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range InactivityWindows {
		if w == known {
			return w, nil
		}
	}
	return "", FieldError("period", "must be one of hour, day, week, month")
}

// Cutoff returns the instant before which a last login counts as inactive.
func (w InactivityWindow) Cutoff(now time.Time) time.Time {
	now = now.UTC()
	switch w {
	case WindowHour:
		return now.Add(-time.Hour)
	case WindowDay:
		return now.AddDate(0, 0, -1)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now
	}
}
