package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func TestQuery_Build(t *testing.T) {
	q := NewQuery("SELECT COUNT(*) FROM users")
	sql, args := q.Build("")
	assert.Equal(t, "SELECT COUNT(*) FROM users", sql)
	assert.Empty(t, args)

	q.Where("name = ?", "ann").Where("verified = ?", true)
	sql, args = q.Build("LIMIT ? OFFSET ?", 10, 20)
	assert.Equal(t, "SELECT COUNT(*) FROM users WHERE name = ? AND verified = ? LIMIT ? OFFSET ?", sql)
	assert.Equal(t, []any{"ann", true, 10, 20}, args)
}

func TestQuery_ArgsIsCopy(t *testing.T) {
	q := NewQuery("SELECT 1").Where("a = ?", 1)
	args := q.Args()
	args[0] = 99
	assert.Equal(t, []any{1}, q.Args())
}

func TestQuery_PlaceholderMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { NewQuery("SELECT 1").Where("a = ? AND b = ?", 1) })
	assert.Panics(t, func() { NewQuery("SELECT 1").Where("a = 1", 1) })
	assert.Panics(t, func() { NewQuery("SELECT 1").Build("LIMIT ?") })
}

func TestAccountFilter_Normalise(t *testing.T) {
	tests := []struct {
		name      string
		in        AccountFilter
		wantPage  int
		wantLimit int
	}{
		{"defaults", AccountFilter{}, 1, DefaultPageSize},
		{"negative", AccountFilter{Page: -3, Limit: -1}, 1, DefaultPageSize},
		{"capped", AccountFilter{Page: 2, Limit: 1000}, 2, MaxPageSize},
		{"kept", AccountFilter{Page: 4, Limit: 25}, 4, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalise()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}

	assert.Equal(t, 50, AccountFilter{Page: 3, Limit: 25}.Offset())
	assert.Equal(t, 0, AccountFilter{}.Normalise().Offset())
}

func TestAccountFilter_Predicates(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		filter    AccountFilter
		dialect   database.Dialect
		wantWhere string
		wantArgs  []any
	}{
		{
			name:    "no filters",
			filter:  AccountFilter{},
			dialect: database.DialectSQLite,
		},
		{
			name:      "name only",
			filter:    AccountFilter{Name: "ann"},
			dialect:   database.DialectSQLite,
			wantWhere: ` WHERE name LIKE ? ESCAPE '\'`,
			wantArgs:  []any{"%ann%"},
		},
		{
			name: "all filters keep order",
			filter: AccountFilter{
				Name: "ann", Email: "x.com", Verified: boolPtr(false),
				RegisteredFrom: &from, RegisteredTo: &to,
			},
			dialect: database.DialectSQLite,
			wantWhere: ` WHERE name LIKE ? ESCAPE '\' AND email LIKE ? ESCAPE '\' AND verified = ?` +
				` AND registered_at >= ? AND registered_at <= ?`,
			wantArgs: []any{"%ann%", "%x.com%", false, "2026-01-01T00:00:00Z", "2026-01-31T23:59:59Z"},
		},
		{
			name:      "postgres is case-insensitive",
			filter:    AccountFilter{Email: "ANN"},
			dialect:   database.DialectPostgres,
			wantWhere: ` WHERE email ILIKE ? ESCAPE '\'`,
			wantArgs:  []any{"%ANN%"},
		},
		{
			name:      "wildcards are escaped",
			filter:    AccountFilter{Name: `50%_off\`},
			dialect:   database.DialectSQLite,
			wantWhere: ` WHERE name LIKE ? ESCAPE '\'`,
			wantArgs:  []any{`%50\%\_off\\%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.filter.Predicates(NewQuery("SELECT COUNT(*) FROM users"), tt.dialect)
			assert.Equal(t, tt.wantWhere, q.WhereClause())
			if tt.wantArgs == nil {
				assert.Empty(t, q.Args())
			} else {
				assert.Equal(t, tt.wantArgs, q.Args())
			}
			assert.Equal(t, strings.Count(q.WhereClause(), "?"), len(q.Args()))
		})
	}
}

func TestAccountFilter_ListQueriesShareFilters(t *testing.T) {
	f := AccountFilter{Name: "an'; DROP TABLE users; --", Verified: boolPtr(true), Page: 3, Limit: 5}
	countSQL, countArgs, pageSQL, pageArgs := f.ListQueries(database.DialectSQLite)

	assert.NotContains(t, countSQL, "DROP", "values never reach the SQL text")
	assert.NotContains(t, pageSQL, "DROP")

	countWhere := countSQL[strings.Index(countSQL, " WHERE"):]
	assert.Contains(t, pageSQL, countWhere, "count and page use identical predicates")
	assert.Equal(t, countArgs, pageArgs[:len(countArgs)])
	assert.Equal(t, []any{5, 10}, pageArgs[len(countArgs):], "limit then offset")
	assert.True(t, strings.HasSuffix(pageSQL, "ORDER BY registered_at ASC, id ASC LIMIT ? OFFSET ?"))

	pgCount, _, pgPage, _ := f.ListQueries(database.DialectPostgres)
	assert.Contains(t, database.DialectPostgres.Rebind(pgCount), "$2")
	assert.Contains(t, database.DialectPostgres.Rebind(pgPage), "LIMIT $3 OFFSET $4")
}

func TestAccountFilter_Validate(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	require.NoError(t, AccountFilter{RegisteredFrom: &early, RegisteredTo: &late}.Validate())
	require.NoError(t, AccountFilter{RegisteredFrom: &late}.Validate())

	err := AccountFilter{RegisteredFrom: &late, RegisteredTo: &early}.Validate()
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseInactivityWindow(t *testing.T) {
	for _, s := range []string{"hour", "day", "week", "month", " Month "} {
		w, err := ParseInactivityWindow(s)
		require.NoError(t, err, s)
		assert.Contains(t, InactivityWindows, w)
	}

	for _, s := range []string{"", "year", "1h", "hour; DROP TABLE users", "30 days"} {
		_, err := ParseInactivityWindow(s)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, s)
		assert.Contains(t, verr.Fields, "period")
	}
}

func TestInactivityWindow_Cutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-time.Hour), WindowHour.Cutoff(now))
	assert.Equal(t, time.Date(2026, 3, 30, 12, 0, 0, 0, time.UTC), WindowDay.Cutoff(now))
	assert.Equal(t, time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC), WindowWeek.Cutoff(now))
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), WindowMonth.Cutoff(now), "AddDate normalises Feb 31")
}
