package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-accounts/internal/testutil"
)

func TestRepository_CreateAndList(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := []*AuditLog{
		{Action: ActionRegister, EntityType: EntityAccount, EntityID: "usr-1", Source: "api", CreatedAt: base},
		{Action: ActionVerify, EntityType: EntityAccount, EntityID: "usr-1", Source: "api", CreatedAt: base.Add(time.Minute)},
		{Action: ActionUpdate, EntityType: EntityAccount, EntityID: "usr-2", UserID: "usr-9", Source: "api",
			Details: map[string]any{"fields": []any{"name"}}, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, e))
		assert.NotEmpty(t, e.ID)
	}

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, defaultListLimit, all.Limit)
	require.Len(t, all.Logs, 3)
	assert.Equal(t, ActionUpdate, all.Logs[0].Action, "most recent first")
	assert.Equal(t, "usr-9", all.Logs[0].UserID)
	assert.Equal(t, map[string]any{"fields": []any{"name"}}, all.Logs[0].Details)
	assert.Empty(t, all.Logs[2].UserID, "NULL actor reads back empty")

	byEntity, err := repo.List(ctx, Filter{EntityID: "usr-1", Action: ActionVerify})
	require.NoError(t, err)
	assert.Equal(t, 1, byEntity.Total)
	require.Len(t, byEntity.Logs, 1)
	assert.Equal(t, base.Add(time.Minute), byEntity.Logs[0].CreatedAt)

	paged, err := repo.List(ctx, Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, paged.Total)
	require.Len(t, paged.Logs, 1)
	assert.Equal(t, ActionVerify, paged.Logs[0].Action)
}

func TestRepository_ListClampsPagination(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))

	res, err := repo.List(context.Background(), Filter{Limit: 5000, Offset: -4})
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, res.Limit)
	assert.Zero(t, res.Offset)
	assert.NotNil(t, res.Logs)
}

func TestFilter_WhereClause(t *testing.T) {
	where, args := Filter{}.whereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = Filter{Action: "login", UserID: "usr-1"}.whereClause()
	assert.Equal(t, " WHERE action = ? AND user_id = ?", where)
	assert.Equal(t, []any{"login", "usr-1"}, args)
}
