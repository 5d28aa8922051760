package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-accounts/internal/audit"
)

func TestHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, healthOK, body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, map[string]string{
		"database": healthOK,
		"mqtt":     healthDisabled,
		"influxdb": healthDisabled,
	}, body.Components)
}

func TestHealth_DatabaseDown(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Close())

	rec := e.do(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	body := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, healthDown, body.Status)
	assert.Equal(t, healthDown, body.Components["database"])
}

func TestMetrics(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createAccount(t, "Admin", "admin@x.com", true, true)
	e.createAccount(t, "Ann", "ann@x.com", false, false)

	rec := e.do(t, http.MethodGet, "/api/v1/metrics", e.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	m := decodeBody[SystemMetrics](t, rec)
	assert.Equal(t, "test", m.Version)
	assert.Equal(t, 2, m.Accounts.Total)
	assert.Equal(t, 1, m.Accounts.Verified)
	assert.Positive(t, m.Runtime.Goroutines)
	assert.False(t, m.MQTT.Connected)
	assert.False(t, m.InfluxDB.Connected)
}

func TestListAuditLogs(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createAccount(t, "Admin", "admin@x.com", true, true)
	token := e.tokenFor(t, admin)

	ctx := context.Background()
	for _, entry := range []*audit.AuditLog{
		{Action: audit.ActionRegister, EntityType: audit.EntityAccount, EntityID: "usr-1", UserID: "usr-1", Source: "api"},
		{Action: audit.ActionVerify, EntityType: audit.EntityAccount, EntityID: "usr-1", Source: "api"},
		{Action: audit.ActionDelete, EntityType: audit.EntityAccount, EntityID: "usr-2", UserID: admin.ID, Source: "api"},
	} {
		require.NoError(t, e.auditRepo.Create(ctx, entry))
	}

	tests := []struct {
		name      string
		query     string
		wantTotal int
		wantLogs  int
	}{
		{"all", "", 3, 3},
		{"by action", "?action=delete", 1, 1},
		{"by entity", "?entity_id=usr-1", 2, 2},
		{"by actor", "?user_id=" + admin.ID, 1, 1},
		{"paged", "?limit=1&offset=1", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/api/v1/audit"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := decodeBody[audit.ListResult](t, rec)
			assert.Equal(t, tt.wantTotal, body.Total)
			assert.Len(t, body.Logs, tt.wantLogs)
		})
	}

	rec := e.do(t, http.MethodGet, "/api/v1/audit?limit=ten&offset=-1", token, nil)
	body := requireError(t, rec, http.StatusBadRequest, ErrCodeValidation)
	assert.Contains(t, body.Fields, "limit")
	assert.Contains(t, body.Fields, "offset")
}
