package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nerrad567/gray-logic-accounts/internal/account"
	"github.com/nerrad567/gray-logic-accounts/internal/audit"
	"github.com/nerrad567/gray-logic-accounts/internal/auth"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-accounts/internal/testutil"
)

const testJWTSecret = "api-test-secret-key-at-least-32-characters"

// testEnv is a Server backed by in-memory SQLite, with a settable clock
// shared by the account service and the token service.
type testEnv struct {
	srv       *Server
	handler   http.Handler
	db        *database.DB
	repo      *auth.SQLAccountRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenService
	auditRepo *audit.SQLRepository
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return e.now }

	e.db = testutil.OpenDB(t)
	e.repo = auth.NewAccountRepository(e.db)
	e.auditRepo = audit.NewRepository(e.db)

	var err error
	e.hasher, err = auth.NewPasswordHasher(auth.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	e.tokens, err = auth.NewTokenService(testJWTSecret, "graylogic-accounts", time.Hour, auth.WithClock(clock))
	require.NoError(t, err)

	log := logging.NewWithWriter(io.Discard, config.LoggingConfig{Level: "error", Format: "text"}, "test", "test")

	svc, err := account.NewService(account.Deps{
		Accounts: e.repo,
		Hasher:   e.hasher,
		Tokens:   e.tokens,
		Logger:   log.Logger,
		Clock:    clock,
	})
	require.NoError(t, err)

	e.srv, err = New(Deps{
		Config: config.APIConfig{
			Host:     "127.0.0.1",
			Port:     0,
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5},
		},
		Logger:    log,
		Accounts:  svc,
		Tokens:    e.tokens,
		AuditRepo: e.auditRepo,
		DB:        e.db,
		Version:   "test",
	})
	require.NoError(t, err)

	e.handler = e.srv.Handler()
	return e
}

// do sends a request through the router. body is JSON-encoded unless it is
// already a string.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// createAccount stores an account directly and returns it.
func (e *testEnv) createAccount(t *testing.T, name, email string, verified, admin bool) *auth.Account {
	t.Helper()

	hash, err := e.hasher.Hash("secret12")
	require.NoError(t, err)
	acc := &auth.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Verified:     verified,
		IsAdmin:      admin,
		RegisteredAt: e.now,
	}
	require.NoError(t, e.repo.Create(context.Background(), acc))
	return acc
}

// tokenFor issues a session token for acc without going through /login.
func (e *testEnv) tokenFor(t *testing.T, acc *auth.Account) string {
	t.Helper()
	token, _, err := e.tokens.Issue(acc)
	require.NoError(t, err)
	return token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) Error {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody[Error](t, rec)
	assert.Equal(t, status, body.Status)
	assert.Equal(t, code, body.Code)
	return body
}

func TestNew_RequiresDependencies(t *testing.T) {
	e := newTestEnv(t)
	log := logging.Nop()

	tests := []struct {
		name string
		deps Deps
	}{
		{"no logger", Deps{Accounts: e.srv.accounts, Tokens: e.tokens}},
		{"no accounts", Deps{Logger: log, Tokens: e.tokens}},
		{"no tokens", Deps{Logger: log, Accounts: e.srv.accounts}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.deps)
			assert.Error(t, err)
		})
	}
}

func TestServer_StartClose(t *testing.T) {
	e := newTestEnv(t)
	recorder := audit.NewRecorder(e.auditRepo, "api", 8, logging.Nop().Logger)

	srv, err := New(Deps{
		Config:    config.APIConfig{Host: "127.0.0.1", Port: 0, Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5}},
		Logger:    logging.Nop(),
		Accounts:  e.srv.accounts,
		Tokens:    e.tokens,
		AuditRepo: e.auditRepo,
		Recorder:  recorder,
		Version:   "test",
	})
	require.NoError(t, err)

	assert.Error(t, srv.HealthCheck(context.Background()), "not started yet")
	require.NoError(t, srv.Start(context.Background()))
	assert.NoError(t, srv.HealthCheck(context.Background()))

	recorder.Record(audit.ActionRegister, "usr-1", "usr-1", nil)
	require.NoError(t, srv.Close())

	select {
	case <-recorder.Done():
	default:
		t.Fatal("audit writer still running after Close")
	}

	logs, err := e.auditRepo.List(context.Background(), audit.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Total, "queued entries are drained on shutdown")
}

func TestServer_CloseWithoutStart(t *testing.T) {
	e := newTestEnv(t)
	assert.NoError(t, e.srv.Close())
}

func TestRouter_UnknownRoute(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	requireError(t, rec, http.StatusNotFound, ErrCodeNotFound)

	rec = e.do(t, http.MethodPatch, "/api/v1/register", "", nil)
	requireError(t, rec, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow)
}
