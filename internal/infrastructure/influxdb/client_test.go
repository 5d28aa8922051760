package influxdb_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/influxdb"
)

// fakeInflux answers the ping and write endpoints and records line protocol.
type fakeInflux struct {
	mu    sync.Mutex
	lines []string

	// writeStatus overrides the 204 answered to writes when non-zero.
	writeStatus int
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/ping"):
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(r.URL.Path, "/api/v2/write"):
		body, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.writeStatus != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.writeStatus)
			_, _ = w.Write([]byte(`{"code":"invalid","message":"unable to parse points"}`)) //nolint:errcheck // test server
			return
		}
		f.lines = append(f.lines, strings.Split(strings.TrimSpace(string(body)), "\n")...)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeInflux) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.lines, "\n")
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "accounts-test-token",
		Org:           "graylogic",
		Bucket:        "accounts",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

func connectFake(t *testing.T) (*influxdb.Client, *fakeInflux) {
	t.Helper()
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := influxdb.Connect(testConfig(srv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // test cleanup
	return client, fake
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	require.ErrorIs(t, err, influxdb.ErrDisabled)
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := influxdb.Connect(testConfig(url))
	require.ErrorIs(t, err, influxdb.ErrConnectionFailed)
}

func TestConnect_DefaultBatchSettings(t *testing.T) {
	srv := httptest.NewServer(&fakeInflux{})
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BatchSize = -1
	cfg.FlushInterval = 0

	client, err := influxdb.Connect(cfg)
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck // test cleanup
	assert.True(t, client.IsConnected())
}

func TestHealthCheck(t *testing.T) {
	client, _ := connectFake(t)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestWriteLogin(t *testing.T) {
	client, fake := connectFake(t)

	client.WriteLogin("usr-1", "success")
	client.WriteLogin("", "invalid_credentials")
	client.Flush()

	out := fake.written()
	assert.Contains(t, out, "account_login,outcome=success")
	assert.Contains(t, out, `account_id="usr-1"`)
	assert.Contains(t, out, "account_login,outcome=invalid_credentials")
}

func TestWriteAccountEvent(t *testing.T) {
	client, fake := connectFake(t)

	client.WriteAccountEvent("registered", "usr-2")
	client.WritePoint("custom", map[string]string{"k": "v"}, map[string]any{"value": 1.5})
	client.Flush()

	out := fake.written()
	assert.Contains(t, out, "account_event,event=registered")
	assert.Contains(t, out, "custom,k=v value=1.5")
}

func TestClose(t *testing.T) {
	client, _ := connectFake(t)

	require.NoError(t, client.Close())
	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.HealthCheck(context.Background()), influxdb.ErrNotConnected)

	// Writes and flushes after close are no-ops.
	client.WriteLogin("usr-1", "success")
	client.Flush()
}

func TestWriteErrorsReachCallback(t *testing.T) {
	client, fake := connectFake(t)
	fake.mu.Lock()
	fake.writeStatus = http.StatusBadRequest
	fake.mu.Unlock()

	errs := make(chan error, 4)
	client.SetOnError(func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	client.WriteLogin("usr-1", "success")
	client.Flush()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, influxdb.ErrWriteFailed)
		assert.Contains(t, err.Error(), "bucket accounts")
	case <-time.After(5 * time.Second):
		t.Fatal("write failure was not reported")
	}
}

func TestNilClient(t *testing.T) {
	var client *influxdb.Client
	assert.False(t, client.IsConnected())
	assert.NoError(t, client.Close())
	client.WriteLogin("usr-1", "success")
}
