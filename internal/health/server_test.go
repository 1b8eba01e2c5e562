package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHandleHealth(t *testing.T) {
	next := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	server := NewServer(Config{
		ServiceName: "match-oracle",
		NextRun:     func() time.Time { return next },
	})

	rec := httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "match-oracle", resp.Service)
	assert.Equal(t, "2024-03-10T06:00:00Z", resp.NextRun)
}

func TestHandleReady(t *testing.T) {
	server := NewServer(Config{ServiceName: "match-oracle", DB: &fakePinger{}})

	rec := httptest.NewRecorder()
	server.handleReady(rec, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	server.SetReady(true)
	rec = httptest.NewRecorder()
	server.handleReady(rec, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHandleReadyDatabaseDown(t *testing.T) {
	server := NewServer(Config{ServiceName: "match-oracle", DB: &fakePinger{err: fmt.Errorf("connection refused")}})
	server.SetReady(true)

	rec := httptest.NewRecorder()
	server.handleReady(rec, httptest.NewRequest("GET", "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
