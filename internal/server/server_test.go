package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weeklyeats/internal/config"
	"github.com/dukerupert/weeklyeats/internal/database"
	"github.com/dukerupert/weeklyeats/internal/events"
)

func setupServer(t *testing.T, perMinute, burst int) (*Server, *httptest.Server) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Classifier: config.ClassifierConfig{Provider: config.ProviderNone, Timeout: time.Second},
		RateLimit:  config.RateLimitConfig{RequestsPerMinute: perMinute, Burst: burst},
	}
	srv := New(db, nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		srv.Bus().Close()
		ts.Close()
	})
	return srv, ts
}

func TestHealth(t *testing.T) {
	_, ts := setupServer(t, 60, 10)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestMutationsAreRateLimited(t *testing.T) {
	_, ts := setupServer(t, 1, 2)

	post := func() int {
		resp, err := http.Post(ts.URL+"/api/grocery/items", "application/json", strings.NewReader(`{"text":"milk"}`))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// reads are not limited
	resp, err := http.Get(ts.URL + "/api/grocery")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketReceivesGroceryEvents(t *testing.T) {
	srv, ts := setupServer(t, 60, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return srv.Bus().SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/grocery/items", "application/json", strings.NewReader(`{"text":"2 lbs chicken breast"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var evt events.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, events.KindAdd, evt.Type)
	require.Len(t, evt.Items, 1)
	assert.Equal(t, "chicken breast", evt.Items[0].Item)
	assert.Equal(t, "lb", evt.Items[0].Unit)
	assert.Equal(t, "meat", evt.Items[0].Category)
}
