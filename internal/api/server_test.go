package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boss-brawl/internal/encounter"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *encounter.Engine, *httptest.Server) {
	t.Helper()
	engine, err := encounter.New(encounter.DefaultConfig())
	require.NoError(t, err)

	srv := NewServer(engine)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		engine.Stop()
	})
	return srv, engine, ts
}

func TestServerProgressReachesEngine(t *testing.T) {
	_, engine, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/progress", "application/json", strings.NewReader(`{"progress": 4}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Queued until the next tick
	_, progress := engine.Design()
	assert.Equal(t, 0, progress)

	engine.StepOnce()

	resp, err = http.Get(ts.URL + "/api/design")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Progress int `json:"progress"`
		Profile  struct {
			Name     string  `json:"name"`
			BossMass float64 `json:"bossMass"`
		} `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 4, body.Progress)
	assert.Equal(t, "blend@4", body.Profile.Name)
	assert.InDelta(t, 2.1, body.Profile.BossMass, 1e-9)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestWebSocketStreamsState(t *testing.T) {
	srv, engine, ts := newTestServer(t)
	go srv.Hub().Run()
	srv.Hub().StartBroadcastLoop(engine)

	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.Hub().ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Event string             `json:"event"`
			Data  encounter.Snapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Event != "encounter:state" {
			continue
		}
		assert.Equal(t, "cp", msg.Data.Backend)
		assert.Equal(t, "none", msg.Data.Outcome)
		return
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	srv, _, ts := newTestServer(t)
	go srv.Hub().Run()

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, srv.Hub().ClientCount())
}
